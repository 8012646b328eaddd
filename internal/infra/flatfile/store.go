package flatfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"quizdesk/internal/domain"
)

// File names of the four tables inside the data directory.
const (
	usersFile       = "users.csv"
	quizzesFile     = "quizzes.csv"
	questionsFile   = "questions.csv"
	leaderboardFile = "leaderboard.csv"
)

var (
	usersHeader       = []string{"id", "username", "password", "role"}
	quizzesHeader     = []string{"id", "title", "description"}
	questionsHeader   = []string{"id", "quiz_id", "question_text", "option1", "option2", "option3", "option4", "correct_answer"}
	leaderboardHeader = []string{"id", "user_id", "quiz_id", "score", "time_taken"}
)

// Store owns the four table files. It is constructed once at process start
// and handed to every service that needs it; nothing reaches the files
// through package-level state. Every operation reloads its table from disk,
// mutates in memory and saves, mirroring the single-user access pattern the
// design assumes.
type Store struct {
	users       *Table
	quizzes     *Table
	questions   *Table
	leaderboard *Table
	log         *slog.Logger
}

// Open builds a Store rooted at dir, creating the directory and any missing
// table files.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", domain.ErrStorage, dir, err)
	}
	s := &Store{
		users:       NewTable(filepath.Join(dir, usersFile), usersHeader),
		quizzes:     NewTable(filepath.Join(dir, quizzesFile), quizzesHeader),
		questions:   NewTable(filepath.Join(dir, questionsFile), questionsHeader),
		leaderboard: NewTable(filepath.Join(dir, leaderboardFile), leaderboardHeader),
		log:         log,
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Init creates any missing table files. Idempotent; safe to call on every
// start and from lazy-initialization paths.
func (s *Store) Init() error {
	for _, t := range []*Table{s.users, s.quizzes, s.questions, s.leaderboard} {
		if err := t.CreateIfMissing(); err != nil {
			s.log.Error("table init failed", "path", t.path, "err", err)
			return err
		}
	}
	return nil
}

// AddUser appends a user row and returns its id. Username uniqueness is the
// caller's concern (see app.AuthService).
func (s *Store) AddUser(username, passwordDigest, role string) (int64, error) {
	if err := s.users.Load(); err != nil {
		return 0, s.fail("add user", err)
	}
	id, err := s.users.Append([]string{username, passwordDigest, role})
	if err != nil {
		return 0, s.fail("add user", err)
	}
	if err := s.users.Save(); err != nil {
		return 0, s.fail("add user", err)
	}
	return id, nil
}

// FindUser returns the first user with the given username, or false.
func (s *Store) FindUser(username string) (domain.User, bool, error) {
	users, err := s.Users()
	if err != nil {
		return domain.User{}, false, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

// Users returns every user row in storage order.
func (s *Store) Users() ([]domain.User, error) {
	if err := s.users.Load(); err != nil {
		return nil, s.fail("scan users", err)
	}
	out := make([]domain.User, 0, s.users.Len())
	for _, row := range s.users.Scan(func([]string) bool { return true }) {
		u, err := decodeUser(row)
		if err != nil {
			return nil, s.fail("scan users", err)
		}
		out = append(out, u)
	}
	return out, nil
}

// ReplaceUsers overwrites the user table with the given rows, preserving
// ids. Used only by maintenance cleanup.
func (s *Store) ReplaceUsers(users []domain.User) error {
	if err := s.users.Load(); err != nil {
		return s.fail("replace users", err)
	}
	s.users.rows = s.users.rows[:0]
	for _, u := range users {
		s.users.rows = append(s.users.rows, encodeUser(u))
	}
	if err := s.users.Save(); err != nil {
		return s.fail("replace users", err)
	}
	return nil
}

// AddQuiz appends a quiz row and returns its id.
func (s *Store) AddQuiz(title, description string) (int64, error) {
	if err := s.quizzes.Load(); err != nil {
		return 0, s.fail("add quiz", err)
	}
	id, err := s.quizzes.Append([]string{title, description})
	if err != nil {
		return 0, s.fail("add quiz", err)
	}
	if err := s.quizzes.Save(); err != nil {
		return 0, s.fail("add quiz", err)
	}
	return id, nil
}

// Quizzes returns every quiz in insertion order.
func (s *Store) Quizzes() ([]domain.Quiz, error) {
	if err := s.quizzes.Load(); err != nil {
		return nil, s.fail("scan quizzes", err)
	}
	out := make([]domain.Quiz, 0, s.quizzes.Len())
	for _, row := range s.quizzes.Scan(func([]string) bool { return true }) {
		q, err := decodeQuiz(row)
		if err != nil {
			return nil, s.fail("scan quizzes", err)
		}
		out = append(out, q)
	}
	return out, nil
}

// DeleteQuiz removes the first quiz row with the given id and every question
// row referencing it. Reports whether a quiz row was removed. Leaderboard
// entries are never cascade-deleted.
func (s *Store) DeleteQuiz(quizID int64) (bool, error) {
	want := strconv.FormatInt(quizID, 10)

	if err := s.quizzes.Load(); err != nil {
		return false, s.fail("delete quiz", err)
	}
	found := s.quizzes.DeleteFirst(func(row []string) bool { return row[0] == want })
	if found {
		if err := s.quizzes.Save(); err != nil {
			return false, s.fail("delete quiz", err)
		}
	}

	if err := s.questions.Load(); err != nil {
		return found, s.fail("delete quiz questions", err)
	}
	if s.questions.DeleteWhere(func(row []string) bool { return row[1] == want }) > 0 {
		if err := s.questions.Save(); err != nil {
			return found, s.fail("delete quiz questions", err)
		}
	}
	return found, nil
}

// AddQuestion appends a question row under quizID and returns its id. The
// quiz id is not checked for existence; authoring flows append questions
// right after creating the quiz.
func (s *Store) AddQuestion(quizID int64, text string, options [4]string, correctIndex int) (int64, error) {
	if err := s.questions.Load(); err != nil {
		return 0, s.fail("add question", err)
	}
	id, err := s.questions.Append([]string{
		strconv.FormatInt(quizID, 10),
		text,
		options[0], options[1], options[2], options[3],
		strconv.Itoa(correctIndex),
	})
	if err != nil {
		return 0, s.fail("add question", err)
	}
	if err := s.questions.Save(); err != nil {
		return 0, s.fail("add question", err)
	}
	return id, nil
}

// Questions returns the questions of one quiz in storage order. That order
// is the presentation order of a quiz attempt, so it must stay stable.
func (s *Store) Questions(quizID int64) ([]domain.Question, error) {
	want := strconv.FormatInt(quizID, 10)
	if err := s.questions.Load(); err != nil {
		return nil, s.fail("scan questions", err)
	}
	var out []domain.Question
	for _, row := range s.questions.Scan(func(row []string) bool { return row[1] == want }) {
		q, err := decodeQuestion(row)
		if err != nil {
			return nil, s.fail("scan questions", err)
		}
		out = append(out, q)
	}
	return out, nil
}

// SaveScore appends one leaderboard entry and returns its id. Entries are
// append-only history; nothing ever mutates or deletes them.
func (s *Store) SaveScore(userID, quizID int64, score, timeTaken int) (int64, error) {
	if err := s.leaderboard.Load(); err != nil {
		return 0, s.fail("save score", err)
	}
	id, err := s.leaderboard.Append([]string{
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(quizID, 10),
		strconv.Itoa(score),
		strconv.Itoa(timeTaken),
	})
	if err != nil {
		return 0, s.fail("save score", err)
	}
	if err := s.leaderboard.Save(); err != nil {
		return 0, s.fail("save score", err)
	}
	return id, nil
}

// Scores returns every leaderboard entry in insertion order.
func (s *Store) Scores() ([]domain.LeaderboardEntry, error) {
	if err := s.leaderboard.Load(); err != nil {
		return nil, s.fail("scan leaderboard", err)
	}
	out := make([]domain.LeaderboardEntry, 0, s.leaderboard.Len())
	for _, row := range s.leaderboard.Scan(func([]string) bool { return true }) {
		e, err := decodeEntry(row)
		if err != nil {
			return nil, s.fail("scan leaderboard", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// fail logs a storage error at the boundary and passes it up as-is; every
// table error already wraps domain.ErrStorage.
func (s *Store) fail(op string, err error) error {
	s.log.Error("store operation failed", "op", op, "err", err)
	return err
}
