package integration

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
	"quizdesk/internal/infra/flatfile"
)

// Full pass over the real flat-file stack: register accounts, author a quiz,
// run an attempt, delete the quiz, and check the leaderboard still renders
// the recorded entry.
func TestRegisterAuthorAttemptLeaderboard(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := flatfile.Open(dir, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	auth := app.NewAuthService(store, log)
	catalog := app.NewCatalogService(store, app.NewQuestionCache(store, time.Minute), log)
	boards := app.NewLeaderboardService(store)

	if _, err := auth.Register("ms-smith", "chalk", domain.RoleTeacher); err != nil {
		t.Fatalf("register teacher: %v", err)
	}
	if _, err := auth.Register("alice", "s3cret", domain.RoleStudent); err != nil {
		t.Fatalf("register student: %v", err)
	}

	quizID, err := catalog.SaveQuiz(app.QuizDraft{
		Title:       "Math: Fractions",
		Description: "half of everything",
		Questions: []app.QuestionDraft{
			{Text: "1/2 + 1/2?", Options: [4]string{"0", "1", "2", "1/4"}, CorrectIndex: 1},
			{Text: "1/4 * 2?", Options: [4]string{"1/2", "1/4", "2", "1"}, CorrectIndex: 0},
		},
	})
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}

	sess, err := auth.Login("alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	questions, err := catalog.Questions(quizID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	attempt, err := app.NewAttempt(sess, quizID, questions, store, log)
	if err != nil {
		t.Fatalf("new attempt: %v", err)
	}
	if _, err := attempt.Answer(2); err != nil { // correct
		t.Fatalf("answer 1: %v", err)
	}
	if _, err := attempt.Answer(3); err != nil { // wrong
		t.Fatalf("answer 2: %v", err)
	}
	res, err := attempt.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d%%", res.Percentage)
	}

	// survives a reopen: a fresh store over the same directory sees the data
	reopened, err := flatfile.Open(dir, log)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	boards = app.NewLeaderboardService(reopened)

	top, err := boards.TopScores(quizID, 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 1 || top[0].Score != 50 {
		t.Fatalf("unexpected ranking %+v", top)
	}

	// deleting the quiz keeps the entry and renders the placeholder title
	if found, err := catalog.DeleteQuiz(quizID); err != nil || !found {
		t.Fatalf("delete quiz: found=%v err=%v", found, err)
	}
	rows, err := boards.FullLeaderboard()
	if err != nil {
		t.Fatalf("full leaderboard: %v", err)
	}
	if len(rows) != 1 || rows[0].QuizTitle != "Deleted Quiz" || rows[0].StudentName != "alice" {
		t.Fatalf("unexpected leaderboard %+v", rows)
	}

	// starting an attempt on the now-empty quiz must be rejected up front
	questions, err = catalog.Questions(quizID)
	if err != nil {
		t.Fatalf("questions after delete: %v", err)
	}
	if _, err := app.NewAttempt(sess, quizID, questions, store, log); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
