package app

import (
	"sort"

	"quizdesk/internal/domain"
)

// LeaderboardStore abstracts the tables the aggregator joins across.
type LeaderboardStore interface {
	Scores() ([]domain.LeaderboardEntry, error)
	Users() ([]domain.User, error)
	Quizzes() ([]domain.Quiz, error)
}

// AllQuizzes makes TopScores rank entries across every quiz.
const AllQuizzes int64 = 0

// LeaderboardService ranks recorded attempt outcomes.
type LeaderboardService struct {
	store LeaderboardStore
}

func NewLeaderboardService(store LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// TopScores returns at most limit entries, filtered to one quiz unless
// quizID is AllQuizzes, sorted descending by score. The sort is stable: ties
// keep their recorded order.
func (s *LeaderboardService) TopScores(quizID int64, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := s.store.Scores()
	if err != nil {
		return nil, err
	}
	filtered := entries[:0:0]
	for _, e := range entries {
		if quizID == AllQuizzes || e.QuizID == quizID {
			filtered = append(filtered, e)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	if limit >= 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// FullLeaderboard joins every entry with its user and quiz names. A missing
// user renders as "Unknown"; a quiz deleted after the entry was recorded
// renders as "Deleted Quiz" — entries are never cascade-deleted. Sorted
// descending by score, stable.
func (s *LeaderboardService) FullLeaderboard() ([]domain.LeaderboardRow, error) {
	entries, err := s.store.Scores()
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users()
	if err != nil {
		return nil, err
	}
	quizzes, err := s.store.Quizzes()
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	titles := make(map[int64]string, len(quizzes))
	for _, q := range quizzes {
		titles[q.ID] = q.Title
	}

	rows := make([]domain.LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.UserID]
		if !ok {
			name = "Unknown"
		}
		title, ok := titles[e.QuizID]
		if !ok {
			title = "Deleted Quiz"
		}
		rows = append(rows, domain.LeaderboardRow{
			StudentName: name,
			QuizTitle:   title,
			Score:       e.Score,
			TimeTaken:   e.TimeTaken,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows, nil
}
