package flatfile

import (
	"fmt"
	"strconv"

	"quizdesk/internal/domain"
)

// Row encode/decode between CSV records and named domain types. Arity is
// already enforced by Table.Load; these only validate field contents.

func decodeUser(row []string) (domain.User, error) {
	id, err := parseID(row[0])
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:             id,
		Username:       row[1],
		PasswordDigest: row[2],
		Role:           row[3],
	}, nil
}

func encodeUser(u domain.User) []string {
	return []string{strconv.FormatInt(u.ID, 10), u.Username, u.PasswordDigest, u.Role}
}

func decodeQuiz(row []string) (domain.Quiz, error) {
	id, err := parseID(row[0])
	if err != nil {
		return domain.Quiz{}, err
	}
	return domain.Quiz{ID: id, Title: row[1], Description: row[2]}, nil
}

func decodeQuestion(row []string) (domain.Question, error) {
	id, err := parseID(row[0])
	if err != nil {
		return domain.Question{}, err
	}
	quizID, err := parseID(row[1])
	if err != nil {
		return domain.Question{}, err
	}
	correct, err := parseInt(row[7])
	if err != nil {
		return domain.Question{}, err
	}
	if correct < 0 || correct > 3 {
		return domain.Question{}, fmt.Errorf("%w: correct_answer %d out of range", domain.ErrStorage, correct)
	}
	return domain.Question{
		ID:            id,
		QuizID:        quizID,
		Text:          row[2],
		Options:       [4]string{row[3], row[4], row[5], row[6]},
		CorrectAnswer: correct,
	}, nil
}

func decodeEntry(row []string) (domain.LeaderboardEntry, error) {
	id, err := parseID(row[0])
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	userID, err := parseID(row[1])
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	quizID, err := parseID(row[2])
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	score, err := parseInt(row[3])
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	taken, err := parseInt(row[4])
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	return domain.LeaderboardEntry{
		ID:        id,
		UserID:    userID,
		QuizID:    quizID,
		Score:     score,
		TimeTaken: taken,
	}, nil
}
