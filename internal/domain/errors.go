package domain

import "errors"

var (
	// ErrDuplicateUsername is returned when registering a username that already exists.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials is returned when login finds no matching user.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrQuizNotFound indicates a quiz id that matched no stored row.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions rejects starting an attempt on a quiz without questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrAlreadyAnswered rejects re-answering a question revisited via Previous.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrAttemptFinished rejects actions on a completed or closed attempt.
	ErrAttemptFinished = errors.New("attempt already finished")
	// ErrValidation wraps input validation failures.
	ErrValidation = errors.New("validation error")
	// ErrStorage wraps failures of the underlying table files.
	ErrStorage = errors.New("storage failure")
)
