package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quizdesk/internal/domain"
)

// ScoreRecorder persists the outcome of a finished attempt.
type ScoreRecorder interface {
	SaveScore(userID, quizID int64, score, timeTaken int) (int64, error)
}

// DefaultQuestionTime is the per-question budget when config supplies none.
const DefaultQuestionTime = 30 * time.Second

// QuestionView is what the presentation layer renders for the current
// question.
type QuestionView struct {
	Text     string
	Options  [4]string
	Position int // 1-based
	Total    int
	Inert    bool // already answered; options must not score again
	Seconds  int  // full countdown budget for this question
}

// AnswerOutcome reports how a submission scored. CorrectOption is 1-based,
// matching the numbering shown to the student.
type AnswerOutcome struct {
	Correct       bool
	CorrectOption int
}

// Result is the final outcome of a finished attempt.
type Result struct {
	Score       int
	Total       int
	Percentage  int
	TimeTaken   int // seconds
	StudentName string
}

// Attempt drives one student's run through a quiz. It owns all session
// state; the countdown timer never mutates it directly but posts events the
// run loop feeds back in, tagged with a generation so anything stale or
// fired after Close is a no-op.
//
// States are Presenting(index) for index in [0,N) and Finished.
type Attempt struct {
	id        string
	user      domain.UserSession
	quizID    int64
	questions []domain.Question

	index    int
	score    int
	answered int // count of answered questions; question i is inert when i < answered

	startedAt    time.Time
	questionTime time.Duration
	generation   int
	now          func() time.Time

	recorder ScoreRecorder
	log      *slog.Logger

	finished bool
	closed   bool
	result   Result
}

// AttemptOption tweaks attempt construction.
type AttemptOption func(*Attempt)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) AttemptOption {
	return func(a *Attempt) { a.now = now }
}

// WithQuestionTime overrides the per-question budget.
func WithQuestionTime(d time.Duration) AttemptOption {
	return func(a *Attempt) { a.questionTime = d }
}

// NewAttempt starts an attempt at quizID for user. A quiz without questions
// is rejected before any session state exists.
func NewAttempt(user domain.UserSession, quizID int64, questions []domain.Question, recorder ScoreRecorder, log *slog.Logger, opts ...AttemptOption) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	a := &Attempt{
		id:           uuid.NewString(),
		user:         user,
		quizID:       quizID,
		questions:    questions,
		questionTime: DefaultQuestionTime,
		generation:   1,
		now:          time.Now,
		recorder:     recorder,
		log:          log,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.startedAt = a.now()
	a.log.Info("attempt started", "attempt", a.id, "quiz", quizID, "user", user.UserID, "questions", len(questions))
	return a, nil
}

// ID identifies the attempt in logs and countdown events.
func (a *Attempt) ID() string { return a.id }

// Generation tags the current question's countdown. It changes on every
// transition, so an event carrying an old generation must be ignored.
func (a *Attempt) Generation() int { return a.generation }

// QuestionTime is the per-question budget.
func (a *Attempt) QuestionTime() time.Duration { return a.questionTime }

// Finished reports whether the attempt reached its terminal state.
func (a *Attempt) Finished() bool { return a.finished }

// Current returns the view of the question being presented.
func (a *Attempt) Current() (QuestionView, error) {
	if a.finished || a.closed {
		return QuestionView{}, domain.ErrAttemptFinished
	}
	q := a.questions[a.index]
	return QuestionView{
		Text:     q.Text,
		Options:  q.Options,
		Position: a.index + 1,
		Total:    len(a.questions),
		Inert:    a.index < a.answered,
		Seconds:  int(a.questionTime / time.Second),
	}, nil
}

// Answer submits option k (1..4) for the current question. Revisited
// questions are inert: answering them again is rejected and nothing changes.
// Submitting cancels the pending countdown (the generation moves on) and
// advances to the next question.
func (a *Attempt) Answer(k int) (AnswerOutcome, error) {
	if a.finished || a.closed {
		return AnswerOutcome{}, domain.ErrAttemptFinished
	}
	if k < 1 || k > 4 {
		return AnswerOutcome{}, fmt.Errorf("%w: option %d out of range 1..4", domain.ErrValidation, k)
	}
	if a.index < a.answered {
		return AnswerOutcome{}, domain.ErrAlreadyAnswered
	}

	q := a.questions[a.index]
	outcome := AnswerOutcome{
		Correct:       k == q.CorrectAnswer+1,
		CorrectOption: q.CorrectAnswer + 1,
	}
	if outcome.Correct {
		a.score++
	}
	if a.index+1 > a.answered {
		a.answered = a.index + 1
	}
	return outcome, a.advance()
}

// Next moves forward without answering. On an unanswered question this is a
// skip: score and answered count stay as they are — identical to a countdown
// expiring.
func (a *Attempt) Next() error {
	if a.finished || a.closed {
		return domain.ErrAttemptFinished
	}
	return a.advance()
}

// Previous re-enters the prior question with a fresh countdown. It renders
// inert when it was already answered.
func (a *Attempt) Previous() error {
	if a.finished || a.closed {
		return domain.ErrAttemptFinished
	}
	if a.index == 0 {
		return fmt.Errorf("%w: already at the first question", domain.ErrValidation)
	}
	a.index--
	a.generation++
	return nil
}

// ExpireIfCurrent handles a countdown-expiry event. Events whose generation
// is stale, or that land after the attempt finished or closed, are no-ops.
// A live expiry behaves exactly like Next.
func (a *Attempt) ExpireIfCurrent(generation int) (bool, error) {
	if a.finished || a.closed || generation != a.generation {
		return false, nil
	}
	return true, a.advance()
}

// Close cancels the attempt: in-memory state is abandoned, no leaderboard
// entry is written, and any countdown event still in flight is stale.
func (a *Attempt) Close() {
	if a.finished || a.closed {
		return
	}
	a.closed = true
	a.generation++
	a.log.Info("attempt abandoned", "attempt", a.id, "quiz", a.quizID)
}

// Result returns the final outcome of a finished attempt.
func (a *Attempt) Result() (Result, error) {
	if !a.finished {
		return Result{}, domain.ErrAttemptFinished
	}
	return a.result, nil
}

func (a *Attempt) advance() error {
	a.index++
	a.generation++
	if a.index >= len(a.questions) {
		return a.finish()
	}
	return nil
}

// finish computes the outcome and writes exactly one leaderboard entry, no
// matter how often the student revisited questions along the way.
func (a *Attempt) finish() error {
	n := len(a.questions)
	a.finished = true
	a.result = Result{
		Score:       a.score,
		Total:       n,
		Percentage:  a.score * 100 / n,
		TimeTaken:   int(a.now().Sub(a.startedAt) / time.Second),
		StudentName: domain.DisplayName(a.user.Name, a.user.UserID),
	}

	if _, err := a.recorder.SaveScore(a.user.UserID, a.quizID, a.result.Percentage, a.result.TimeTaken); err != nil {
		a.log.Error("score not recorded", "attempt", a.id, "err", err)
		return err
	}
	a.log.Info("attempt finished", "attempt", a.id, "quiz", a.quizID,
		"score", a.result.Score, "percentage", a.result.Percentage, "seconds", a.result.TimeTaken)
	return nil
}
