package app

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"quizdesk/internal/domain"
)

// QuizStore abstracts the quiz and question tables for the catalog.
type QuizStore interface {
	AddQuiz(title, description string) (int64, error)
	Quizzes() ([]domain.Quiz, error)
	DeleteQuiz(quizID int64) (bool, error)
	AddQuestion(quizID int64, text string, options [4]string, correctIndex int) (int64, error)
	Questions(quizID int64) ([]domain.Question, error)
}

// QuestionDraft is a question as submitted by the authoring form.
// CorrectIndex is zero-based.
type QuestionDraft struct {
	Text         string    `validate:"required"`
	Options      [4]string `validate:"dive,required"`
	CorrectIndex int       `validate:"gte=0,lte=3"`
}

// QuizDraft is a quiz plus its questions, saved as one authoring action.
type QuizDraft struct {
	Title       string `validate:"required"`
	Description string
	Questions   []QuestionDraft `validate:"min=1,dive"`
}

// CatalogService manages quizzes and their questions. Question reads go
// through a TTL cache; every write path invalidates the affected quiz.
type CatalogService struct {
	store    QuizStore
	cache    *QuestionCache
	validate *validator.Validate
	log      *slog.Logger
}

func NewCatalogService(store QuizStore, cache *QuestionCache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		store:    store,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

// CreateQuiz appends a quiz row and returns its id.
func (s *CatalogService) CreateQuiz(title, description string) (int64, error) {
	if title == "" {
		return 0, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return s.store.AddQuiz(title, description)
}

// ListQuizzes returns all quizzes in insertion order.
func (s *CatalogService) ListQuizzes() ([]domain.Quiz, error) {
	return s.store.Quizzes()
}

// AddQuestion validates and appends one question under quizID. The quiz id
// itself is not checked; authoring flows call this right after CreateQuiz.
func (s *CatalogService) AddQuestion(quizID int64, draft QuestionDraft) (int64, error) {
	if err := s.validate.Struct(draft); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	id, err := s.store.AddQuestion(quizID, draft.Text, draft.Options, draft.CorrectIndex)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(quizID)
	return id, nil
}

// SaveQuiz persists a quiz together with its questions. Validation runs over
// the whole draft first, so a bad question aborts the save before any row is
// written.
func (s *CatalogService) SaveQuiz(draft QuizDraft) (int64, error) {
	if err := s.validate.Struct(draft); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	quizID, err := s.store.AddQuiz(draft.Title, draft.Description)
	if err != nil {
		return 0, err
	}
	for _, q := range draft.Questions {
		if _, err := s.store.AddQuestion(quizID, q.Text, q.Options, q.CorrectIndex); err != nil {
			return 0, err
		}
	}
	s.cache.Invalidate(quizID)
	s.log.Info("quiz saved", "id", quizID, "title", draft.Title, "questions", len(draft.Questions))
	return quizID, nil
}

// DeleteQuiz removes the first quiz row with the given id and cascades to
// every question under it. Reports false when no quiz row matched; the
// caller decides whether that is worth telling the user.
func (s *CatalogService) DeleteQuiz(quizID int64) (bool, error) {
	found, err := s.store.DeleteQuiz(quizID)
	if err != nil {
		return found, err
	}
	s.cache.Invalidate(quizID)
	if found {
		s.log.Info("quiz deleted", "id", quizID)
	}
	return found, nil
}

// Questions returns the questions of one quiz in their stored order, which
// is also the order an attempt presents them in.
func (s *CatalogService) Questions(quizID int64) ([]domain.Question, error) {
	return s.cache.Get(quizID)
}
