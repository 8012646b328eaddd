package app_test

import (
	"errors"
	"testing"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
	"quizdesk/internal/infra/flatfile"
)

func newCatalog(t *testing.T) (*app.CatalogService, *flatfile.Store) {
	t.Helper()
	store, err := flatfile.Open(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cache := app.NewQuestionCache(store, time.Minute)
	return app.NewCatalogService(store, cache, discardLogger()), store
}

func draftQuestion(text string, correct int) app.QuestionDraft {
	return app.QuestionDraft{
		Text:         text,
		Options:      [4]string{"a", "b", "c", "d"},
		CorrectIndex: correct,
	}
}

func TestSaveQuizPersistsQuestionsInOrder(t *testing.T) {
	catalog, _ := newCatalog(t)

	quizID, err := catalog.SaveQuiz(app.QuizDraft{
		Title:       "Math: Fractions",
		Description: "basics",
		Questions: []app.QuestionDraft{
			draftQuestion("first", 0),
			draftQuestion("second", 3),
			draftQuestion("third", 1),
		},
	})
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}

	questions, err := catalog.Questions(quizID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	for i, want := range []string{"first", "second", "third"} {
		if questions[i].Text != want {
			t.Fatalf("question %d is %q, want %q (storage order)", i, questions[i].Text, want)
		}
	}
}

func TestSaveQuizValidationAbortsBeforePersisting(t *testing.T) {
	catalog, store := newCatalog(t)

	cases := []app.QuizDraft{
		{Title: "", Questions: []app.QuestionDraft{draftQuestion("q", 0)}},
		{Title: "Math: Empty"},
		{Title: "Math: Bad", Questions: []app.QuestionDraft{draftQuestion("", 0)}},
		{Title: "Math: Range", Questions: []app.QuestionDraft{draftQuestion("q", 4)}},
		{Title: "Math: Hole", Questions: []app.QuestionDraft{{
			Text:         "q",
			Options:      [4]string{"a", "", "c", "d"},
			CorrectIndex: 0,
		}}},
	}
	for i, draft := range cases {
		if _, err := catalog.SaveQuiz(draft); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	quizzes, err := store.Quizzes()
	if err != nil {
		t.Fatalf("quizzes: %v", err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("failed validation must persist nothing, found %d quizzes", len(quizzes))
	}
}

func TestAddQuestionValidatesCorrectIndex(t *testing.T) {
	catalog, _ := newCatalog(t)

	quizID, err := catalog.CreateQuiz("Science: Atoms", "")
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if _, err := catalog.AddQuestion(quizID, draftQuestion("q", -1)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for index -1, got %v", err)
	}
	if _, err := catalog.AddQuestion(quizID, draftQuestion("q", 3)); err != nil {
		t.Fatalf("index 3 is valid: %v", err)
	}
}

func TestDeleteQuizCascadesAndInvalidatesCache(t *testing.T) {
	catalog, store := newCatalog(t)

	quizID, err := catalog.SaveQuiz(app.QuizDraft{
		Title:     "History: Rome",
		Questions: []app.QuestionDraft{draftQuestion("q1", 0), draftQuestion("q2", 1)},
	})
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}

	// prime the cache, then delete underneath it
	if _, err := catalog.Questions(quizID); err != nil {
		t.Fatalf("questions: %v", err)
	}

	found, err := catalog.DeleteQuiz(quizID)
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}

	questions, err := catalog.Questions(quizID)
	if err != nil {
		t.Fatalf("questions after delete: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("cache must not serve questions of a deleted quiz, got %d", len(questions))
	}

	entriesBefore, _ := store.Scores()
	if len(entriesBefore) != 0 {
		t.Fatalf("sanity: no scores expected")
	}

	found, err = catalog.DeleteQuiz(quizID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if found {
		t.Fatalf("deleting a missing quiz reports false")
	}
}

func TestCreateQuizRequiresTitle(t *testing.T) {
	catalog, _ := newCatalog(t)
	if _, err := catalog.CreateQuiz("", "desc"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
