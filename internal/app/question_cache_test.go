package app_test

import (
	"testing"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

type countingLoader struct {
	questions []domain.Question
	calls     int
}

func (l *countingLoader) Questions(quizID int64) ([]domain.Question, error) {
	l.calls++
	return l.questions, nil
}

func TestQuestionCacheServesFromMemory(t *testing.T) {
	loader := &countingLoader{questions: threeQuestions()}
	cache := app.NewQuestionCache(loader, time.Minute)

	if _, err := cache.Get(7); err != nil {
		t.Fatalf("get: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected one loader call, got %d", loader.calls)
	}

	got, err := cache.Get(7)
	if err != nil {
		t.Fatalf("get 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got))
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	loader := &countingLoader{questions: threeQuestions()}
	cache := app.NewQuestionCache(loader, time.Minute)

	if _, err := cache.Get(7); err != nil {
		t.Fatalf("get: %v", err)
	}
	cache.Invalidate(7)
	if _, err := cache.Get(7); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("invalidate must force a reload, loader calls %d", loader.calls)
	}
}
