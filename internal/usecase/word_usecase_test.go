package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/entity"
)

func newTestWordUsecase(store *fakeStore, enricher *stubEnricher) *wordUsecase {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	u := NewWordUsecase(store, store, enricher, logger).(*wordUsecase)
	u.clock = func() time.Time { return now }
	seq := 0
	u.newID = func() string {
		seq++
		return string(rune('a' + seq - 1))
	}
	return u
}

func TestWordUsecaseAddCreatesWordAndReview(t *testing.T) {
	store := newFakeStore()
	u := newTestWordUsecase(store, &stubEnricher{base: map[string]string{"running": "Run"}})

	word, err := u.Add(context.Background(), "  Running ", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if word.ID != "a" || word.Text != "run" || word.Language != entity.LanguageEnglish {
		t.Fatalf("unexpected word %+v", word)
	}
	if len(word.Examples) != 1 || word.Translation == "" {
		t.Fatalf("expected enrichment to be stored, got %+v", word)
	}
	review, err := store.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if review.Interval != 0 || review.Streak != 0 || !review.NextReviewAt.Equal(now) || review.EaseFactor != entity.DefaultEaseFactor {
		t.Fatalf("unexpected initial review %+v", review)
	}
}

func TestWordUsecaseAddDuplicateResetsReview(t *testing.T) {
	store := newFakeStore()
	seedWord(t, store, "x", "run", entity.LanguageEnglish, func(r *entity.Review) {
		r.Streak, r.Interval, r.EaseFactor = 3, 20, 2.0
		r.NextReviewAt = now.AddDate(0, 0, 20)
	})
	u := newTestWordUsecase(store, &stubEnricher{base: map[string]string{"ran": "run"}})

	word, err := u.Add(context.Background(), "ran", entity.LanguageEnglish)
	if !errors.Is(err, entity.ErrDuplicateWord) {
		t.Fatalf("expected ErrDuplicateWord, got %v", err)
	}
	if word == nil || word.ID != "x" {
		t.Fatalf("expected existing word returned, got %+v", word)
	}
	review, _ := store.Get(context.Background(), "x")
	if review.Streak != 0 || review.Interval != 0 || !review.NextReviewAt.Equal(now) || !almostEqual(review.EaseFactor, 1.8) {
		t.Fatalf("expected reset review, got %+v", review)
	}
	if len(store.words) != 1 {
		t.Fatalf("duplicate must not insert a word")
	}
}

func TestWordUsecaseAddValidationAndEnrichFailure(t *testing.T) {
	enricher := &stubEnricher{err: errors.New("llm down")}
	u := newTestWordUsecase(newFakeStore(), enricher)
	if _, err := u.Add(context.Background(), "   ", ""); !errors.Is(err, entity.ErrInvalidWordText) {
		t.Fatalf("expected ErrInvalidWordText, got %v", err)
	}
	if enricher.calls != 0 {
		t.Fatalf("blank input must not reach the enricher")
	}
	if _, err := u.Add(context.Background(), "word", ""); err == nil || errors.Is(err, entity.ErrDuplicateWord) {
		t.Fatalf("expected enrichment error, got %v", err)
	}
}

func TestWordUsecaseGet(t *testing.T) {
	store := newFakeStore()
	seedWord(t, store, "x", "run", entity.LanguageEnglish, nil)
	u := newTestWordUsecase(store, &stubEnricher{})
	if _, err := u.Get(context.Background(), ""); !errors.Is(err, entity.ErrInvalidWordID) {
		t.Fatalf("expected ErrInvalidWordID, got %v", err)
	}
	if w, err := u.Get(context.Background(), "x"); err != nil || w.Text != "run" {
		t.Fatalf("get: %+v %v", w, err)
	}
}
