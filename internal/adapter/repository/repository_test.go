package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/dbtest"
	"github.com/jyokotori/neko-words/internal/repository"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func createWord(t *testing.T, words repository.WordRepository, id, text string, lang entity.Language, review *entity.Review) *entity.Word {
	t.Helper()
	w := &entity.Word{
		ID:          id,
		Text:        text,
		Language:    lang,
		Translation: "[/" + text + "/] " + text,
		Examples:    []entity.Example{{Sentence: "A " + text + ".", Translation: "ex"}},
		CreatedAt:   base,
	}
	if review == nil {
		review = entity.NewReview(id, base.Add(-time.Hour))
	}
	created, err := words.Create(context.Background(), w, review)
	if err != nil {
		t.Fatalf("create %s: %v", text, err)
	}
	return created
}

func TestWordRepositoryCreateAndLookup(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	words := NewWordRepository(db)
	ctx := context.Background()

	created := createWord(t, words, "w1", "serendipity", entity.LanguageEnglish, nil)
	if created.Text != "serendipity" || len(created.Examples) != 1 || !created.CreatedAt.Equal(base) {
		t.Fatalf("unexpected created word %+v", created)
	}

	found, err := words.Lookup(ctx, " Serendipity ", entity.LanguageEnglish)
	if err != nil || found.ID != "w1" {
		t.Fatalf("lookup: %+v %v", found, err)
	}
	if _, err := words.Lookup(ctx, "serendipity", entity.LanguageFrench); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound for other language, got %v", err)
	}
	if _, err := words.GetByID(ctx, "missing"); !errors.Is(err, entity.ErrWordNotFound) {
		t.Fatalf("expected ErrWordNotFound, got %v", err)
	}

	dup := &entity.Word{ID: "w2", Text: "serendipity", Language: entity.LanguageEnglish, CreatedAt: base}
	if _, err := words.Create(ctx, dup, entity.NewReview("w2", base)); !errors.Is(err, entity.ErrDuplicateWord) {
		t.Fatalf("expected ErrDuplicateWord, got %v", err)
	}
	if _, err := NewReviewRepository(db).Get(ctx, "w2"); !errors.Is(err, entity.ErrReviewNotFound) {
		t.Fatalf("failed create must not leave a review behind, got %v", err)
	}
}

func TestReviewRepositoryModify(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	words := NewWordRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()
	createWord(t, words, "w1", "ephemeral", entity.LanguageEnglish, nil)

	reviewed := base.Add(time.Minute)
	updated, err := reviews.Modify(ctx, "w1", func(r *entity.Review) error {
		r.Streak = 1
		r.Interval = 1
		r.EaseFactor = 2.6
		r.NextReviewAt = base.AddDate(0, 0, 1)
		r.LastReviewedAt = &reviewed
		r.History = append(r.History, entity.HistoryEntry{Date: reviewed, Grade: entity.GradeEasy, Interval: 1, Ease: 2.6})
		return nil
	})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if updated.Streak != 1 {
		t.Fatalf("unexpected modify result %+v", updated)
	}

	stored, err := reviews.Get(ctx, "w1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Interval != 1 || stored.EaseFactor != 2.6 || !stored.NextReviewAt.Equal(base.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected stored review %+v", stored)
	}
	if stored.LastReviewedAt == nil || !stored.LastReviewedAt.Equal(reviewed) {
		t.Fatalf("expected last reviewed at %v, got %v", reviewed, stored.LastReviewedAt)
	}
	if len(stored.History) != 1 || stored.History[0].Grade != entity.GradeEasy {
		t.Fatalf("unexpected history %+v", stored.History)
	}

	abort := errors.New("abort")
	if _, err := reviews.Modify(ctx, "w1", func(r *entity.Review) error {
		r.Streak = 99
		return abort
	}); !errors.Is(err, abort) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if again, _ := reviews.Get(ctx, "w1"); again.Streak != 1 {
		t.Fatalf("aborted modify must not persist, got streak %d", again.Streak)
	}

	if _, err := reviews.Modify(ctx, "missing", func(*entity.Review) error { return nil }); !errors.Is(err, entity.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewRepositoryUpsert(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	words := NewWordRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()
	createWord(t, words, "w1", "ephemeral", entity.LanguageEnglish, nil)

	fresh := entity.NewReview("w1", base)
	fresh.Streak = 3
	if err := reviews.Upsert(ctx, fresh); err != nil {
		t.Fatalf("upsert existing: %v", err)
	}
	got, err := reviews.Get(ctx, "w1")
	if err != nil || got.Streak != 3 || got.LastReviewedAt != nil {
		t.Fatalf("expected replaced review, got %+v %v", got, err)
	}
}

func TestReviewRepositoryListDue(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	words := NewWordRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	mk := func(id string, streak int, ease float64, interval int, next time.Time) *entity.Review {
		r := entity.NewReview(id, next)
		r.Streak, r.EaseFactor, r.Interval = streak, ease, interval
		return r
	}
	past := base.Add(-time.Hour)
	createWord(t, words, "a", "alpha", entity.LanguageEnglish, mk("a", 2, 2.5, 6, past))
	createWord(t, words, "b", "beta", entity.LanguageEnglish, mk("b", 0, 2.5, 3, past))
	createWord(t, words, "c", "gamma", entity.LanguageEnglish, mk("c", 0, 1.8, 0, past))
	createWord(t, words, "d", "delta", entity.LanguageEnglish, mk("d", 0, 2.5, 1, past))
	createWord(t, words, "e", "epsilon", entity.LanguageEnglish, mk("e", 0, 1.3, 0, base.Add(time.Hour)))
	createWord(t, words, "f", "bonjour", entity.LanguageFrench, mk("f", 0, 1.3, 0, past))

	due, err := reviews.ListDue(ctx, repository.DueQuery{Before: base, Language: entity.LanguageEnglish, Limit: 10})
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	want := []string{"c", "d", "b", "a"}
	if len(due) != len(want) {
		t.Fatalf("expected %d due, got %d", len(want), len(due))
	}
	for i, id := range want {
		if due[i].Word.ID != id || due[i].Review.WordID != id {
			t.Fatalf("position %d: got %s, want %s", i, due[i].Word.ID, id)
		}
	}
	if due[0].Word.Text != "gamma" || len(due[0].Word.Examples) != 1 {
		t.Fatalf("word not hydrated: %+v", due[0].Word)
	}

	limited, err := reviews.ListDue(ctx, repository.DueQuery{Before: base, Language: entity.LanguageEnglish, Limit: 2})
	if err != nil || len(limited) != 2 {
		t.Fatalf("expected 2 with limit, got %d %v", len(limited), err)
	}
}

func TestReviewRepositoryListDueNarrowing(t *testing.T) {
	db := dbtest.OpenSQLite(t)
	words := NewWordRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	past := base.Add(-time.Hour)
	mk := func(id string, streak int, ease float64) *entity.Review {
		r := entity.NewReview(id, past)
		r.Streak, r.EaseFactor = streak, ease
		return r
	}
	createWord(t, words, "a", "correr", entity.LanguageSpanish, mk("a", 3, 2.5))
	createWord(t, words, "b", "comer", entity.LanguageSpanish, mk("b", 0, 1.5))
	createWord(t, words, "c", "beber", entity.LanguageSpanish, mk("c", 0, 2.5))

	ids := func(q repository.DueQuery) []string {
		t.Helper()
		q.Before, q.Language = base, entity.LanguageSpanish
		due, err := reviews.ListDue(ctx, q)
		if err != nil {
			t.Fatalf("list due: %v", err)
		}
		out := make([]string, 0, len(due))
		for _, d := range due {
			out = append(out, d.Word.ID)
		}
		return out
	}

	maxStreak, maxEase := 0, 2.0
	cases := []struct {
		name  string
		query repository.DueQuery
		want  []string
	}{
		{"prefix", repository.DueQuery{WordPrefix: "co"}, []string{"b", "a"}},
		{"words", repository.DueQuery{Words: []string{"beber", "correr"}}, []string{"c", "a"}},
		{"max streak", repository.DueQuery{MaxStreak: &maxStreak}, []string{"b", "c"}},
		{"max ease", repository.DueQuery{MaxEase: &maxEase}, []string{"b"}},
	}
	for _, c := range cases {
		if got := ids(c.query); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}
