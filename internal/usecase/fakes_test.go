package usecase

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
)

type fakeStore struct {
	mu      sync.RWMutex
	words   map[string]*entity.Word
	reviews map[string]*entity.Review
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		words:   make(map[string]*entity.Word),
		reviews: make(map[string]*entity.Review),
	}
}

func cloneWord(w *entity.Word) *entity.Word {
	out := *w
	out.Examples = append([]entity.Example(nil), w.Examples...)
	return &out
}

func (s *fakeStore) Create(ctx context.Context, word *entity.Word, review *entity.Review) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.words {
		if w.Text == word.Text && w.Language == word.Language {
			return nil, entity.ErrDuplicateWord
		}
	}
	s.words[word.ID] = cloneWord(word)
	if review != nil {
		s.reviews[word.ID] = review.Clone()
	}
	return cloneWord(word), nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*entity.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.words[id]
	if !ok {
		return nil, entity.ErrWordNotFound
	}
	return cloneWord(w), nil
}

func (s *fakeStore) Lookup(ctx context.Context, text string, language entity.Language) (*entity.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.words {
		if w.Text == text && w.Language == language {
			return cloneWord(w), nil
		}
	}
	return nil, entity.ErrWordNotFound
}

func (s *fakeStore) Get(ctx context.Context, wordID string) (*entity.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[wordID]
	if !ok {
		return nil, entity.ErrReviewNotFound
	}
	return r.Clone(), nil
}

func (s *fakeStore) Upsert(ctx context.Context, review *entity.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[review.WordID] = review.Clone()
	return nil
}

func (s *fakeStore) Modify(ctx context.Context, wordID string, fn func(*entity.Review) error) (*entity.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[wordID]
	if !ok {
		return nil, entity.ErrReviewNotFound
	}
	next := r.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.reviews[wordID] = next
	return next.Clone(), nil
}

func (s *fakeStore) ListDue(ctx context.Context, q repository.DueQuery) ([]entity.DueReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.DueReview
	for id, r := range s.reviews {
		w := s.words[id]
		if w == nil || w.Language != q.Language || r.NextReviewAt.After(q.Before) {
			continue
		}
		if !strings.HasPrefix(w.Text, q.WordPrefix) || (len(q.Words) > 0 && !slices.Contains(q.Words, w.Text)) {
			continue
		}
		if (q.MaxStreak != nil && r.Streak > *q.MaxStreak) || (q.MaxEase != nil && r.EaseFactor > *q.MaxEase) {
			continue
		}
		out = append(out, entity.DueReview{Word: *cloneWord(w), Review: *r.Clone()})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Review, out[j].Review
		if a.Streak != b.Streak {
			return a.Streak < b.Streak
		}
		if a.EaseFactor != b.EaseFactor {
			return a.EaseFactor < b.EaseFactor
		}
		return a.Interval < b.Interval
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

type stubEnricher struct {
	mu    sync.Mutex
	base  map[string]string
	err   error
	calls int
}

func (e *stubEnricher) Enrich(ctx context.Context, text string, language entity.Language) (*entity.Enrichment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	word := text
	if b, ok := e.base[text]; ok {
		word = b
	}
	return &entity.Enrichment{
		Word:        word,
		Translation: "[/" + word + "/] translation",
		Examples:    []entity.Example{{Sentence: "One " + word + ".", Translation: "ex"}},
	}, nil
}
