package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jyokotori/neko-words/internal/entity"
)

type fakeCreator struct {
	existing map[string]bool
	err      error
	calls    int
}

func (c *fakeCreator) Add(ctx context.Context, text string, language entity.Language) (*entity.Word, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if c.existing[text] {
		return nil, fmt.Errorf("remote: %w", entity.ErrDuplicateWord)
	}
	return &entity.Word{ID: "id-" + text, Text: text, Language: language}, nil
}

func TestWordEntryRecentNewestFirst(t *testing.T) {
	entry := NewWordEntry(&fakeCreator{}, entity.LanguageEnglish)
	for _, w := range []string{"one", "two", "three"} {
		if _, err := entry.Submit(context.Background(), w); err != nil {
			t.Fatalf("submit %s: %v", w, err)
		}
	}
	recent := entry.Recent()
	if len(recent) != 3 || recent[0].Text != "three" || recent[2].Text != "one" {
		t.Fatalf("unexpected recent list %+v", recent)
	}
}

func TestWordEntryRecentIsBounded(t *testing.T) {
	entry := NewWordEntry(&fakeCreator{}, entity.LanguageEnglish)
	for i := 0; i < _recentAdditions+3; i++ {
		if _, err := entry.Submit(context.Background(), fmt.Sprintf("w%d", i)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if got := len(entry.Recent()); got != _recentAdditions {
		t.Fatalf("expected %d recent entries, got %d", _recentAdditions, got)
	}
}

func TestWordEntryDuplicate(t *testing.T) {
	entry := NewWordEntry(&fakeCreator{existing: map[string]bool{"run": true}}, entity.LanguageEnglish)
	res, err := entry.Submit(context.Background(), "run")
	if FailureKindOf(err) != FailureDuplicateWord || !errors.Is(err, entity.ErrDuplicateWord) {
		t.Fatalf("expected duplicate failure, got %v", err)
	}
	if !res.Duplicate || res.Message != "Word already exists (review reset!)" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(entry.Recent()) != 0 {
		t.Fatalf("duplicates must not be listed")
	}
}

func TestWordEntryOtherFailures(t *testing.T) {
	creator := &fakeCreator{err: errors.New("timeout")}
	entry := NewWordEntry(creator, entity.LanguageEnglish)
	if _, err := entry.Submit(context.Background(), "  "); !errors.Is(err, entity.ErrInvalidWordText) {
		t.Fatalf("expected ErrInvalidWordText, got %v", err)
	}
	if creator.calls != 0 {
		t.Fatalf("blank input must not reach the service")
	}
	_, err := entry.Submit(context.Background(), "word")
	if FailureKindOf(err) != FailureUnknown {
		t.Fatalf("expected unknown failure, got %v", err)
	}
	if len(entry.Recent()) != 0 {
		t.Fatalf("failed additions must not be listed")
	}
}
