package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
)

const _recentAdditions = 10

// AddResult is the outcome of one word entry submission.
type AddResult struct {
	Word      *entity.Word
	Duplicate bool
	Message   string
}

// WordEntry submits words to the creation service and keeps the most recent
// additions, newest first. Duplicates are reported but never listed.
type WordEntry struct {
	creator  repository.WordCreator
	language entity.Language

	mu     sync.Mutex
	recent []entity.Word
}

func NewWordEntry(creator repository.WordCreator, language entity.Language) *WordEntry {
	return &WordEntry{creator: creator, language: entity.NormalizeLanguage(language)}
}

// Submit adds text. Blank input is rejected with ErrInvalidWordText without
// calling the service.
func (e *WordEntry) Submit(ctx context.Context, text string) (AddResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return AddResult{}, entity.ErrInvalidWordText
	}
	word, err := e.creator.Add(ctx, text, e.language)
	if err != nil {
		failure := newFailure(FailureUnknown, err)
		if FailureKindOf(err) == FailureDuplicateWord {
			failure.Kind = FailureDuplicateWord
			return AddResult{Word: word, Duplicate: true, Message: FailureMessage(failure)}, failure
		}
		return AddResult{}, failure
	}

	e.mu.Lock()
	e.recent = append([]entity.Word{*word}, e.recent...)
	if len(e.recent) > _recentAdditions {
		e.recent = e.recent[:_recentAdditions]
	}
	e.mu.Unlock()
	return AddResult{Word: word, Message: "Added " + word.Text}, nil
}

// Recent returns a copy of the recent additions, newest first.
func (e *WordEntry) Recent() []entity.Word {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]entity.Word(nil), e.recent...)
}
