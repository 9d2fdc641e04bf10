package repository

import (
	"context"

	"github.com/jyokotori/neko-words/internal/entity"
)

// ReviewQueueLoader returns the ordered due queue, at most limit entries.
type ReviewQueueLoader interface {
	FetchDue(ctx context.Context, limit int) ([]entity.DueReview, error)
}

// GradeSubmitter records a grade for a card on the scheduling service.
type GradeSubmitter interface {
	Submit(ctx context.Context, cardID string, grade entity.Grade) error
}

// UndoRequester reverts the last grading of a card on the scheduling service.
type UndoRequester interface {
	Undo(ctx context.Context, cardID string) error
}

// WordCreator adds a word through the word creation pipeline.
// Existing words yield entity.ErrDuplicateWord.
type WordCreator interface {
	Add(ctx context.Context, text string, language entity.Language) (*entity.Word, error)
}
