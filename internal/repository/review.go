package repository

import (
	"context"

	"github.com/jyokotori/neko-words/internal/entity"
)

// ReviewRepository defines data access for spaced repetition state.
type ReviewRepository interface {
	Get(ctx context.Context, wordID string) (*entity.Review, error)
	// Upsert stores review, replacing any existing row for the same word.
	Upsert(ctx context.Context, review *entity.Review) error
	// Modify loads the review for wordID, applies fn and stores the result
	// atomically. fn errors abort the update and are returned unchanged.
	Modify(ctx context.Context, wordID string, fn func(*entity.Review) error) (*entity.Review, error)
	ListDue(ctx context.Context, query DueQuery) ([]entity.DueReview, error)
}
