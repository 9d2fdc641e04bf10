package repository

import (
	"context"

	"github.com/jyokotori/neko-words/internal/entity"
)

// WordRepository defines data access for vocabulary words.
type WordRepository interface {
	// Create inserts the word together with its initial review.
	// A (word, language) collision returns entity.ErrDuplicateWord.
	Create(ctx context.Context, word *entity.Word, review *entity.Review) (*entity.Word, error)
	GetByID(ctx context.Context, id string) (*entity.Word, error)
	Lookup(ctx context.Context, text string, language entity.Language) (*entity.Word, error)
}
