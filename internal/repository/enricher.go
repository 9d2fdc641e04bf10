package repository

import (
	"context"

	"github.com/jyokotori/neko-words/internal/entity"
)

// WordEnricher produces the base form, translation and examples of a word.
type WordEnricher interface {
	Enrich(ctx context.Context, text string, language entity.Language) (*entity.Enrichment, error)
}
