package repository

import (
	"time"

	"github.com/jyokotori/neko-words/internal/entity"
)

// DueQuery selects reviews whose next_review_at is not after Before.
// The optional fields narrow the selection further.
type DueQuery struct {
	Before   time.Time
	Language entity.Language
	Limit    int

	WordPrefix string
	Words      []string
	MaxStreak  *int
	MaxEase    *float64
}
