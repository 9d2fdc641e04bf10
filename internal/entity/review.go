package entity

import "time"

const (
	// DefaultEaseFactor is the ease assigned to a freshly added word.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor the ease factor never drops below.
	MinEaseFactor = 1.3
)

// Review holds the spaced repetition state of one word.
type Review struct {
	WordID         string         `json:"word_id"`
	Interval       int            `json:"interval"`
	EaseFactor     float64        `json:"ease_factor"`
	Streak         int            `json:"streak"`
	NextReviewAt   time.Time      `json:"next_review_at"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at"`
	History        []HistoryEntry `json:"history"`
}

// HistoryEntry records the outcome of one grading.
type HistoryEntry struct {
	Date     time.Time `json:"date"`
	Grade    Grade     `json:"grade"`
	Interval int       `json:"interval"`
	Ease     float64   `json:"ease"`
}

// NewReview returns the initial review state for a word, due immediately.
func NewReview(wordID string, now time.Time) *Review {
	return &Review{
		WordID:       wordID,
		EaseFactor:   DefaultEaseFactor,
		NextReviewAt: now,
		History:      []HistoryEntry{},
	}
}

// Clone returns a deep copy of r.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	out := *r
	if r.LastReviewedAt != nil {
		last := *r.LastReviewedAt
		out.LastReviewedAt = &last
	}
	out.History = append([]HistoryEntry(nil), r.History...)
	return &out
}

// DueReview is one element of the due queue: the word and its opaque review metadata.
type DueReview struct {
	Word   Word   `json:"word"`
	Review Review `json:"review"`
}
