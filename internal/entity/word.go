package entity

import (
	"strings"
	"time"
)

// Word is a vocabulary entry as stored by the scheduling service.
type Word struct {
	ID          string    `json:"id"`
	Text        string    `json:"word"`
	Language    Language  `json:"language"`
	Translation string    `json:"translation"`
	Examples    []Example `json:"examples"`
	CreatedAt   time.Time `json:"created_at"`
}

// Example pairs a usage sentence with its translation.
type Example struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

// Card is the immutable review view of a word.
type Card struct {
	ID          string
	Headword    string
	Translation string
	Examples    []Example
}

// Card returns the review card for w. The examples slice is copied so later
// edits to w never leak into a running session.
func (w Word) Card() Card {
	return Card{
		ID:          w.ID,
		Headword:    w.Text,
		Translation: w.Translation,
		Examples:    append([]Example(nil), w.Examples...),
	}
}

// FirstSentence returns the first example sentence, or "" when there is none.
func (c Card) FirstSentence() string {
	if len(c.Examples) == 0 {
		return ""
	}
	return c.Examples[0].Sentence
}

// Normalize trims text fields and applies defaults before persistence.
func (w *Word) Normalize(now time.Time) {
	w.Text = NormalizeWordToken(w.Text)
	w.Language = NormalizeLanguage(w.Language)
	w.Translation = strings.TrimSpace(w.Translation)
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	examples := make([]Example, 0, len(w.Examples))
	for _, ex := range w.Examples {
		sentence := strings.TrimSpace(ex.Sentence)
		if sentence == "" {
			continue
		}
		examples = append(examples, Example{Sentence: sentence, Translation: strings.TrimSpace(ex.Translation)})
	}
	w.Examples = examples
}

// Enrichment is the generated content for a newly added word.
type Enrichment struct {
	Word        string    `json:"word"`
	Translation string    `json:"translation"`
	Examples    []Example `json:"examples"`
}
