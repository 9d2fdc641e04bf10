package mapping

import (
	"time"

	"github.com/samber/lo"

	"github.com/jyokotori/neko-words/internal/entity"
)

// Word is the REST representation of a word.
type Word struct {
	ID          string    `json:"id"`
	Word        string    `json:"word"`
	Language    string    `json:"language"`
	Translation string    `json:"translation"`
	Examples    []Example `json:"examples"`
	CreatedAt   time.Time `json:"created_at"`
}

type Example struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

// Review is the REST representation of a word's scheduling state.
type Review struct {
	WordID         string         `json:"word_id"`
	Interval       int            `json:"interval"`
	EaseFactor     float64        `json:"ease_factor"`
	Streak         int            `json:"streak"`
	NextReviewAt   time.Time      `json:"next_review_at"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at"`
	History        []HistoryEntry `json:"history"`
}

type HistoryEntry struct {
	Date     time.Time `json:"date"`
	Grade    string    `json:"grade"`
	Interval int       `json:"interval"`
	Ease     float64   `json:"ease"`
}

// DueReview is one element of GET /reviews/due.
type DueReview struct {
	Word   Word   `json:"word"`
	Review Review `json:"review"`
}

// AddWordRequest is the body of POST /words/.
type AddWordRequest struct {
	Word     string `json:"word"`
	Language string `json:"language"`
}

// LogRequest is the body of POST /reviews/{id}/log.
type LogRequest struct {
	Grade string `json:"grade"`
}

type LogResponse struct {
	Status     string    `json:"status"`
	NextReview time.Time `json:"next_review"`
}

type UndoResponse struct {
	Status      string `json:"status"`
	UndoneGrade string `json:"undone_grade"`
}

func ToWord(w *entity.Word) Word {
	return Word{
		ID:          w.ID,
		Word:        w.Text,
		Language:    string(w.Language),
		Translation: w.Translation,
		Examples: lo.Map(w.Examples, func(ex entity.Example, _ int) Example {
			return Example(ex)
		}),
		CreatedAt: w.CreatedAt,
	}
}

func FromWord(w Word) *entity.Word {
	return &entity.Word{
		ID:          w.ID,
		Text:        w.Word,
		Language:    entity.ParseLanguage(w.Language),
		Translation: w.Translation,
		Examples: lo.Map(w.Examples, func(ex Example, _ int) entity.Example {
			return entity.Example(ex)
		}),
		CreatedAt: w.CreatedAt,
	}
}

func ToReview(r *entity.Review) Review {
	return Review{
		WordID:         r.WordID,
		Interval:       r.Interval,
		EaseFactor:     r.EaseFactor,
		Streak:         r.Streak,
		NextReviewAt:   r.NextReviewAt,
		LastReviewedAt: r.LastReviewedAt,
		History: lo.Map(r.History, func(h entity.HistoryEntry, _ int) HistoryEntry {
			return HistoryEntry{Date: h.Date, Grade: string(h.Grade), Interval: h.Interval, Ease: h.Ease}
		}),
	}
}

func FromReview(r Review) entity.Review {
	return entity.Review{
		WordID:         r.WordID,
		Interval:       r.Interval,
		EaseFactor:     r.EaseFactor,
		Streak:         r.Streak,
		NextReviewAt:   r.NextReviewAt,
		LastReviewedAt: r.LastReviewedAt,
		History: lo.Map(r.History, func(h HistoryEntry, _ int) entity.HistoryEntry {
			return entity.HistoryEntry{Date: h.Date, Grade: entity.Grade(h.Grade), Interval: h.Interval, Ease: h.Ease}
		}),
	}
}

func ToDueReviews(items []entity.DueReview) []DueReview {
	return lo.Map(items, func(item entity.DueReview, _ int) DueReview {
		return DueReview{Word: ToWord(&item.Word), Review: ToReview(&item.Review)}
	})
}

func FromDueReviews(items []DueReview) []entity.DueReview {
	return lo.Map(items, func(item DueReview, _ int) entity.DueReview {
		return entity.DueReview{Word: *FromWord(item.Word), Review: FromReview(item.Review)}
	})
}
