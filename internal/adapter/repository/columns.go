package repository

import (
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/migrate"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/types"
)

var (
	wordsTable   = migrate.WordsTable.Name
	reviewsTable = migrate.ReviewsTable.Name
)

type rowScanner interface {
	Scan(dest ...any) error
}

func columnNames(t *entsql.SelectTable, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if t == nil {
			out[i] = c
			continue
		}
		out[i] = t.C(c)
	}
	return out
}

var (
	wordColumns   = []string{"id", "word", "language", "translation", "examples", "created_at"}
	reviewColumns = []string{"word_id", "interval", "ease_factor", "streak", "next_review_at", "last_reviewed_at", "history"}
)

type wordRow struct {
	word     entity.Word
	language string
	examples types.Examples
}

func (r *wordRow) dest() []any {
	return []any{&r.word.ID, &r.word.Text, &r.language, &r.word.Translation, &r.examples, &r.word.CreatedAt}
}

func (r *wordRow) entity() *entity.Word {
	w := r.word
	w.Language = entity.Language(r.language)
	w.Examples = []entity.Example(r.examples)
	if w.Examples == nil {
		w.Examples = []entity.Example{}
	}
	w.CreatedAt = w.CreatedAt.UTC()
	return &w
}

type reviewRow struct {
	review  entity.Review
	last    sql.NullTime
	history types.History
}

func (r *reviewRow) dest() []any {
	return []any{&r.review.WordID, &r.review.Interval, &r.review.EaseFactor, &r.review.Streak, &r.review.NextReviewAt, &r.last, &r.history}
}

func (r *reviewRow) entity() *entity.Review {
	rv := r.review
	rv.NextReviewAt = rv.NextReviewAt.UTC()
	if r.last.Valid {
		last := r.last.Time.UTC()
		rv.LastReviewedAt = &last
	}
	rv.History = []entity.HistoryEntry(r.history)
	if rv.History == nil {
		rv.History = []entity.HistoryEntry{}
	}
	return &rv
}

func reviewValues(r *entity.Review) []any {
	var last any
	if r.LastReviewedAt != nil {
		last = r.LastReviewedAt.UTC()
	}
	return []any{r.WordID, r.Interval, r.EaseFactor, r.Streak, r.NextReviewAt.UTC(), last, types.History(r.History)}
}

func wordValues(w *entity.Word) []any {
	return []any{w.ID, w.Text, string(w.Language), w.Translation, types.Examples(w.Examples), w.CreatedAt.UTC()}
}

func scanWord(s rowScanner) (*entity.Word, error) {
	var row wordRow
	if err := s.Scan(row.dest()...); err != nil {
		return nil, err
	}
	return row.entity(), nil
}

func scanReview(s rowScanner) (*entity.Review, error) {
	var row reviewRow
	if err := s.Scan(row.dest()...); err != nil {
		return nil, err
	}
	return row.entity(), nil
}
