package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/samber/lo"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/repository"
)

type reviewRepository struct{ db *database.DB }

func NewReviewRepository(db *database.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Get(ctx context.Context, wordID string) (*entity.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, args := r.selectReview(wordID, false)
	review, err := scanReview(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, review *entity.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q, args := entsql.Dialect(r.db.Dialect).
		Insert(reviewsTable).
		Columns(reviewColumns...).
		Values(reviewValues(review)...).
		OnConflict(entsql.ConflictColumns("word_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Modify(ctx context.Context, wordID string, fn func(*entity.Review) error) (*entity.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated *entity.Review
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		q, args := r.selectReview(wordID, true)
		review, err := scanReview(tx.QueryRowContext(ctx, q, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return entity.ErrReviewNotFound
			}
			return fmt.Errorf("load review: %w", err)
		}
		if err := fn(review); err != nil {
			return err
		}
		values := reviewValues(review)
		upd := entsql.Dialect(r.db.Dialect).Update(reviewsTable)
		for i, col := range reviewColumns[1:] {
			upd.Set(col, values[i+1])
		}
		q, args = upd.Where(entsql.EQ("word_id", wordID)).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *reviewRepository) ListDue(ctx context.Context, query repository.DueQuery) ([]entity.DueReview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := entsql.Dialect(r.db.Dialect)
	w := b.Table(wordsTable).As("w")
	rv := b.Table(reviewsTable).As("r")
	preds := []*entsql.Predicate{
		entsql.EQ(w.C("language"), string(query.Language)),
		entsql.LTE(rv.C("next_review_at"), query.Before.UTC()),
	}
	if query.WordPrefix != "" {
		preds = append(preds, entsql.HasPrefix(w.C("word"), query.WordPrefix))
	}
	if len(query.Words) > 0 {
		preds = append(preds, entsql.In(w.C("word"), lo.ToAnySlice(query.Words)...))
	}
	if query.MaxStreak != nil {
		preds = append(preds, entsql.LTE(rv.C("streak"), *query.MaxStreak))
	}
	if query.MaxEase != nil {
		preds = append(preds, entsql.LTE(rv.C("ease_factor"), *query.MaxEase))
	}
	sel := b.Select(append(columnNames(w, wordColumns), columnNames(rv, reviewColumns)...)...).
		From(rv).
		Join(w).On(rv.C("word_id"), w.C("id")).
		Where(entsql.And(preds...)).
		OrderBy(rv.C("streak"), rv.C("ease_factor"), rv.C("interval"), w.C("created_at"))
	if query.Limit > 0 {
		sel.Limit(query.Limit)
	}
	q, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list due reviews: %w", err)
	}
	defer rows.Close()

	var out []entity.DueReview
	for rows.Next() {
		var (
			wr wordRow
			rr reviewRow
		)
		if err := rows.Scan(append(wr.dest(), rr.dest()...)...); err != nil {
			return nil, fmt.Errorf("scan due review: %w", err)
		}
		out = append(out, entity.DueReview{Word: *wr.entity(), Review: *rr.entity()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due reviews: %w", err)
	}
	return out, nil
}

func (r *reviewRepository) selectReview(wordID string, lock bool) (string, []any) {
	b := entsql.Dialect(r.db.Dialect)
	sel := b.Select(reviewColumns...).From(b.Table(reviewsTable)).Where(entsql.EQ("word_id", wordID))
	if lock && r.db.Dialect == dialect.Postgres {
		sel.ForUpdate()
	}
	return sel.Query()
}
