package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/repository"
)

type wordRepository struct{ db *database.DB }

func NewWordRepository(db *database.DB) repository.WordRepository { return &wordRepository{db: db} }

func (r *wordRepository) Create(ctx context.Context, word *entity.Word, review *entity.Review) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := entsql.Dialect(r.db.Dialect)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		q, args := b.Insert(wordsTable).Columns(wordColumns...).Values(wordValues(word)...).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return translateWordError(err)
		}
		if review == nil {
			return nil
		}
		q, args = b.Insert(reviewsTable).Columns(reviewColumns...).Values(reviewValues(review)...).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, word.ID)
}

func (r *wordRepository) GetByID(ctx context.Context, id string) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := entsql.Dialect(r.db.Dialect)
	q, args := b.Select(wordColumns...).From(b.Table(wordsTable)).Where(entsql.EQ("id", id)).Query()
	word, err := scanWord(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrWordNotFound
		}
		return nil, fmt.Errorf("get word: %w", err)
	}
	return word, nil
}

func (r *wordRepository) Lookup(ctx context.Context, text string, language entity.Language) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := entsql.Dialect(r.db.Dialect)
	q, args := b.Select(wordColumns...).
		From(b.Table(wordsTable)).
		Where(entsql.And(
			entsql.EQ("word", entity.NormalizeWordToken(text)),
			entsql.EQ("language", string(entity.NormalizeLanguage(language))),
		)).
		Query()
	word, err := scanWord(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrWordNotFound
		}
		return nil, fmt.Errorf("lookup word: %w", err)
	}
	return word, nil
}

func withTx(ctx context.Context, db *database.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
