package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
)

const (
	_defaultDueLimit = 50
	_maxDueLimit     = 200
)

// ReviewUsecase schedules reviews with SM-2.
type ReviewUsecase interface {
	// Due lists reviews due now. Before is always set to the current time and
	// Limit is clamped to the service bounds.
	Due(ctx context.Context, query repository.DueQuery) ([]entity.DueReview, error)
	Log(ctx context.Context, wordID string, grade entity.Grade) (*entity.Review, error)
	Undo(ctx context.Context, wordID string) (*entity.Review, entity.Grade, error)
}

// NewReviewUsecase wires the review repository.
func NewReviewUsecase(repo repository.ReviewRepository) ReviewUsecase {
	return &reviewUsecase{
		repo:  repo,
		clock: time.Now,
	}
}

type reviewUsecase struct {
	repo  repository.ReviewRepository
	clock func() time.Time
}

func (u *reviewUsecase) Due(ctx context.Context, query repository.DueQuery) ([]entity.DueReview, error) {
	switch {
	case query.Limit <= 0:
		query.Limit = _defaultDueLimit
	case query.Limit > _maxDueLimit:
		query.Limit = _maxDueLimit
	}
	query.Before = u.clock().UTC()
	query.Language = entity.NormalizeLanguage(query.Language)
	query.WordPrefix = entity.NormalizeWordToken(query.WordPrefix)
	query.Words = lo.Uniq(lo.FilterMap(query.Words, func(w string, _ int) (string, bool) {
		w = entity.NormalizeWordToken(w)
		return w, w != ""
	}))
	return u.repo.ListDue(ctx, query)
}

func (u *reviewUsecase) Log(ctx context.Context, wordID string, grade entity.Grade) (*entity.Review, error) {
	wordID = strings.TrimSpace(wordID)
	if wordID == "" {
		return nil, entity.ErrInvalidWordID
	}
	if !grade.IsValid() {
		return nil, entity.ErrInvalidGrade
	}
	now := u.clock().UTC()
	return u.repo.Modify(ctx, wordID, func(r *entity.Review) error {
		applyGrade(r, grade, now)
		return nil
	})
}

func (u *reviewUsecase) Undo(ctx context.Context, wordID string) (*entity.Review, entity.Grade, error) {
	wordID = strings.TrimSpace(wordID)
	if wordID == "" {
		return nil, "", entity.ErrInvalidWordID
	}
	now := u.clock().UTC()
	var undone entity.Grade
	review, err := u.repo.Modify(ctx, wordID, func(r *entity.Review) error {
		g, err := revertGrade(r, now)
		undone = g
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return review, undone, nil
}
