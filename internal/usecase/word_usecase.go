package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
)

// WordUsecase defines business logic for adding words.
type WordUsecase interface {
	// Add enriches and stores a word. When the base form already exists its
	// review is reset and the existing word is returned with ErrDuplicateWord.
	Add(ctx context.Context, text string, language entity.Language) (*entity.Word, error)
	Get(ctx context.Context, id string) (*entity.Word, error)
}

type wordUsecase struct {
	words    repository.WordRepository
	reviews  repository.ReviewRepository
	enricher repository.WordEnricher
	logger   logrus.FieldLogger
	clock    func() time.Time
	newID    func() string
}

func NewWordUsecase(words repository.WordRepository, reviews repository.ReviewRepository, enricher repository.WordEnricher, logger logrus.FieldLogger) WordUsecase {
	return &wordUsecase{
		words:    words,
		reviews:  reviews,
		enricher: enricher,
		logger:   logger,
		clock:    time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

func (u *wordUsecase) Add(ctx context.Context, text string, language entity.Language) (*entity.Word, error) {
	text = entity.NormalizeWordToken(text)
	if text == "" {
		return nil, entity.ErrInvalidWordText
	}
	language = entity.NormalizeLanguage(language)
	u.logger.WithField("word", text).Info("add word")

	data, err := u.enricher.Enrich(ctx, text, language)
	if err != nil {
		return nil, fmt.Errorf("enrich %q: %w", text, err)
	}
	base := entity.NormalizeWordToken(data.Word)
	if base == "" {
		base = text
	}

	now := u.clock().UTC()
	existing, err := u.words.Lookup(ctx, base, language)
	switch {
	case err == nil:
		return u.relearn(ctx, existing, now)
	case !errors.Is(err, entity.ErrWordNotFound):
		return nil, err
	}

	word := &entity.Word{
		ID:          u.newID(),
		Text:        base,
		Language:    language,
		Translation: data.Translation,
		Examples:    data.Examples,
	}
	word.Normalize(now)
	created, err := u.words.Create(ctx, word, entity.NewReview(word.ID, now))
	if errors.Is(err, entity.ErrDuplicateWord) {
		// Lost a race with a concurrent add of the same word.
		existing, lookupErr := u.words.Lookup(ctx, base, language)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return u.relearn(ctx, existing, now)
	}
	return created, err
}

func (u *wordUsecase) relearn(ctx context.Context, word *entity.Word, now time.Time) (*entity.Word, error) {
	u.logger.WithField("word", word.Text).Info("word already exists, resetting review")
	_, err := u.reviews.Modify(ctx, word.ID, func(r *entity.Review) error {
		resetForRelearn(r, now)
		return nil
	})
	if errors.Is(err, entity.ErrReviewNotFound) {
		err = u.reviews.Upsert(ctx, entity.NewReview(word.ID, now))
	}
	if err != nil {
		return nil, err
	}
	return word, fmt.Errorf("%q: %w", word.Text, entity.ErrDuplicateWord)
}

func (u *wordUsecase) Get(ctx context.Context, id string) (*entity.Word, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrInvalidWordID
	}
	return u.words.GetByID(ctx, id)
}
