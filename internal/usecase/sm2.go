package usecase

import (
	"time"

	"github.com/jyokotori/neko-words/internal/entity"
)

const lapseDelay = time.Minute

// quality maps a grade onto the SM-2 0-5 recall scale.
func quality(g entity.Grade) int {
	switch g {
	case entity.GradeAgain:
		return 0
	case entity.GradeHard:
		return 2
	case entity.GradeGood:
		return 4
	case entity.GradeEasy:
		return 5
	default:
		return 3
	}
}

// applyGrade advances r by one SM-2 step and appends the history entry.
func applyGrade(r *entity.Review, g entity.Grade, now time.Time) {
	q := quality(g)
	reviewed := now
	r.LastReviewedAt = &reviewed

	if q < 3 {
		r.Streak = 0
		r.Interval = 1
		r.NextReviewAt = now.Add(lapseDelay)
	} else {
		switch r.Streak {
		case 0:
			r.Interval = 1
		case 1:
			r.Interval = 6
		default:
			r.Interval = int(float64(r.Interval) * r.EaseFactor)
		}
		r.Streak++
		miss := float64(5 - q)
		r.EaseFactor += 0.1 - miss*(0.08+miss*0.02)
		if r.EaseFactor < entity.MinEaseFactor {
			r.EaseFactor = entity.MinEaseFactor
		}
		r.NextReviewAt = now.AddDate(0, 0, r.Interval)
	}

	r.History = append(r.History, entity.HistoryEntry{
		Date:     now,
		Grade:    g,
		Interval: r.Interval,
		Ease:     r.EaseFactor,
	})
}

// revertGrade drops the last history entry and rebuilds r from what remains.
// The card becomes due immediately.
func revertGrade(r *entity.Review, now time.Time) (entity.Grade, error) {
	if len(r.History) == 0 {
		return "", entity.ErrNoReviewHistory
	}
	popped := r.History[len(r.History)-1]
	r.History = r.History[:len(r.History)-1]

	if len(r.History) == 0 {
		r.Interval = 0
		r.EaseFactor = entity.DefaultEaseFactor
		r.Streak = 0
		r.LastReviewedAt = nil
	} else {
		prev := r.History[len(r.History)-1]
		r.Interval = prev.Interval
		r.EaseFactor = prev.Ease
		last := prev.Date
		r.LastReviewedAt = &last
		r.Streak = 0
		for _, h := range r.History {
			if !h.Grade.IsLapse() {
				r.Streak++
			}
		}
	}
	r.NextReviewAt = now
	return popped.Grade, nil
}

// resetForRelearn marks an existing word as forgotten.
func resetForRelearn(r *entity.Review, now time.Time) {
	r.Streak = 0
	r.Interval = 0
	r.NextReviewAt = now
	r.EaseFactor -= 0.2
	if r.EaseFactor < entity.MinEaseFactor {
		r.EaseFactor = entity.MinEaseFactor
	}
}
