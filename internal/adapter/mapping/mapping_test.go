package mapping

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jyokotori/neko-words/internal/entity"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{entity.ErrInvalidGrade, http.StatusBadRequest},
		{fmt.Errorf("undo: %w", entity.ErrNoReviewHistory), http.StatusBadRequest},
		{entity.ErrReviewNotFound, http.StatusNotFound},
		{fmt.Errorf("%q: %w", "run", entity.ErrDuplicateWord), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := ToHTTPStatus(c.err); got != c.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestDueReviewMappingKeepsHistory(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []entity.DueReview{{
		Word: entity.Word{ID: "1", Text: "run", Language: entity.LanguageEnglish, Examples: []entity.Example{{Sentence: "Run!"}}},
		Review: entity.Review{
			WordID: "1", EaseFactor: 2.5, NextReviewAt: at,
			History: []entity.HistoryEntry{{Date: at, Grade: entity.GradeHard, Interval: 1, Ease: 2.5}},
		},
	}}
	out := FromDueReviews(ToDueReviews(in))
	if len(out) != 1 || out[0].Word.Text != "run" || out[0].Word.Examples[0].Sentence != "Run!" {
		t.Fatalf("unexpected word mapping %+v", out)
	}
	if out[0].Review.History[0].Grade != entity.GradeHard || out[0].Word.Card().ID != "1" {
		t.Fatalf("unexpected review mapping %+v", out[0].Review)
	}
}
