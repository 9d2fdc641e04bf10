package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/adapter/mapping"
	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
)

var testNow = time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)

type fakeReviews struct {
	due     []entity.DueReview
	last    repository.DueQuery
	logged  map[string]entity.Grade
	undoErr error
}

func (f *fakeReviews) Due(_ context.Context, query repository.DueQuery) ([]entity.DueReview, error) {
	f.last = query
	return f.due, nil
}

func (f *fakeReviews) Log(_ context.Context, wordID string, grade entity.Grade) (*entity.Review, error) {
	if wordID != "w1" {
		return nil, entity.ErrReviewNotFound
	}
	if f.logged == nil {
		f.logged = map[string]entity.Grade{}
	}
	f.logged[wordID] = grade
	return &entity.Review{WordID: wordID, NextReviewAt: testNow.AddDate(0, 0, 1)}, nil
}

func (f *fakeReviews) Undo(_ context.Context, wordID string) (*entity.Review, entity.Grade, error) {
	if f.undoErr != nil {
		return nil, "", f.undoErr
	}
	return &entity.Review{WordID: wordID}, entity.GradeGood, nil
}

type fakeWords struct {
	existing map[string]bool
	failWith error
}

func (f *fakeWords) Add(_ context.Context, text string, language entity.Language) (*entity.Word, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	w := &entity.Word{ID: "new-" + text, Text: text, Language: entity.NormalizeLanguage(language), CreatedAt: testNow}
	if f.existing[text] {
		return w, fmt.Errorf("%q: %w", text, entity.ErrDuplicateWord)
	}
	return w, nil
}

func (f *fakeWords) Get(_ context.Context, id string) (*entity.Word, error) {
	if id != "w1" {
		return nil, entity.ErrWordNotFound
	}
	return &entity.Word{ID: id, Text: "run", Language: entity.LanguageEnglish}, nil
}

func newTestServer(t *testing.T, reviews *fakeReviews, words *fakeWords) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := httptest.NewServer(NewHandler(reviews, words, logger).Routes("/api/v1"))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func detail(t *testing.T, data []byte) string {
	t.Helper()
	var e mapping.ErrorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode error body %s: %v", data, err)
	}
	return e.Detail
}

func TestDueReviews(t *testing.T) {
	reviews := &fakeReviews{due: []entity.DueReview{{
		Word:   entity.Word{ID: "w1", Text: "run", Language: entity.LanguageEnglish},
		Review: entity.Review{WordID: "w1", EaseFactor: 2.5, NextReviewAt: testNow},
	}}}
	srv := newTestServer(t, reviews, &fakeWords{})

	resp, data := do(t, http.MethodGet, srv.URL+"/api/v1/reviews/due?limit=5&language=ZH", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var out []mapping.DueReview
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Word.Word != "run" || out[0].Review.WordID != "w1" {
		t.Fatalf("unexpected payload %+v", out)
	}
	if reviews.last.Limit != 5 || reviews.last.Language != entity.LanguageChinese {
		t.Fatalf("query not forwarded: %+v", reviews.last)
	}
}

func TestDueReviewsFilter(t *testing.T) {
	reviews := &fakeReviews{}
	srv := newTestServer(t, reviews, &fakeWords{})

	filter := url.QueryEscape("word.startsWith('re') && streak <= 2 && ease <= 2.0")
	resp, data := do(t, http.MethodGet, srv.URL+"/api/v1/reviews/due?filter="+filter, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	q := reviews.last
	if q.WordPrefix != "re" || q.MaxStreak == nil || *q.MaxStreak != 2 || q.MaxEase == nil || *q.MaxEase != 2.0 {
		t.Fatalf("filter not bound: %+v", q)
	}

	resp, data = do(t, http.MethodGet, srv.URL+"/api/v1/reviews/due?filter="+url.QueryEscape("streak >= 2"), "")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(detail(t, data), "operator") {
		t.Fatalf("bad filter: status %d body %s", resp.StatusCode, data)
	}
}

func TestDueReviewsRejectsBadQuery(t *testing.T) {
	srv := newTestServer(t, &fakeReviews{}, &fakeWords{})
	for _, q := range []string{"limit=abc", "limit=-1", "language=xx"} {
		resp, _ := do(t, http.MethodGet, srv.URL+"/api/v1/reviews/due?"+q, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestLogReview(t *testing.T) {
	reviews := &fakeReviews{}
	srv := newTestServer(t, reviews, &fakeWords{})

	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/reviews/w1/log", `{"grade":"Easy"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var out mapping.LogResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "ok" || !out.NextReview.Equal(testNow.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected payload %+v", out)
	}
	if reviews.logged["w1"] != entity.GradeEasy {
		t.Fatalf("grade not forwarded: %v", reviews.logged)
	}
}

func TestLogReviewErrors(t *testing.T) {
	srv := newTestServer(t, &fakeReviews{}, &fakeWords{})
	cases := []struct {
		path, body string
		want       int
	}{
		{"/api/v1/reviews/w1/log", `{"grade":"perfect"}`, http.StatusBadRequest},
		{"/api/v1/reviews/w1/log", `not json`, http.StatusBadRequest},
		{"/api/v1/reviews/missing/log", `{"grade":"good"}`, http.StatusNotFound},
	}
	for _, c := range cases {
		resp, data := do(t, http.MethodPost, srv.URL+c.path, c.body)
		if resp.StatusCode != c.want {
			t.Fatalf("%s %s: status = %d, want %d", c.path, c.body, resp.StatusCode, c.want)
		}
		if detail(t, data) == "" {
			t.Fatalf("%s: missing detail", c.path)
		}
	}
}

func TestUndoReview(t *testing.T) {
	reviews := &fakeReviews{}
	srv := newTestServer(t, reviews, &fakeWords{})

	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/reviews/w1/undo", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var out mapping.UndoResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.UndoneGrade != "good" {
		t.Fatalf("undone grade = %q", out.UndoneGrade)
	}

	reviews.undoErr = entity.ErrNoReviewHistory
	resp, _ = do(t, http.MethodPost, srv.URL+"/api/v1/reviews/w1/undo", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAddWord(t *testing.T) {
	words := &fakeWords{existing: map[string]bool{"walk": true}}
	srv := newTestServer(t, &fakeReviews{}, words)

	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/words/", `{"word":"run","language":"en"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var out mapping.Word
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Word != "run" || out.Language != "en" {
		t.Fatalf("unexpected payload %+v", out)
	}

	resp, data = do(t, http.MethodPost, srv.URL+"/api/v1/words/", `{"word":"walk"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", resp.StatusCode)
	}
	if got := detail(t, data); got != "Word already exists (review reset!)" {
		t.Fatalf("duplicate detail = %q", got)
	}
}

func TestInternalErrorsAreMasked(t *testing.T) {
	srv := newTestServer(t, &fakeReviews{}, &fakeWords{failWith: fmt.Errorf("dial tcp: refused")})
	resp, data := do(t, http.MethodPost, srv.URL+"/api/v1/words/", `{"word":"run"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if got := detail(t, data); strings.Contains(got, "dial") {
		t.Fatalf("internal error leaked: %q", got)
	}
}

func TestGetWordAndWelcome(t *testing.T) {
	srv := newTestServer(t, &fakeReviews{}, &fakeWords{})

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/v1/words/w1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/words/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status = %d", resp.StatusCode)
	}
	resp, data := do(t, http.MethodGet, srv.URL+"/", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "Welcome") {
		t.Fatalf("welcome = %d %s", resp.StatusCode, data)
	}
}
