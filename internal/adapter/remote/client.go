package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jyokotori/neko-words/internal/adapter/mapping"
	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/repository"
)

var (
	_ repository.ReviewQueueLoader = (*Client)(nil)
	_ repository.GradeSubmitter    = (*Client)(nil)
	_ repository.UndoRequester     = (*Client)(nil)
	_ repository.WordCreator       = (*Client)(nil)
)

// APIError is a non-2xx response from the scheduling service.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
}

// Client talks to the scheduling service over REST.
type Client struct {
	baseURL  string
	language entity.Language
	http     *http.Client
}

func NewClient(cfg config.ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if base == "" {
		return nil, errors.New("client.api_base_url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  base,
		language: entity.NormalizeLanguage(entity.Language(cfg.Language)),
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// FetchDue loads due reviews for the configured language.
func (c *Client) FetchDue(ctx context.Context, limit int) ([]entity.DueReview, error) {
	q := url.Values{}
	q.Set("language", string(c.language))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []mapping.DueReview
	if err := c.do(ctx, http.MethodGet, "/reviews/due?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("fetch due reviews: %w", err)
	}
	return mapping.FromDueReviews(out), nil
}

func (c *Client) Submit(ctx context.Context, cardID string, grade entity.Grade) error {
	var out mapping.LogResponse
	path := "/reviews/" + url.PathEscape(cardID) + "/log"
	if err := c.do(ctx, http.MethodPost, path, mapping.LogRequest{Grade: grade.String()}, &out); err != nil {
		return fmt.Errorf("log review %s: %w", cardID, err)
	}
	return nil
}

func (c *Client) Undo(ctx context.Context, cardID string) error {
	var out mapping.UndoResponse
	if err := c.do(ctx, http.MethodPost, "/reviews/"+url.PathEscape(cardID)+"/undo", nil, &out); err != nil {
		return fmt.Errorf("undo review %s: %w", cardID, err)
	}
	return nil
}

// Add creates a word. A 409, or a 400 whose detail says the word already
// exists, is reported as a duplicate.
func (c *Client) Add(ctx context.Context, text string, language entity.Language) (*entity.Word, error) {
	if language == entity.LanguageUnspecified {
		language = c.language
	}
	var out mapping.Word
	err := c.do(ctx, http.MethodPost, "/words/", mapping.AddWordRequest{Word: text, Language: string(language)}, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.duplicate() {
			return nil, fmt.Errorf("%w: %s", entity.ErrDuplicateWord, apiErr.Detail)
		}
		return nil, fmt.Errorf("add word %q: %w", text, err)
	}
	return mapping.FromWord(out), nil
}

func (e *APIError) duplicate() bool {
	switch e.Status {
	case http.StatusConflict:
		return true
	case http.StatusBadRequest:
		return strings.Contains(strings.ToLower(e.Detail), "already exists")
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e mapping.ErrorResponse
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			if json.Unmarshal(data, &e) == nil {
				apiErr.Detail = e.Detail
			} else {
				apiErr.Detail = strings.TrimSpace(string(data))
			}
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
