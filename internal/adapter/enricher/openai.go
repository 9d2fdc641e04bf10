// Package enricher generates translations and examples with an OpenAI-compatible chat API.
package enricher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/repository"
)

const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// ErrEmptyResponse is returned when the model answers without content.
var ErrEmptyResponse = errors.New("empty response from llm")

// OpenAI calls the chat completions endpoint of OpenAI or Azure OpenAI.
type OpenAI struct {
	endpoint  string
	headers   http.Header
	model     string
	attempts  int
	retryWait time.Duration
	client    *http.Client
	logger    logrus.FieldLogger
}

var _ repository.WordEnricher = (*OpenAI)(nil)

// NewOpenAI builds an enricher from the llm config section.
func NewOpenAI(cfg config.LLMConfig, logger logrus.FieldLogger) (*OpenAI, error) {
	e := &OpenAI{
		headers:   make(http.Header),
		attempts:  cfg.Attempts,
		retryWait: cfg.RetryWait,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
	if e.attempts < 1 {
		e.attempts = 1
	}
	e.headers.Set("Content-Type", "application/json")

	switch strings.ToLower(cfg.Provider) {
	case ProviderAzure:
		if cfg.APIKey == "" || cfg.AzureEndpoint == "" {
			return nil, errors.New("azure openai requires llm.api_key and llm.azure_endpoint")
		}
		endpoint := strings.TrimRight(cfg.AzureEndpoint, "/")
		for _, suffix := range []string{"/openai/v1", "/openai"} {
			if strings.HasSuffix(endpoint, suffix) {
				endpoint = strings.TrimSuffix(endpoint, suffix)
				break
			}
		}
		e.endpoint = fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			endpoint, url.PathEscape(cfg.AzureDeployment), url.QueryEscape(cfg.AzureAPIVersion))
		e.model = cfg.AzureDeployment
		e.headers.Set("api-key", cfg.APIKey)
	case ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, errors.New("openai requires llm.api_key")
		}
		e.endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
		e.model = cfg.Model
		e.headers.Set("Authorization", "Bearer "+cfg.APIKey)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	return e, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Enrich asks the model for the base form, translation and examples of text.
// Failed attempts are retried after a fixed wait.
func (e *OpenAI) Enrich(ctx context.Context, text string, language entity.Language) (*entity.Enrichment, error) {
	log := e.logger.WithFields(logrus.Fields{"word": text, "language": language, "model": e.model})
	log.Info("enriching word")

	var lastErr error
	for attempt := 1; attempt <= e.attempts; attempt++ {
		out, err := e.complete(ctx, text, language)
		if err == nil {
			return out, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("enrich word failed")
		if attempt == e.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.retryWait):
		}
	}
	return nil, fmt.Errorf("enrich word after %d attempts: %w", e.attempts, lastErr)
}

func (e *OpenAI) complete(ctx context.Context, text string, language entity.Language) (*entity.Enrichment, error) {
	body, err := json.Marshal(chatRequest{
		Model:          e.model,
		Messages:       []message{{Role: "user", Content: buildPrompt(text, language)}},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = e.headers.Clone()

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("api status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	content := parsed.Choices[0].Message.Content
	e.logger.WithField("word", text).Debugf("llm raw response: %s", content)

	var out entity.Enrichment
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decode enrichment: %w", err)
	}
	if strings.TrimSpace(out.Word) == "" {
		out.Word = text
	}
	return &out, nil
}

func buildPrompt(word string, language entity.Language) string {
	return fmt.Sprintf(`You are a vocabulary assistant. Analyze the %[1]s word %[2]q.

Rules for word forms:
- If the input is a conjugated verb or plural noun, set "word" to the base form (lemma).
- For IRREGULAR forms only, append the conjugation pattern after translation, e.g., "(write-wrote-written)" or "(child-children)".
- For REGULAR forms (add -ed, -s, -ing), do NOT mention any rule.

Return a valid JSON object:
{
  "word": "base form",
  "translation": "/IPA/ Chinese translation (irregular note only if applicable)",
  "examples": [
    {"sentence": "Example in %[1]s", "translation": "Chinese translation"},
    {"sentence": "Example in %[1]s", "translation": "Chinese translation"}
  ]
}

Requirements:
- Include IPA phonetic transcription at the start of translation.
- Provide at least 2 examples, preferably related to daily life or programming/software engineering.
- Keep translation concise.`, language, word)
}
