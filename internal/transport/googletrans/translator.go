// Package googletrans implements domain.Translator against the public
// Google Translate gtx endpoint (the same endpoint the deep-translator
// family of clients wraps). No API key is required.
package googletrans

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samachar-ai/newsbot/internal/domain"
)

const defaultBaseURL = "https://translate.googleapis.com/translate_a/single"

// Translator translates text between a fixed language pair.
type Translator struct {
	baseURL    string
	sourceLang string
	targetLang string
	httpClient *http.Client
}

// Config holds the translation provider settings.
type Config struct {
	BaseURL    string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

// New creates a Google Translate client.
func New(cfg *Config) *Translator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Translator{
		baseURL:    baseURL,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate translates text from the source to the target language.
// All failures are wrapped with domain.ErrTranslationFailed; callers decide
// per call site whether to fall back or surface the failure.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", t.sourceLang)
	q.Set("tl", t.targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", domain.ErrTranslationFailed)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %v: %w", err, domain.ErrTranslationFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation API status %d: %w", resp.StatusCode, domain.ErrTranslationFailed)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %v: %w", err, domain.ErrTranslationFailed)
	}

	translated, err := parseResponse(body)
	if err != nil {
		return "", err
	}
	return translated, nil
}

// parseResponse extracts the translated text from the gtx response shape:
// [[["translated segment","source segment",...], ...], ...]. Segments are
// concatenated in order.
func parseResponse(body []byte) (string, error) {
	var parsed []json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed) == 0 {
		return "", fmt.Errorf("malformed translation response: %w", domain.ErrTranslationFailed)
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(parsed[0], &segments); err != nil {
		return "", fmt.Errorf("malformed translation segments: %w", domain.ErrTranslationFailed)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty translation response: %w", domain.ErrTranslationFailed)
	}
	return sb.String(), nil
}
