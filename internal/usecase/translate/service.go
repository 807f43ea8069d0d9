// Package translate implements best-effort Gujarati translation for search
// queries and article content, with per-call-site failure semantics.
package translate

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/domain"
	"github.com/samachar-ai/newsbot/internal/metrics"
)

// ContentErrorMessage is rendered in place of content when content
// translation fails. Content translation is an explicit user action, so
// surfacing the failure inline is acceptable.
const ContentErrorMessage = "Translation error: the translation service is unavailable."

// cache is the consumer interface for the read-through text cache (ISP).
type cache interface {
	Fetch(ctx context.Context, input string, fill func(ctx context.Context, input string) (string, error)) (string, error)
}

// Service translates queries and article content.
type Service struct {
	translator   domain.Translator
	queryCache   cache
	contentCache cache
	logger       *zap.Logger
}

// New creates a translation service. The caches hold results keyed by exact
// input for a bounded window; pass nil to disable caching (tests).
func New(translator domain.Translator, queryCache, contentCache cache, logger *zap.Logger) *Service {
	return &Service{
		translator:   translator,
		queryCache:   queryCache,
		contentCache: contentCache,
		logger:       logger,
	}
}

var latinRe = regexp.MustCompile(`[a-zA-Z]`)

// TranslateQuery translates a cleaned query to the target language.
// Input without any Latin letter is returned unchanged without calling the
// provider (it is already in the target script). On provider failure the
// original text is returned together with the error so the caller can show
// a transient warning; the failure never aborts a search.
func (s *Service) TranslateQuery(ctx context.Context, text string) (string, error) {
	if text == "" || !latinRe.MatchString(text) {
		return text, nil
	}

	translated, err := s.fetch(ctx, s.queryCache, text)
	if err != nil {
		metrics.TranslationRequestsTotal.WithLabelValues("query", "error").Inc()
		s.logger.Warn("Query translation failed, using original text", zap.Error(err))
		return text, fmt.Errorf("translate query: %w", domain.ErrTranslationFailed)
	}

	metrics.TranslationRequestsTotal.WithLabelValues("query", "success").Inc()
	return translated, nil
}

// TranslateContent translates a full article body. On provider failure it
// returns a literal error message in place of the content, plus the error.
func (s *Service) TranslateContent(ctx context.Context, text string) (string, error) {
	translated, err := s.fetch(ctx, s.contentCache, text)
	if err != nil {
		metrics.TranslationRequestsTotal.WithLabelValues("content", "error").Inc()
		s.logger.Warn("Content translation failed", zap.Error(err))
		return ContentErrorMessage, fmt.Errorf("translate content: %w", domain.ErrTranslationFailed)
	}

	metrics.TranslationRequestsTotal.WithLabelValues("content", "success").Inc()
	return translated, nil
}

func (s *Service) fetch(ctx context.Context, c cache, text string) (string, error) {
	fill := func(ctx context.Context, input string) (string, error) {
		return s.translator.Translate(ctx, input)
	}
	if c == nil {
		return fill(ctx, text)
	}
	return c.Fetch(ctx, text, fill)
}
