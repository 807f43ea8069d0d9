// Package search orchestrates the query-to-result pipeline: keyword
// extraction, embedding, concurrent partition fan-out, merging, ranking,
// and truncation.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/domain"
	"github.com/samachar-ai/newsbot/internal/metrics"
)

// Response is the outcome of one search.
type Response struct {
	Results    []domain.SearchResult
	Cleaned    string
	Translated string
	// Warning carries a user-facing note about degraded behavior (a failed
	// query translation); it never implies the search itself failed.
	Warning string
}

// Service aggregates partition searches into one ranked result set.
type Service struct {
	searcher   PartitionSearcher
	embed      Embedder
	translator QueryTranslator
	extractor  KeywordExtractor
	partitions []string
	pool       *ants.Pool
	logger     *zap.Logger
}

// New creates a search service with a worker pool sized to the partition count.
func New(
	searcher PartitionSearcher,
	embed Embedder,
	translator QueryTranslator,
	extractor KeywordExtractor,
	partitions []string,
	logger *zap.Logger,
) (*Service, error) {
	if len(partitions) == 0 {
		return nil, fmt.Errorf("at least one partition is required")
	}

	pool, err := ants.NewPool(len(partitions))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Service{
		searcher:   searcher,
		embed:      embed,
		translator: translator,
		extractor:  extractor,
		partitions: partitions,
		pool:       pool,
		logger:     logger,
	}, nil
}

// Release shuts down the worker pool. The service must not be used after.
func (s *Service) Release() {
	s.pool.Release()
}

// Search runs the full pipeline for a raw query. Only an embedding failure
// aborts the search; partition and translation failures degrade gracefully.
func (s *Service) Search(ctx context.Context, rawQuery string) (Response, error) {
	start := time.Now()

	cleaned := s.extractor.Extract(rawQuery)

	// Translation is display-only and must not gate the embedding step;
	// both run concurrently and the translation result is picked up after
	// the embedding succeeds.
	type translation struct {
		text string
		err  error
	}
	transCh := make(chan translation, 1)
	go func() {
		text, err := s.translator.TranslateQuery(ctx, cleaned)
		transCh <- translation{text: text, err: err}
	}()

	embResult, err := s.embed.Embed(ctx, cleaned)
	if err != nil {
		return Response{}, fmt.Errorf("vectorize query: %w", err)
	}

	merged := s.fanOut(ctx, embResult.Embedding)

	sortResults(merged, s.logger)

	if len(merged) > domain.ResultLimit {
		merged = merged[:domain.ResultLimit]
	}

	trans := <-transCh
	resp := Response{
		Results:    merged,
		Cleaned:    cleaned,
		Translated: trans.text,
	}
	if trans.err != nil {
		resp.Warning = "Translation is temporarily unavailable; showing the original query."
	}

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResultsReturned.Observe(float64(len(merged)))

	return resp, nil
}

// fanOut runs one partition search per worker and concatenates the results.
// A failing partition contributes zero results and is logged with its name;
// it never fails the overall search.
func (s *Service) fanOut(ctx context.Context, vector []float32) []domain.SearchResult {
	perPartition := make([][]domain.SearchResult, len(s.partitions))

	var wg sync.WaitGroup
	for i, partition := range s.partitions {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results, err := s.searcher.SearchPartition(ctx, partition, vector)
			if err != nil {
				metrics.SearchPartitionTotal.WithLabelValues(partition, "error").Inc()
				s.logger.Warn("Partition search failed",
					zap.String("partition", partition),
					zap.Error(err),
				)
				return
			}
			metrics.SearchPartitionTotal.WithLabelValues(partition, "success").Inc()
			perPartition[i] = results
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool rejection counts as a partition failure.
			wg.Done()
			metrics.SearchPartitionTotal.WithLabelValues(partition, "error").Inc()
			s.logger.Warn("Partition search not scheduled",
				zap.String("partition", partition),
				zap.Error(err),
			)
		}
	}
	wg.Wait()

	var merged []domain.SearchResult
	for _, results := range perPartition {
		merged = append(merged, results...)
	}
	return merged
}
