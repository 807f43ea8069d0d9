package search

import (
	"context"

	"github.com/samachar-ai/newsbot/internal/domain"
)

// PartitionSearcher runs a nearest-neighbor lookup within one partition.
type PartitionSearcher interface {
	SearchPartition(ctx context.Context, partition string, vector []float32) ([]domain.SearchResult, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// QueryTranslator translates a cleaned query for display. The returned text
// is always usable: implementations fall back to the input on failure.
type QueryTranslator interface {
	TranslateQuery(ctx context.Context, text string) (string, error)
}

// KeywordExtractor strips stopwords from a raw query.
type KeywordExtractor interface {
	Extract(text string) string
}
