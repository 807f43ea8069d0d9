// Package newsindex reads article matches from the vector index, one
// partition (news source) at a time.
package newsindex

import (
	"context"
	"fmt"

	"github.com/samachar-ai/newsbot/internal/db"
	"github.com/samachar-ai/newsbot/internal/domain"
)

// store is the consumer interface for partition searches (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the per-partition nearest-neighbor lookup.
type Repo struct {
	store       store
	indexPrefix string
}

// New creates a news index repository. indexPrefix is the key prefix shared
// by all partition indexes (e.g. "newsbot2").
func New(s store, indexPrefix string) *Repo {
	return &Repo{store: s, indexPrefix: indexPrefix}
}

var returnFields = []string{"title", "text", "content", "date", "link", "__vector_score"}

// SearchPartition returns the top-K nearest articles to vector within the
// named partition, with metadata included. Every result's Source is set to
// the partition name here; it is never read back from index metadata.
func (r *Repo) SearchPartition(
	ctx context.Context, partition string, vector []float32,
) ([]domain.SearchResult, error) {
	indexName := fmt.Sprintf("%s:%s:idx", r.indexPrefix, partition)

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            domain.PartitionTopK,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, domain.NewPartitionError(partition, err)
	}

	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]domain.SearchResult, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, domain.SearchResult{
			Score:   entry.Score,
			Article: articleFromFields(entry.Fields),
			Source:  partition,
		})
	}

	return results, nil
}

func articleFromFields(fields map[string]string) domain.Article {
	text := fields["text"]
	content := fields["content"]
	// Some partitions store the full body only under "text".
	if content == "" {
		content = text
	}
	return domain.Article{
		Title:   fields["title"],
		Text:    text,
		Content: content,
		Date:    fields["date"],
		Link:    fields["link"],
	}
}
