package search

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/domain"
)

// sortResults orders results descending by (date, score). If any date fails
// to parse, the whole set falls back to score-only ordering — a mixed-key
// ordering would be meaningless.
func sortResults(results []domain.SearchResult, logger *zap.Logger) {
	type dated struct {
		date   time.Time
		result domain.SearchResult
	}

	ordered := make([]dated, len(results))
	for i, r := range results {
		d, err := time.Parse(domain.DateLayout, r.Article.Date)
		if err != nil {
			logger.Warn("Unparseable article date, sorting by score only",
				zap.String("date", r.Article.Date),
				zap.String("source", r.Source),
			)
			sortByScore(results)
			return
		}
		ordered[i] = dated{date: d, result: r}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].date.Equal(ordered[j].date) {
			return ordered[i].date.After(ordered[j].date)
		}
		return ordered[i].result.Score > ordered[j].result.Score
	})

	for i, o := range ordered {
		results[i] = o.result
	}
}

func sortByScore(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
