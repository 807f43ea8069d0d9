package domain

// DateLayout is the wire format of article dates in the index.
const DateLayout = "2006-01-02"

// Article is the metadata stored alongside each indexed vector.
type Article struct {
	Title   string
	Text    string
	Content string
	Date    string // YYYY-MM-DD
	Link    string
}

// SearchResult is one candidate match from a partition search.
// Source is assigned by the searcher, never read from index metadata.
type SearchResult struct {
	Score   float64
	Article Article
	Source  string
}

// ResultLimit caps the merged result set regardless of partition count.
const ResultLimit = 5

// PartitionTopK is the per-partition nearest-neighbor count.
const PartitionTopK = 5
