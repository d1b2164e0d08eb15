package db

// TagFilter restricts a search to documents whose tag fields exactly match
// every listed value (conditions are ANDed).
type TagFilter map[string]string

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filter       TagFilter
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
