package domain

// Match is a single scored hit from a scoped vector search.
// Score is cosine similarity clamped to [0, 1], descending within a result set.
type Match struct {
	DocumentID string
	FileName   string
	FileType   string
	Text       string
	Score      float64
}
