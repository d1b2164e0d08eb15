// Package query answers questions over a session's ingested documents:
// embed the question, retrieve scoped context and generate a grounded answer.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/chat"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
	"github.com/lendkit-cloud/creditdesk/internal/logger"
)

// DefaultTopK is the number of context documents retrieved per question.
const DefaultTopK = 5

// snippetLen caps the per-source preview returned with the answer, in runes.
const snippetLen = 200

const systemPrompt = "You are a financial services assistant. Answer the question using only the " +
	"provided document context. If the context does not contain the answer, say that " +
	"the uploaded documents do not cover it. Context:\n\n%s"

const emptyContextNote = "(no documents matched the question)"

// Request is a question bound to a tenant scope with optional history.
type Request struct {
	Query   string
	Scope   document.Scope
	History []chat.Message
}

// Source describes one retrieved document backing the answer.
type Source struct {
	ID         string
	Name       string
	Type       string
	Confidence float64
	Snippet    string
}

// Answer is the generated response with its supporting sources.
// Confidence is the best retrieval score, 0 when nothing matched.
type Answer struct {
	Text       string
	Sources    []Source
	Confidence float64
}

// Service answers questions over ingested documents.
type Service struct {
	embedder Embedder
	searcher Searcher
	chat     Completer
	topK     int
}

// New creates the query service. topK <= 0 falls back to DefaultTopK.
func New(embedder Embedder, searcher Searcher, completer Completer, topK int) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{embedder: embedder, searcher: searcher, chat: completer, topK: topK}
}

// Ask runs the retrieval pipeline for one question.
func (s *Service) Ask(ctx context.Context, req Request) (Answer, error) {
	log := logger.FromContext(ctx)

	emb, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return Answer{}, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.searcher.Search(ctx, req.Scope, emb.Embedding, s.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}
	log.Debug("context retrieved", zap.Int("matches", len(matches)))

	text, err := s.chat.Complete(ctx, fmt.Sprintf(systemPrompt, contextBlock(matches)), req.History, req.Query)
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	answer := Answer{Text: text, Sources: make([]Source, 0, len(matches))}
	for _, m := range matches {
		answer.Sources = append(answer.Sources, Source{
			ID:         m.DocumentID,
			Name:       m.FileName,
			Type:       m.FileType,
			Confidence: m.Score,
			Snippet:    snippet(m.Text),
		})
		if m.Score > answer.Confidence {
			answer.Confidence = m.Score
		}
	}
	return answer, nil
}

// contextBlock joins match texts into the prompt context section.
func contextBlock(matches []domain.Match) string {
	if len(matches) == 0 {
		return emptyContextNote
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Text)
	}
	return strings.Join(parts, "\n\n")
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetLen {
		return s
	}
	return string(runes[:snippetLen])
}
