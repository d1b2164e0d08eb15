package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/chat"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.5, 0.5}}, nil
}

type fakeSearcher struct {
	matches  []domain.Match
	err      error
	lastTopK int
}

func (f *fakeSearcher) Search(_ context.Context, _ document.Scope, _ []float32, topK int) ([]domain.Match, error) {
	f.lastTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeCompleter struct {
	answer     string
	err        error
	lastSystem string
	lastQuery  string
	lastHist   []chat.Message
}

func (f *fakeCompleter) Complete(_ context.Context, system string, history []chat.Message, query string) (string, error) {
	f.lastSystem = system
	f.lastHist = history
	f.lastQuery = query
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testRequest(t *testing.T) Request {
	t.Helper()
	scope, err := document.NewScope("org-1", "underwriting", "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	return Request{Query: "What is the outstanding balance?", Scope: scope}
}

func TestAsk(t *testing.T) {
	searcher := &fakeSearcher{matches: []domain.Match{
		{DocumentID: "doc-a", FileName: "statement.txt", FileType: "txt", Text: "Balance: $4,200", Score: 0.91},
		{DocumentID: "doc-b", FileName: "notes.txt", FileType: "txt", Text: "Customer called on Monday", Score: 0.55},
	}}
	completer := &fakeCompleter{answer: "The outstanding balance is $4,200."}
	svc := New(&fakeEmbedder{}, searcher, completer, 0)

	answer, err := svc.Ask(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if answer.Text != "The outstanding balance is $4,200." {
		t.Errorf("text = %q", answer.Text)
	}
	if answer.Confidence != 0.91 {
		t.Errorf("confidence = %v, want best score", answer.Confidence)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("got %d sources", len(answer.Sources))
	}
	if answer.Sources[0].ID != "doc-a" || answer.Sources[0].Confidence != 0.91 {
		t.Errorf("source[0] = %+v", answer.Sources[0])
	}
	if answer.Sources[1].Snippet != "Customer called on Monday" {
		t.Errorf("source[1].Snippet = %q", answer.Sources[1].Snippet)
	}

	if searcher.lastTopK != DefaultTopK {
		t.Errorf("topK = %d, want %d", searcher.lastTopK, DefaultTopK)
	}
	if !strings.Contains(completer.lastSystem, "Balance: $4,200") {
		t.Error("retrieved text missing from system prompt")
	}
	if completer.lastQuery != "What is the outstanding balance?" {
		t.Errorf("query passed = %q", completer.lastQuery)
	}
}

func TestAsk_NoMatches(t *testing.T) {
	completer := &fakeCompleter{answer: "The uploaded documents do not cover that."}
	svc := New(&fakeEmbedder{}, &fakeSearcher{}, completer, 5)

	answer, err := svc.Ask(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", answer.Confidence)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("sources = %v", answer.Sources)
	}
	if !strings.Contains(completer.lastSystem, emptyContextNote) {
		t.Error("empty-context note missing from system prompt")
	}
}

func TestAsk_HistoryPassedThrough(t *testing.T) {
	completer := &fakeCompleter{answer: "ok"}
	svc := New(&fakeEmbedder{}, &fakeSearcher{}, completer, 5)

	req := testRequest(t)
	req.History = []chat.Message{
		{Text: "hi", Sender: chat.SenderUser},
		{Text: "hello", Sender: chat.SenderAI},
	}
	if _, err := svc.Ask(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if len(completer.lastHist) != 2 {
		t.Errorf("history length = %d", len(completer.lastHist))
	}
}

func TestAsk_SnippetTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	searcher := &fakeSearcher{matches: []domain.Match{
		{DocumentID: "doc-a", Text: long, Score: 0.8},
	}}
	svc := New(&fakeEmbedder{}, searcher, &fakeCompleter{answer: "ok"}, 5)

	answer, err := svc.Ask(context.Background(), testRequest(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(answer.Sources[0].Snippet) != snippetLen {
		t.Errorf("snippet length = %d, want %d", len(answer.Sources[0].Snippet), snippetLen)
	}
}

func TestAsk_Errors(t *testing.T) {
	t.Run("embed", func(t *testing.T) {
		svc := New(&fakeEmbedder{err: domain.ErrEmbeddingProviderError}, &fakeSearcher{}, &fakeCompleter{}, 5)
		_, err := svc.Ask(context.Background(), testRequest(t))
		if !errors.Is(err, domain.ErrEmbeddingProviderError) {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("search", func(t *testing.T) {
		svc := New(&fakeEmbedder{}, &fakeSearcher{err: errors.New("index gone")}, &fakeCompleter{}, 5)
		if _, err := svc.Ask(context.Background(), testRequest(t)); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("complete", func(t *testing.T) {
		svc := New(&fakeEmbedder{}, &fakeSearcher{}, &fakeCompleter{err: domain.ErrChatProviderError}, 5)
		_, err := svc.Ask(context.Background(), testRequest(t))
		if !errors.Is(err, domain.ErrChatProviderError) {
			t.Errorf("err = %v", err)
		}
	})
}
