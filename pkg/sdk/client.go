// Package sdk is a small Go client for the creditdesk HTTP API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Client talks to a creditdesk API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("creditdesk: HTTP %d: %s", e.StatusCode, e.Message)
}

// Health is the GET /health response.
type Health struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
	Services    map[string]string `json:"services"`
}

// Health fetches the server health report. A degraded report is returned
// alongside a nil error; only transport failures error out.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health response: %w", err)
	}
	return h, nil
}

// UploadFile is one file in an upload batch.
type UploadFile struct {
	Name string
	Data []byte
}

// UploadResult is the per-file outcome of an upload.
type UploadResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int    `json:"size"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Upload ingests files under the given scope. Results are returned in the
// same order as files; a failed file is reported in its entry, not as an
// overall error.
func (c *Client) Upload(ctx context.Context, orgID, pipeline, sessionID string, files []UploadFile) ([]UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{"orgId": orgID, "pipeline": pipeline, "sessionId": sessionID}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write form file %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var results []UploadResult
	if err := c.do(req, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ChatMessage is one turn of conversation history sent with a query.
type ChatMessage struct {
	Text      string `json:"text"`
	Sender    string `json:"sender"` // "user" or "ai"
	Timestamp int64  `json:"timestamp"`
}

// Source is one document backing an answer.
type Source struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

// Answer is the POST /api/query response.
type Answer struct {
	Answer     string   `json:"answer"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// Query asks a question over the session's ingested documents.
func (c *Client) Query(ctx context.Context, orgID, pipeline, sessionID, query string, history []ChatMessage) (Answer, error) {
	body := map[string]any{
		"query":     query,
		"orgId":     orgID,
		"pipeline":  pipeline,
		"sessionId": sessionID,
	}
	if len(history) > 0 {
		body["chatHistory"] = history
	}

	var answer Answer
	if err := c.postJSON(ctx, "/api/query", body, &answer); err != nil {
		return Answer{}, err
	}
	return answer, nil
}

// Quote is the POST /api/finance/quote response.
type Quote struct {
	LoanAmount     float64 `json:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// FinanceQuote computes loan sizing and the amortized monthly payment.
func (c *Client) FinanceQuote(ctx context.Context, assetPrice, downPayment, annualRatePercent float64, termMonths int) (Quote, error) {
	body := map[string]any{
		"assetPrice":        assetPrice,
		"downPayment":       downPayment,
		"annualRatePercent": annualRatePercent,
		"termMonths":        termMonths,
	}
	var q Quote
	if err := c.postJSON(ctx, "/api/finance/quote", body, &q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
