package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultExaBaseURL   = "https://api.exa.ai"
	defaultExaResults   = 5
	maxExaResults       = 25
	exaErrorBodyPreview = 512
)

type ExaOptions struct {
	APIKey  string
	BaseURL string
	// IncludeDomains restricts results to these domains. Empty means any domain.
	IncludeDomains []string
	// SearchType is one of "keyword", "neural" or "auto". Empty lets the API decide.
	SearchType string
	NumResults int
	// TextLengthLimit caps the page text returned per result. Zero means no cap.
	TextLengthLimit int
	// ShowResults logs every result set at info level.
	ShowResults bool
}

// ExaTools searches the web through the Exa API.
type ExaTools struct {
	opts   ExaOptions
	client *http.Client
	logger *zap.Logger
}

type ExaOption func(*ExaTools)

func WithExaHTTPClient(client *http.Client) ExaOption {
	return func(e *ExaTools) {
		if client != nil {
			e.client = client
		}
	}
}

func WithExaLogger(logger *zap.Logger) ExaOption {
	return func(e *ExaTools) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewExaTools(opts ExaOptions, options ...ExaOption) *ExaTools {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultExaBaseURL
	}
	if opts.NumResults <= 0 {
		opts.NumResults = defaultExaResults
	}
	opts.IncludeDomains = append([]string(nil), opts.IncludeDomains...)

	e := &ExaTools{
		opts:   opts,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *ExaTools) Options() ExaOptions { return e.opts }

func (e *ExaTools) Name() string { return "exa" }

func (e *ExaTools) Instructions() string {
	if len(e.opts.IncludeDomains) == 0 {
		return "Use search_exa to verify public claims about a candidate."
	}
	return fmt.Sprintf("Use search_exa to verify public claims about a candidate. Results are limited to: %s.",
		strings.Join(e.opts.IncludeDomains, ", "))
}

func (e *ExaTools) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{{
		Name:        "search_exa",
		Description: "Search the web and return matching pages with their text.",
		Parameters: objectSchema([]string{"query"}, map[string]*genai.Schema{
			"query":       stringProp("The search query."),
			"num_results": intProp(fmt.Sprintf("Number of results (1-%d).", maxExaResults)),
		}),
	}}
}

func (e *ExaTools) Call(ctx context.Context, function string, args map[string]any) (any, error) {
	if function != "search_exa" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, function)
	}
	query, err := requiredStringArg(args, "query")
	if err != nil {
		return nil, err
	}
	return e.Search(ctx, query, intArg(args, "num_results", e.opts.NumResults, maxExaResults))
}

type exaSearchRequest struct {
	Query          string       `json:"query"`
	Type           string       `json:"type,omitempty"`
	NumResults     int          `json:"numResults"`
	IncludeDomains []string     `json:"includeDomains,omitempty"`
	Contents       *exaContents `json:"contents,omitempty"`
}

type exaContents struct {
	Text exaTextOptions `json:"text"`
}

type exaTextOptions struct {
	MaxCharacters int `json:"maxCharacters,omitempty"`
}

type exaSearchResponse struct {
	Results []ExaResult `json:"results"`
}

type ExaResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Author        string  `json:"author,omitempty"`
	Text          string  `json:"text,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

func (e *ExaTools) Search(ctx context.Context, query string, numResults int) ([]ExaResult, error) {
	if e.opts.APIKey == "" {
		return nil, errors.New("exa api key is not set")
	}

	payload := exaSearchRequest{
		Query:          query,
		Type:           e.opts.SearchType,
		NumResults:     numResults,
		IncludeDomains: e.opts.IncludeDomains,
		Contents:       &exaContents{Text: exaTextOptions{MaxCharacters: e.opts.TextLengthLimit}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", e.opts.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, exaErrorBodyPreview))
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(preview)))
	}

	var decoded exaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := decoded.Results
	if results == nil {
		results = []ExaResult{}
	}
	if e.opts.TextLengthLimit > 0 {
		for i := range results {
			results[i].Text = truncate(results[i].Text, e.opts.TextLengthLimit)
		}
	}

	if e.opts.ShowResults {
		urls := make([]string, 0, len(results))
		for _, r := range results {
			urls = append(urls, r.URL)
		}
		e.logger.Info("exa search results",
			zap.String("query", query),
			zap.Int("count", len(results)),
			zap.Strings("urls", urls),
		)
	}

	return results, nil
}
