package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExaToolsSendsSearchOptions(t *testing.T) {
	var captured exaSearchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "exa-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Octocat", "url": "https://github.com/octocat", "text": strings.Repeat("a", 50)},
			},
		})
	}))
	defer server.Close()

	core, logs := observer.New(zap.InfoLevel)
	exa := NewExaTools(ExaOptions{
		APIKey:          "exa-key",
		BaseURL:         server.URL + "/",
		IncludeDomains:  []string{"linkedin.com", "github.com"},
		SearchType:      "keyword",
		TextLengthLimit: 10,
		ShowResults:     true,
	}, WithExaHTTPClient(server.Client()), WithExaLogger(zap.New(core)))

	out, err := exa.Call(context.Background(), "search_exa", map[string]any{"query": "octocat engineer"})
	require.NoError(t, err)

	assert.Equal(t, "octocat engineer", captured.Query)
	assert.Equal(t, "keyword", captured.Type)
	assert.Equal(t, defaultExaResults, captured.NumResults)
	assert.Equal(t, []string{"linkedin.com", "github.com"}, captured.IncludeDomains)
	require.NotNil(t, captured.Contents)
	assert.Equal(t, 10, captured.Contents.Text.MaxCharacters)

	results := out.([]ExaResult)
	require.Len(t, results, 1)
	assert.Equal(t, "https://github.com/octocat", results[0].URL)
	assert.Len(t, results[0].Text, 10)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "exa search results", logs.All()[0].Message)
}

func TestExaToolsReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	exa := NewExaTools(ExaOptions{APIKey: "bad", BaseURL: server.URL})
	_, err := exa.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestExaToolsDefaults(t *testing.T) {
	exa := NewExaTools(ExaOptions{APIKey: " key ", IncludeDomains: []string{"github.com"}})

	opts := exa.Options()
	assert.Equal(t, "key", opts.APIKey)
	assert.Equal(t, DefaultExaBaseURL, opts.BaseURL)
	assert.Equal(t, defaultExaResults, opts.NumResults)
	assert.Contains(t, exa.Instructions(), "github.com")

	_, err := NewExaTools(ExaOptions{}).Search(context.Background(), "q", 1)
	require.Error(t, err)

	_, err = exa.Call(context.Background(), "search_exa", map[string]any{})
	require.Error(t, err)
}
