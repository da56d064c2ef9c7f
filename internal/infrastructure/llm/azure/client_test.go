package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/resilience"
)

func testConfig(endpoint string) Config {
	return Config{
		Endpoint:        endpoint,
		APIKey:          "test-key",
		APIVersion:      "2024-08-01-preview",
		EmbedDeployment: "text-embedding-3-small",
		ChatDeployment:  "gpt-4.1",
	}
}

func noRetryExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: 1,
		BreakerEnabled:   false,
	})
}

func TestEmbedSortsByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/openai/deployments/text-embedding-3-small/embeddings") {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("api-version") != "2024-08-01-preview" {
			t.Errorf("missing api-version query, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("api-key") != "test-key" {
			t.Errorf("missing api-key header")
		}
		// Out-of-order response data.
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[2]},{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(testConfig(server.URL), noRetryExecutor()))
	vectors, err := embedder.Embed(context.Background(), []string{"erster", "zweiter"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][0] != 2 {
		t.Fatalf("vectors not reordered by index: %v", vectors)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(New(testConfig(server.URL), noRetryExecutor()))
	if _, err := embedder.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestGenerateAnswerBuildsGroundedPrompt(t *testing.T) {
	var captured struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/openai/deployments/gpt-4.1/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" Nach Artikel 61 MDR gilt... "}}]}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(testConfig(server.URL), noRetryExecutor()))
	answer, err := gen.GenerateAnswer(context.Background(), "Welche Fristen gelten?", []domain.RetrievedChunk{{
		DocumentTitle: "EU MDR 2017/745",
		Jurisdiction:  "EU",
		ArticleID:     "Artikel 61",
		Page:          34,
		Text:          "Klinische Bewertung...",
		Score:         0.97,
	}})
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if answer != "Nach Artikel 61 MDR gilt..." {
		t.Fatalf("answer not trimmed: %q", answer)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected message layout: %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[0].Content, "Jurisdiktionen strikt") {
		t.Fatalf("system prompt missing jurisdiction rule")
	}
	user := captured.Messages[1].Content
	if !strings.Contains(user, "QUELLE: EU MDR 2017/745 – Artikel 61 (EU, S.34)") {
		t.Fatalf("context block missing citation label: %s", user)
	}
	if !strings.Contains(user, "Frage: Welche Fristen gelten?") {
		t.Fatalf("question missing from prompt: %s", user)
	}
	if captured.Temperature != 0 {
		t.Fatalf("temperature = %v, want 0", captured.Temperature)
	}
}

func TestGenerateAnswerNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	gen := NewGenerator(New(testConfig(server.URL), noRetryExecutor()))
	if _, err := gen.GenerateAnswer(context.Background(), "q", nil); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestEmbedIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "deployment not found", http.StatusNotFound)
	}))
	defer server.Close()

	embedder := NewEmbedder(New(testConfig(server.URL), noRetryExecutor()))
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "deployment not found") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestEmbedRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "throttled", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 1,
		RetryMaxBackoff:     1,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	})
	embedder := NewEmbedder(New(testConfig(server.URL), executor))
	vectors, err := embedder.Embed(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected retry after 429, got %d attempts", attempts)
	}
	if len(vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(vectors))
	}
}
