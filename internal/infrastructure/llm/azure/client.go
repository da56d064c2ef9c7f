// Package azure implements the embedding and answer-generation ports against
// Azure OpenAI deployments.
package azure

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/infrastructure/resilience"
)

type Config struct {
	Endpoint        string
	APIKey          string
	APIVersion      string
	EmbedDeployment string
	ChatDeployment  string
	Timeout         time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		executor:   executor,
	}
}

func (c *Client) deploymentURL(deployment, operation string) string {
	return fmt.Sprintf("%s/openai/deployments/%s/%s?api-version=%s",
		c.cfg.Endpoint, deployment, operation, c.cfg.APIVersion)
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"input": texts,
	}

	var response struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	url := e.client.deploymentURL(e.client.cfg.EmbedDeployment, "embeddings")
	if err := e.client.postJSON(ctx, url, request, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d inputs", len(response.Data), len(texts))
	}

	// The API does not guarantee input order.
	sort.Slice(response.Data, func(i, j int) bool {
		return response.Data[i].Index < response.Data[j].Index
	})

	vectors := make([][]float32, len(response.Data))
	for i, item := range response.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, question string, chunks []domain.RetrievedChunk) (string, error) {
	request := map[string]any{
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(question, chunks)},
		},
		// Regulatory answers must be reproducible; no sampling.
		"temperature": 0,
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	url := g.client.deploymentURL(g.client.cfg.ChatDeployment, "chat/completions")
	if err := g.client.postJSON(ctx, url, request, &response, "generate"); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
