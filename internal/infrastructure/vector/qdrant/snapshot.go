package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CollectionExists reports whether the configured collection already holds
// data. Used at startup to decide whether a snapshot bootstrap is needed.
func (c *Client) CollectionExists(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create collection info request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("qdrant collection info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("qdrant collection info status: %s", resp.Status)
	}
	return true, nil
}

// RecoverSnapshot restores the collection from a prebuilt snapshot URL so a
// fresh deployment starts with the regulatory corpus already indexed.
func (c *Client) RecoverSnapshot(ctx context.Context, snapshotURL string) error {
	reqBody := map[string]any{"location": snapshotURL}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal snapshot recover body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/snapshots/recover", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create snapshot recover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant snapshot recover request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return fmt.Errorf("qdrant snapshot recover status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant snapshot recover status: %s", resp.Status)
	}
	return nil
}
