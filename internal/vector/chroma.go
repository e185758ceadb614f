package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const collectionName = "questions"

// ChromaClient talks to a Chroma server over its REST API. Question
// embeddings are indexed under the question's own ID so the relational record
// and the vector stay linked.
type ChromaClient struct {
	BaseURL string
	Client  *http.Client

	collectionID string
}

func NewChromaClient(baseURL string) *ChromaClient {
	return &ChromaClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// EnsureCollection creates or fetches the questions collection and caches its
// id for later calls.
func (c *ChromaClient) EnsureCollection(ctx context.Context) error {
	body := map[string]interface{}{
		"name":          collectionName,
		"get_or_create": true,
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/api/v1/collections", body, &result); err != nil {
		return fmt.Errorf("ensure chroma collection: %w", err)
	}
	c.collectionID = result.ID
	return nil
}

// UpsertQuestion inserts or updates a question vector.
func (c *ChromaClient) UpsertQuestion(ctx context.Context, questionID string, embedding []float32, metadata map[string]string) error {
	body := map[string]interface{}{
		"ids":        []string{questionID},
		"embeddings": [][]float32{embedding},
		"metadatas":  []map[string]string{metadata},
	}
	path := fmt.Sprintf("/api/v1/collections/%s/upsert", c.collectionID)
	if err := c.post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("upsert question vector: %w", err)
	}
	return nil
}

// QuerySimilar returns the ids of the questions closest to the embedding,
// optionally filtered by subject.
func (c *ChromaClient) QuerySimilar(ctx context.Context, embedding []float32, nResults int, subject string) ([]string, error) {
	body := map[string]interface{}{
		"query_embeddings": [][]float32{embedding},
		"n_results":        nResults,
	}
	if subject != "" {
		body["where"] = map[string]string{"subject": subject}
	}

	var result struct {
		IDs [][]string `json:"ids"`
	}
	path := fmt.Sprintf("/api/v1/collections/%s/query", c.collectionID)
	if err := c.post(ctx, path, body, &result); err != nil {
		return nil, fmt.Errorf("query similar questions: %w", err)
	}
	if len(result.IDs) == 0 {
		return nil, nil
	}
	return result.IDs[0], nil
}

func (c *ChromaClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chroma API error (status %d): %s", resp.StatusCode, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
