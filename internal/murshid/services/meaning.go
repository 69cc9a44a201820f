package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/malakhossam/murshid/common/retry"
)

// Lookup types accepted by the meaning service.
const (
	LookupSynonyms = "synonyms"
	LookupAntonyms = "antonyms"
	LookupPlural   = "plural"
)

// MeaningClient calls the external meaning service.
//
// Wire contract: POST {base}/analyze/ with body {"word": w, "type": t}
// where t ∈ {synonyms, antonyms, plural} returns {"result": string}.
type MeaningClient struct {
	baseURL string
	client  *http.Client
}

// NewMeaning returns a client for the meaning service at baseURL.
func NewMeaning(baseURL string, timeout time.Duration) *MeaningClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MeaningClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type meaningRequest struct {
	Word string `json:"word"`
	Type string `json:"type"`
}

type meaningResponse struct {
	Result string `json:"result"`
}

// Lookup returns the service's result string for the word, which is empty
// when the service found nothing. Transient upstream failures are retried.
func (c *MeaningClient) Lookup(ctx context.Context, word, lookupType string) (string, error) {
	var out meaningResponse

	err := retry.Do(ctx, retryConfig, func() error {
		return c.post(ctx, word, lookupType, &out)
	})
	if err != nil {
		return "", err
	}
	return out.Result, nil
}

func (c *MeaningClient) post(ctx context.Context, word, lookupType string, out *meaningResponse) error {
	data, err := json.Marshal(meaningRequest{Word: word, Type: lookupType})
	if err != nil {
		return fmt.Errorf("meaning: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze/", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("meaning: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("meaning: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("meaning: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("meaning: decode response: %w", err)
	}
	return nil
}
