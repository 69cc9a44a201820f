package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/malakhossam/murshid/common/retry"
)

// ErrNoAnalysis is returned when the morphology service answers
// successfully but has no analysis for the word.
var ErrNoAnalysis = errors.New("services: no morphological analysis found")

// MorphologyClient calls the external morphology service.
//
// Wire contract: POST {base}/morphology with body {"text": word} returns
// {"result": [ {field: value, ...}, ... ]}; only the first list element is
// meaningful.
type MorphologyClient struct {
	baseURL string
	client  *http.Client
}

// NewMorphology returns a client for the morphology service at baseURL.
func NewMorphology(baseURL string, timeout time.Duration) *MorphologyClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MorphologyClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type morphologyRequest struct {
	Text string `json:"text"`
}

type morphologyResponse struct {
	Result []map[string]any `json:"result"`
}

// Analyze returns the first analysis record for word. Transient upstream
// failures are retried; ErrNoAnalysis means the service had nothing for
// this word, ErrUnavailable (wrapped) means the service answered with an
// error status.
func (c *MorphologyClient) Analyze(ctx context.Context, word string) (map[string]any, error) {
	var out morphologyResponse

	err := retry.Do(ctx, retryConfig, func() error {
		return c.post(ctx, word, &out)
	})
	if err != nil {
		return nil, err
	}

	if len(out.Result) == 0 || out.Result[0] == nil {
		return nil, ErrNoAnalysis
	}
	return out.Result[0], nil
}

func (c *MorphologyClient) post(ctx context.Context, word string, out *morphologyResponse) error {
	data, err := json.Marshal(morphologyRequest{Text: word})
	if err != nil {
		return fmt.Errorf("morphology: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/morphology", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("morphology: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("morphology: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("morphology: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("morphology: decode response: %w", err)
	}
	return nil
}
