// Package claude implements classification and document extraction on the
// Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"claimos/internal/config"
	"claimos/internal/extractor"
	"claimos/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Client implements port.Classifier and port.DocumentExtractor using the
// Anthropic Messages API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a Claude-backed classifier/extractor.
func NewClient(cfg *config.ExtractorConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.ExtractorConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ExtractorConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Classify matches an incident description against candidate coverage types.
func (c *Client) Classify(ctx context.Context, input port.ClassifyInput) (*port.ClassifyOutput, error) {
	prompt := extractor.BuildClassifyPrompt(input.Description, input.Candidates)
	blocks := []map[string]interface{}{{"type": "text", "text": prompt}}

	text, err := c.complete(ctx, blocks, 1024)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		CoverageTypeIDs []string `json:"coverage_type_ids"`
		Confidence      float64  `json:"confidence"`
		Reasoning       string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing classification output: %w (raw: %s)", err, truncate(text, 500))
	}

	return &port.ClassifyOutput{
		CoverageTypeIDs: parsed.CoverageTypeIDs,
		Confidence:      parsed.Confidence,
		Reasoning:       parsed.Reasoning,
		ModelUsed:       c.model,
	}, nil
}

// Extract runs vision extraction over a document.
func (c *Client) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	prompt := extractor.BuildExtractPrompt(input.ExpectedType)

	blocks, err := buildContentBlocks(input.FileBytes, input.ContentType, prompt)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	text, err := c.complete(ctx, blocks, 8192)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		DocumentType      string            `json:"document_type"`
		RecognizedText    string            `json:"recognized_text"`
		Entities          map[string]string `json:"entities"`
		AuthenticityScore float64           `json:"authenticity_score"`
		TamperingDetected bool              `json:"tampering_detected"`
		IsLegitimate      bool              `json:"is_legitimate"`
		IsRelevant        bool              `json:"is_relevant"`
		Errors            []string          `json:"errors"`
		Warnings          []string          `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing extraction output: %w (raw: %s)", err, truncate(text, 500))
	}

	return &port.ExtractOutput{
		DocumentType:      parsed.DocumentType,
		RecognizedText:    parsed.RecognizedText,
		Entities:          parsed.Entities,
		AuthenticityScore: parsed.AuthenticityScore,
		TamperingDetected: parsed.TamperingDetected,
		IsLegitimate:      parsed.IsLegitimate,
		IsRelevant:        parsed.IsRelevant,
		Errors:            parsed.Errors,
		Warnings:          parsed.Warnings,
		ModelUsed:         c.model,
	}, nil
}

// complete sends one user message and returns the first text block of the
// response.
func (c *Client) complete(ctx context.Context, contentBlocks []map[string]interface{}, maxTokens int) (string, error) {
	reqBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", extractor.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return "", baseErr
	}

	var apiResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	if apiResp.StopReason == "max_tokens" {
		return "", fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}
	return apiResp.Content[0].Text, nil
}

func buildContentBlocks(fileBytes []byte, contentType, prompt string) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(fileBytes)
	var blocks []map[string]interface{}

	switch contentType {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       encoded,
			},
		})
	case "image/jpeg", "image/png":
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": contentType,
				"data":       encoded,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", contentType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": prompt,
	})

	return blocks, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
