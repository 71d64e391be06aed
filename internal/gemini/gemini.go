// Package gemini adapts the Gemini API to the single blocking
// instruction-in, text-out call the pipeline needs.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/trendpress/trendpress/internal/ratelimit"
)

type Client struct {
	client  *genai.Client
	model   string
	limiter *ratelimit.Limiter
}

// NewClient builds a generator client. An empty API key yields a client
// whose Available method reports false; the pipeline then degrades to
// placeholder documents instead of failing the run.
func NewClient(ctx context.Context, apiKey, model string, limiter *ratelimit.Limiter) (*Client, error) {
	c := &Client{model: model, limiter: limiter}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Available reports whether real generation is possible.
func (c *Client) Available() bool {
	return c.client != nil
}

// Generate sends one instruction and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, instruction string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("generator not configured: missing API key")
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return "", fmt.Errorf("generator request budget exhausted")
	}

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(instruction))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}
