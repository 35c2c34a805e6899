// Package gemini adapts the Gemini API to blog.Completer.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// ErrMissingAPIKey is returned by New when no key is configured.
var ErrMissingAPIKey = errors.New("gemini: API key is required (set GOOGLE_API_KEY or --api-key)")

// Config carries explicit credentials; nothing is read from the environment here.
type Config struct {
	APIKey string
	Model  string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client completes prompts with a single GenerateContent call.
type Client struct {
	client *genai.Client
	model  contentGenerator
	name   string
}

// New opens a Gemini client for cfg.Model.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Client{client: c, model: c.GenerativeModel(name), name: name}, nil
}

// Model returns the model name in use.
func (c *Client) Model() string { return c.name }

// Complete implements blog.Completer.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", c.name, err)
	}
	return responseText(resp), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// responseText joins the text parts of the first candidate. A response without
// any text is rendered with fmt so the caller still sees what came back.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var b strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return fmt.Sprint(resp)
}
