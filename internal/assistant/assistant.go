// Package assistant provides a thin client for chat-completion APIs used
// to draft time entry descriptions and invoice notes. It is an optional
// collaborator: callers surface its errors to the user but never let them
// fail the surrounding operation.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"protrack/internal/config"
	apperrors "protrack/internal/errors"
	"protrack/internal/logger"
)

const defaultSystemPrompt = "You are an assistant that writes professional, billable time entry descriptions for client invoices. " +
	"Summarize the work in 2-3 concise sentences, highlight deliverables, mention tools or documents reviewed when relevant, and avoid first-person language."

const requestTimeout = 30 * time.Second

// Request carries the prompt and optional context fields for one generation.
type Request struct {
	// Prompt is the user's short instruction. Required.
	Prompt string

	// ContextLabel names the project or client the text is about.
	ContextLabel string

	// DurationHours, when set, is mentioned in the composed message.
	DurationHours *float64

	// AdditionalContext carries free-text lines (totals, dates, terms).
	AdditionalContext string
}

// Client issues chat-completion requests to the configured provider.
type Client struct {
	httpClient *http.Client
	opts       config.AssistantConfig
}

// New creates an assistant client with a bounded request timeout.
func New(opts config.AssistantConfig) *Client {
	return NewWithHTTPClient(opts, &http.Client{Timeout: requestTimeout})
}

// NewWithHTTPClient creates an assistant client with a caller-supplied
// http.Client, used by tests to point at a mock server.
func NewWithHTTPClient(opts config.AssistantConfig, httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient, opts: opts}
}

// chatRequest is the chat-completion request payload.
type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat-completion response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate composes the system and user messages, issues one completion
// request, and returns the first choice's trimmed text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if !c.opts.Enabled {
		return "", apperrors.ErrAssistantDisabled
	}
	if strings.TrimSpace(c.opts.APIKey) == "" {
		logger.Get().Warnw("assistant invoked without an API key configured", "provider", c.opts.Provider)
		return "", apperrors.ErrAssistantNotConfigured
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "A prompt is required to generate text")
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAssistantProvider, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAssistantProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Get().Errorw("assistant provider returned non-success status",
			"provider", c.opts.Provider,
			"status", resp.StatusCode,
			"payload", string(payload),
		)
		return "", apperrors.Wrap(apperrors.ErrAssistantProvider, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", apperrors.Wrap(apperrors.ErrAssistantProvider, fmt.Errorf("decoding response: %w", err))
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		logger.Get().Warnw("assistant provider returned an empty response", "provider", c.opts.Provider)
		return "", apperrors.ErrAssistantEmptyResponse
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// buildRequest assembles the HTTP request: URL, payload, and auth header.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	endpoint := c.opts.Endpoint
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "v1/chat/completions"
	}

	requestURL, err := c.buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	systemPrompt := c.opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	payload := chatRequest{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: composeUserMessage(req)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	scheme := c.opts.AuthScheme
	if strings.TrimSpace(scheme) == "" {
		scheme = "Bearer"
	}
	if strings.EqualFold(scheme, "api-key") {
		// Azure-style auth header.
		httpReq.Header.Set("api-key", c.opts.APIKey)
	} else {
		httpReq.Header.Set("Authorization", scheme+" "+c.opts.APIKey)
	}

	return httpReq, nil
}

// buildURL joins the base URL with the endpoint path and appends the
// api-version query parameter when configured.
func (c *Client) buildURL(endpoint string) (string, error) {
	base := strings.TrimRight(c.opts.BaseURL, "/")
	raw := base + "/" + strings.TrimLeft(endpoint, "/")

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid assistant URL %q: %w", raw, err)
	}

	if c.opts.APIVersion != "" && !u.Query().Has("api-version") {
		q := u.Query()
		q.Set("api-version", c.opts.APIVersion)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// composeUserMessage assembles the user message from the prompt and any
// context fields, one line each, prompt last.
func composeUserMessage(req Request) string {
	var b strings.Builder

	if strings.TrimSpace(req.ContextLabel) != "" {
		fmt.Fprintf(&b, "Project: %s\n", strings.TrimSpace(req.ContextLabel))
	}
	if req.DurationHours != nil {
		fmt.Fprintf(&b, "Duration: approximately %.2f hours.\n", *req.DurationHours)
	}
	if strings.TrimSpace(req.AdditionalContext) != "" {
		b.WriteString(strings.TrimSpace(req.AdditionalContext))
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(req.Prompt))

	return strings.TrimSpace(b.String())
}
