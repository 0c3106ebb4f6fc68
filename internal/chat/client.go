// Package chat calls the remote assistant model used when no local rule
// applies.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/model"
)

// ErrEmptyReply is returned when the remote model answers with no text.
var ErrEmptyReply = errors.New("remote assistant returned an empty reply")

// Client posts a message plus recent history to {base_url}/chat.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client from the chat section of the config.
func NewClient(cfg config.ChatConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Message string       `json:"message"`
	History []model.Turn `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Reply returns the remote model's answer. history is sent oldest first.
func (c *Client) Reply(ctx context.Context, message string, history []model.Turn) (string, error) {
	if history == nil {
		history = []model.Turn{}
	}
	jsonData, err := json.Marshal(chatRequest{Message: message, History: history})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling remote assistant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("remote assistant returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if strings.TrimSpace(out.Reply) == "" {
		return "", ErrEmptyReply
	}
	return out.Reply, nil
}
