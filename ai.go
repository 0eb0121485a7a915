package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Assistant talks to a local Ollama server. The chat call is synchronous and
// always runs off the render loop (the TUI wraps it in a command).
type Assistant struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaChatResponse struct {
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

var assistantJSONMarshal = json.Marshal

func NewAssistant(baseURL string, model string) *Assistant {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gemma3"
	}
	return &Assistant{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Assistant) SendMessage(messages []ChatMessage) (string, error) {
	if a == nil {
		return "", errors.New("assistant not configured")
	}
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}

	payload := ollamaChatRequest{Model: a.model, Messages: messages, Stream: false}
	blob, err := assistantJSONMarshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequest(http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(blob))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant http %d", resp.StatusCode)
	}

	var parsed ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", errors.New("empty assistant response")
	}
	return parsed.Message.Content, nil
}

// CheckServer probes the tags endpoint with a short deadline so the UI can
// show availability without stalling.
func (a *Assistant) CheckServer() bool {
	if a == nil {
		return false
	}
	client := &http.Client{Timeout: 2 * time.Second, Transport: a.client.Transport}
	resp, err := client.Get(a.baseURL + "/api/tags")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
