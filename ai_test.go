package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func assistantWithClient(client *http.Client) *Assistant {
	assistant := NewAssistant("http://localhost:11434", "gemma3")
	assistant.client = client
	return assistant
}

func TestNewAssistantDefaults(t *testing.T) {
	if NewAssistant("", "gemma3") != nil {
		t.Fatalf("expected nil assistant for empty url")
	}
	assistant := NewAssistant("http://localhost:11434/", "")
	if assistant.baseURL != "http://localhost:11434" {
		t.Fatalf("expected trimmed base url, got %q", assistant.baseURL)
	}
	if assistant.model != "gemma3" {
		t.Fatalf("expected default model, got %q", assistant.model)
	}
}

func TestSendMessage(t *testing.T) {
	var captured *http.Request
	var capturedBody []byte
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		capturedBody, _ = io.ReadAll(r.Body)
		return newResponse(http.StatusOK, `{"message":{"role":"assistant","content":"hello there"},"done":true}`, nil, r), nil
	})}
	assistant := assistantWithClient(client)

	reply, err := assistant.SendMessage([]ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if reply != "hello there" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if captured.URL.Path != "/api/chat" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}

	var sent ollamaChatRequest
	if err := json.Unmarshal(capturedBody, &sent); err != nil {
		t.Fatalf("request body not json: %v", err)
	}
	if sent.Stream {
		t.Fatalf("expected streaming disabled")
	}
	if sent.Model != "gemma3" {
		t.Fatalf("unexpected model %q", sent.Model)
	}
}

func TestSendMessageErrors(t *testing.T) {
	var nilAssistant *Assistant
	if _, err := nilAssistant.SendMessage([]ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected error from nil assistant")
	}

	assistant := assistantWithClient(clientForResponse(http.StatusOK, `{}`, nil))
	if _, err := assistant.SendMessage(nil); err == nil {
		t.Fatalf("expected error for empty messages")
	}

	assistant = assistantWithClient(clientForResponse(http.StatusInternalServerError, "boom", nil))
	if _, err := assistant.SendMessage([]ChatMessage{{Role: "user", Content: "hi"}}); err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected http status error, got %v", err)
	}

	assistant = assistantWithClient(clientForResponse(http.StatusOK, `{"message":{"role":"assistant","content":"  "}}`, nil))
	if _, err := assistant.SendMessage([]ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected empty reply error")
	}

	assistant = assistantWithClient(&http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})})
	if _, err := assistant.SendMessage([]ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestCheckServer(t *testing.T) {
	var nilAssistant *Assistant
	if nilAssistant.CheckServer() {
		t.Fatalf("nil assistant should report unavailable")
	}

	assistant := assistantWithClient(clientForResponse(http.StatusOK, `{"models":[]}`, nil))
	if !assistant.CheckServer() {
		t.Fatalf("expected available server")
	}

	assistant = assistantWithClient(clientForResponse(http.StatusServiceUnavailable, "", nil))
	if assistant.CheckServer() {
		t.Fatalf("expected unavailable on 503")
	}
}
