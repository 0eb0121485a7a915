package main

import (
	"bytes"
	"io"
	"net/http"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newResponse(status int, body string, headers map[string]string, req *http.Request) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
		Request:    req,
	}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func clientForResponse(status int, body string, headers map[string]string) *http.Client {
	return &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return newResponse(status, body, headers, r), nil
	})}
}

// recordingClient replies with a fixed body and remembers every request it
// served, so tests can assert on URLs and headers.
type recordingClient struct {
	status   int
	body     string
	requests []*http.Request
}

func (c *recordingClient) client() *http.Client {
	return &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		c.requests = append(c.requests, r)
		return newResponse(c.status, c.body, map[string]string{"content-type": "application/rss+xml"}, r), nil
	})}
}
