// Package api implements the HTTP client for the data-analysis agent backend.
// This file provides the client for calling the backend with timeouts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// Client communicates with the data-analysis agent backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL. A timeout of zero
// means no client-side timeout; a timed-out request surfaces as a transport
// error.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload sends a file as multipart form data to POST /upload and returns the
// raw upload response. sampleRows controls how many rows the backend
// materializes for the preview. Wire decoding only; interpreting success and
// building the dataset binding is the caller's job.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, sampleRows int) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("api: building multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("api: reading upload file: %w", err)
	}
	if err := mw.WriteField("sample_rows", strconv.Itoa(sampleRows)); err != nil {
		return nil, fmt.Errorf("api: writing sample_rows field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("api: finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("api: creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Messages fetches the full server-side transcript from GET /messages.
func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/messages", nil)
	if err != nil {
		return nil, fmt.Errorf("api: creating messages request: %w", err)
	}

	var out messagesResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Chat sends one user message to POST /chat and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/chat", chatRequest{Message: message})
	if err != nil {
		return "", err
	}

	var out chatResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Profile fetches the stored personal facts from GET /profile. A backend with
// no profile yet yields an empty list, not an error.
func (c *Client) Profile(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("api: creating profile request: %w", err)
	}

	var out profileResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Profile == nil || out.Profile.Personal == nil {
		return []string{}, nil
	}
	return out.Profile.Personal.InfoList, nil
}

// SaveFact appends one fact to the profile via POST /profile. Any 2xx is
// success; the response body is not required.
func (c *Client) SaveFact(ctx context.Context, value string) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/profile", saveFactRequest{
		Category: "personal",
		Key:      "name",
		Value:    value,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Reset asks the backend to discard all held state (dataset, transcript,
// profile) via DELETE /clear-data.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/clear-data", nil)
	if err != nil {
		return fmt.Errorf("api: creating reset request: %w", err)
	}
	return c.do(req, nil)
}

// jsonRequest builds a request with a JSON-encoded body.
func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("api: encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("api: creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request. Non-2xx responses become a *StatusError carrying
// any structured detail from the body. On 2xx the body is decoded into out
// when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}
