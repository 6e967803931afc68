// Package remote is the agent's HTTP client for the ecocycle API. It
// classifies failures so the sync engine can tell a rejected payload from
// an unreachable server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Failure classes. Errors returned by the client wrap exactly one of these.
var (
	// ErrValidation means the server understood and rejected the payload
	// (4xx). Retrying the same payload will not help.
	ErrValidation = errors.New("server rejected payload")

	// ErrServer means the server failed to process the request (5xx).
	ErrServer = errors.New("server error")

	// ErrNetwork means the request never got an HTTP response.
	ErrNetwork = errors.New("network unreachable")

	// ErrUpload means an image upload failed before the dependent
	// complaint was attempted.
	ErrUpload = errors.New("image upload failed")
)

// WasteCollectionPayload is the body of POST /api/waste-collections.
type WasteCollectionPayload struct {
	UserID           string  `json:"userId"`
	WasteType        string  `json:"wasteType"`
	Quantity         float64 `json:"quantity"`
	PricePerKg       float64 `json:"pricePerKg"`
	CollectionZone   string  `json:"collectionZone"`
	AvailableForSale bool    `json:"availableForSale"`
	VoiceDescription *string `json:"voiceDescription,omitempty"`
}

// ComplaintPayload is the body of POST /api/complaints. ImageURL is the
// hosted URL obtained from UploadImage, never inline image data.
type ComplaintPayload struct {
	UserID      string  `json:"userId"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Client talks to one ecocycle server on behalf of one authenticated user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for baseURL, attaching token as a Bearer
// credential on every request.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateWasteCollection replays one queued collection to the server.
func (c *Client) CreateWasteCollection(ctx context.Context, payload WasteCollectionPayload) error {
	return c.postJSON(ctx, "/api/waste-collections", payload)
}

// CreateComplaint replays one queued complaint to the server.
func (c *Client) CreateComplaint(ctx context.Context, payload ComplaintPayload) error {
	return c.postJSON(ctx, "/api/complaints", payload)
}

// UploadImage sends inline-encoded image data to the image host and returns
// the hosted URL. Failures wrap ErrUpload.
func (c *Client) UploadImage(ctx context.Context, imageData string) (string, error) {
	body, err := json.Marshal(map[string]string{"image_data": imageData})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/uploads/images", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("%w: response carried no url", ErrUpload)
	}
	return result.URL, nil
}

// Health probes GET /health. A nil error means the server answered 2xx.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: health status %d", ErrServer, resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		return fmt.Errorf("%w: POST %s status %d", ErrValidation, path, resp.StatusCode)
	default:
		return fmt.Errorf("%w: POST %s status %d", ErrServer, path, resp.StatusCode)
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
