package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mgoltzsche/ai-assistant-chat/internal/request"
)

const (
	DefaultTimeout          = 90 * time.Second
	DefaultMaxResponseBytes = 32 << 20
)

type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// RawResponse is a successful response as received from the server.
type RawResponse struct {
	ContentType string
	Body        []byte
}

// Error is returned for every failure to obtain a response.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error communicating with server: %s", e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

type Client struct {
	URL              string
	Client           HTTPDoer
	MaxResponseBytes int64
}

// NewClient creates a client posting to the given endpoint with a bounded timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Send posts the request once.
// Any failure is returned as *Error.
func (c *Client) Send(ctx context.Context, r request.OutboundRequest) (RawResponse, error) {
	body, contentType, err := r.Multipart()
	if err != nil {
		return RawResponse{}, &Error{Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return RawResponse{}, &Error{Cause: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.send(req)
	if err != nil {
		return RawResponse{}, &Error{Cause: err}
	}

	return resp, nil
}

func (c *Client) send(req *http.Request) (RawResponse, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return RawResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RawResponse{}, fmt.Errorf("%s for url: %s", resp.Status, req.URL)
	}

	maxBytes := c.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return RawResponse{}, fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > maxBytes {
		return RawResponse{}, fmt.Errorf("response body exceeds %d bytes", maxBytes)
	}

	return RawResponse{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
