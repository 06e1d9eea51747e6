// Package api provides the client for the streaming chat backend.
package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/streamchat/internal/models"
)

// ClientInterface is the surface the chat view and commands depend on
type ClientInterface interface {
	StreamChat(ctx context.Context, message string, history []models.Message) (<-chan StreamEvent, error)
	UploadFile(ctx context.Context, filePath string) (*UploadResult, error)
	UploadFromReader(ctx context.Context, reader io.Reader, fileName string) (*UploadResult, error)
	Close()
}

// Client talks to the chat and upload endpoints
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	chatPath   string
	uploadPath string
	timeout    time.Duration
	logger     *zap.Logger
	newID      func() string
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend origin
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithChatPath sets the chat endpoint path
func WithChatPath(path string) ClientOption {
	return func(c *Client) {
		c.chatPath = path
	}
}

// WithUploadPath sets the upload endpoint path
func WithUploadPath(path string) ClientOption {
	return func(c *Client) {
		c.uploadPath = path
	}
}

// WithTimeout bounds each request, streamed body included. Zero disables the limit.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient injects the HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:    models.DefaultBaseURL,
		chatPath:   models.DefaultChatPath,
		uploadPath: models.DefaultUploadPath,
		logger:     zap.NewNop(),
		newID:      func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutMilliseconds(int(client.timeout / time.Millisecond)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// ChatURL returns the absolute chat endpoint
func (c *Client) ChatURL() string {
	return joinURL(c.baseURL, c.chatPath)
}

// UploadURL returns the absolute upload endpoint
func (c *Client) UploadURL() string {
	return joinURL(c.baseURL, c.uploadPath)
}

// Close releases idle connections; later requests fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
