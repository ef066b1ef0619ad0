package hcloud

import (
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

const (
	defaultRetryAttempts = 5
	defaultRetryDelay    = 2 * time.Second
)

// Client implements provisioner.InstanceProvider on the Hetzner Cloud
// API.
type Client struct {
	client *hcloud.Client

	serverType string
	location   string
	labels     map[string]string

	retryAttempts int
	retryDelay    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHCloudClient replaces the underlying API client (used by tests to
// point at a mock server).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithServerType sets the server type new instances are created with.
func WithServerType(serverType string) ClientOption {
	return func(c *Client) { c.serverType = serverType }
}

// WithLocation sets the datacenter location for new instances.
func WithLocation(location string) ClientOption {
	return func(c *Client) { c.location = location }
}

// WithLabels sets labels attached to every created instance.
func WithLabels(labels map[string]string) ClientOption {
	return func(c *Client) { c.labels = labels }
}

// WithRetry tunes the create retry budget.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewClient builds a Client authenticated with the given API token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client:        hcloud.NewClient(hcloud.WithToken(token)),
		serverType:    "cx22",
		location:      "fsn1",
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
