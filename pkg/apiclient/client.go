// Package apiclient is a typed REST client for the clinic admin API.
package apiclient

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// Config holds connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// CredentialStore supplies the bearer token. It is consulted on every request,
// never cached by the client.
type CredentialStore interface {
	Token() string
	Clear()
}

// MemoryStore is a process-wide CredentialStore.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore seeds a store with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Token returns the current token.
func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set replaces the token.
func (s *MemoryStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear forgets the token.
func (s *MemoryStore) Clear() { s.Set("") }

// Client wraps a resty client with credential decoration and 401 handling.
type Client struct {
	http           *resty.Client
	creds          CredentialStore
	onUnauthorized func()
}

// New builds a client. onUnauthorized runs once for every 401 response after
// the credential store has been cleared; it may be nil.
func New(cfg Config, creds CredentialStore, onUnauthorized func()) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if creds == nil {
		creds = NewMemoryStore("")
	}

	c := &Client{creds: creds, onUnauthorized: onUnauthorized}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	c.http.OnBeforeRequest(c.authorize)
	c.http.OnAfterResponse(c.checkUnauthorized)
	return c
}

// authorize decorates each outgoing request with the token current at send time.
func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	if token := c.creds.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

func (c *Client) checkUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	c.creds.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return nil
}

// Resty exposes the underlying client for callers that need raw access.
func (c *Client) Resty() *resty.Client { return c.http }
