// Package padoca is the REST client for the padoca backend API.
//
// Every call that needs a bearer token takes an explicit Auth value; the
// client itself holds no logged-in state.
package padoca

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

	"github.com/ivens03/microservices-padoca/prometheus"
	"go.uber.org/zap"
)

var (
	// ErrTransport wraps connectivity failures
	ErrTransport = errors.New("padoca backend unreachable")
	// ErrDecode wraps response bodies that do not match the expected shape
	ErrDecode = errors.New("malformed backend response")
	// ErrUnauthenticated is returned before sending a call that needs a token when none is available
	ErrUnauthenticated = errors.New("no session token for authenticated call")
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(e.Body))
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Auth supplies the bearer token of an explicit session
type Auth interface {
	BearerToken() string
}

// Token is a bare bearer token usable as Auth
type Token string

// BearerToken implements Auth
func (t Token) BearerToken() string { return string(t) }

// Client talks to the padoca REST API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a new backend client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// call describes one backend request
type call struct {
	operation   string
	method      string
	path        string
	auth        Auth
	needsAuth   bool
	body        io.Reader
	contentType string
}

func (c *Client) jsonCall(operation, method, path string, auth Auth, payload any) (call, error) {
	cl := call{operation: operation, method: method, path: path, auth: auth, needsAuth: true}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return cl, fmt.Errorf("encode %s request: %w", operation, err)
		}
		cl.body = bytes.NewReader(data)
		cl.contentType = "application/json"
	}
	return cl, nil
}

// do sends the call and decodes a JSON answer into out when out is not nil
func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	done := prometheus.TrackBackendCall(cl.operation)
	defer func() { done(err) }()

	log := c.Logger.With(
		zap.String("operation", cl.operation),
		zap.String("method", cl.method),
		zap.String("path", cl.path))

	req, err := http.NewRequestWithContext(ctx, cl.method, c.BaseURL+cl.path, cl.body)
	if err != nil {
		log.Error("Failed to create request", zap.Error(err))
		return err
	}

	if cl.needsAuth {
		if cl.auth == nil || cl.auth.BearerToken() == "" {
			log.Warn("Authenticated call attempted without a session")
			return ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+cl.auth.BearerToken())
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Making API call")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Error("API request failed", zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return fmt.Errorf("%w: reading %s %s: %v", ErrTransport, cl.method, cl.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("API request returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)))
		return &APIError{Method: cl.method, Path: cl.path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.Error("Failed to parse response", zap.Error(err))
			return fmt.Errorf("%w: %s %s: %v", ErrDecode, cl.method, cl.path, err)
		}
	}

	log.Debug("API call successful", zap.Int("status", resp.StatusCode))
	return nil
}

// get fetches a JSON resource, optionally authenticated
func (c *Client) get(ctx context.Context, operation, path string, auth Auth, needsAuth bool, out any) error {
	return c.do(ctx, call{
		operation: operation,
		method:    http.MethodGet,
		path:      path,
		auth:      auth,
		needsAuth: needsAuth,
	}, out)
}

// send issues an authenticated JSON mutation
func (c *Client) send(ctx context.Context, operation, method, path string, auth Auth, payload, out any) error {
	cl, err := c.jsonCall(operation, method, path, auth, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, cl, out)
}
