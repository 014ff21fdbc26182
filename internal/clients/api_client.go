package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent without an Authorization header.
type TokenSource interface {
	Token() string
}

type APIClient interface {
	// Do sends body (JSON value or *FormData) to path and decodes the
	// normalized response payload into out. out may be nil.
	Do(ctx context.Context, method, path string, body, out interface{}) error
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Patch(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error

	SetTokenSource(tokens TokenSource)
	BaseURL() string
}

type apiHTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

func NewAPIHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) APIClient {
	return &apiHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *apiHTTPClient) SetTokenSource(tokens TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

func (c *apiHTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *apiHTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *apiHTTPClient) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *apiHTTPClient) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *apiHTTPClient) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *apiHTTPClient) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *apiHTTPClient) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *apiHTTPClient) Do(ctx context.Context, method, path string, body, out interface{}) error {
	if method == "" {
		method = http.MethodGet
	}
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	reqBody, contentType, err := encodeBody(body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to encode %s %s body: %v", method, path, err)
		return fmt.Errorf("failed to prepare request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		c.log.Errorf("APIClient: Failed to create %s request for %s: %v", method, url, err)
		return fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	entry.Debugf("APIClient: Sending request to %s", url)

	resp, err := c.client.Do(req)
	if err != nil {
		entry.Errorf("APIClient: Failed to execute request: %v", err)
		return &RequestError{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.Errorf("APIClient: Failed to read response body: %v", err)
		return &RequestError{Kind: KindTransport, Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(raw)
		if resp.StatusCode >= 500 {
			entry.Errorf("APIClient: Request failed with status %d. Response body: %s", resp.StatusCode, string(raw))
		} else {
			entry.Warnf("APIClient: Request failed with status %d: %s", resp.StatusCode, msg)
		}
		return &RequestError{
			Kind:       KindStatus,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	entry.Debugf("APIClient: Request completed with status %d", resp.StatusCode)

	if out == nil {
		return nil
	}
	payload := unwrapData(raw)
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		entry.Errorf("APIClient: Failed to decode response: %v", err)
		return &RequestError{Kind: KindDecode, Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *FormData:
		if b == nil {
			return nil, "", nil
		}
		buf, contentType, err := b.encode()
		if err != nil {
			return nil, "", err
		}
		return buf, contentType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// unwrapData normalizes a response body: an object carrying a non-null
// "data" (or "Data") member yields that member, anything else is returned
// whole.
func unwrapData(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	for _, key := range []string{"data", "Data"} {
		if data, ok := envelope[key]; ok && string(bytes.TrimSpace(data)) != "null" {
			return data
		}
	}
	return trimmed
}
