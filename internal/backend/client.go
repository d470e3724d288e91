package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// StatusError reports a non-2xx response from the cart service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cart service returned status %d", e.StatusCode)
}

// TokenProvider returns the current bearer token, or "" when the session has
// none. It is read per request so token refresh happens outside this client.
type TokenProvider func() string

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenProvider
}

// NewHTTPClient builds a client for the service at baseURL. httpClient may be
// nil, in which case http.DefaultClient is used.
func NewHTTPClient(baseURL string, httpClient *http.Client, token TokenProvider) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &HTTPClient{baseURL: baseURL, http: httpClient, token: token}
}

func (c *HTTPClient) GetCart(ctx context.Context) (*CartResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/cart", nil)
	if err != nil {
		var statusErr *StatusError
		// A customer with no cart yet reads as an empty cart.
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return EmptyCart(), nil
		}
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) AddToCart(ctx context.Context, in MutationInput) (*CartResponse, error) {
	return c.do(ctx, http.MethodPost, "/v1/cart/items", in)
}

func (c *HTTPClient) UpdateCart(ctx context.Context, in MutationInput) (*CartResponse, error) {
	return c.do(ctx, http.MethodPatch, "/v1/cart/items", in)
}

func (c *HTTPClient) RemoveFromCart(ctx context.Context, productID string) (*CartResponse, error) {
	return c.do(ctx, http.MethodDelete, "/v1/cart/items/"+url.PathEscape(productID), nil)
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/v1/cart", nil)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}) (*CartResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var cart CartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &cart, nil
}
