package cartview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client speaks the cart store's JSON contract over HTTP. A request that gets
// no decodable response comes back as a TransportError; the caller decides
// whether to resynchronize. No retries, no request timeout of its own: a hung
// call resolves whenever the underlying http.Client gives up.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, token: token}
}

func (c *Client) Update(ctx context.Context, cartID string, quantity int) (*Response, error) {
	return c.post(ctx, "/api/cart/update", map[string]any{
		"cart_id":  cartID,
		"quantity": quantity,
	})
}

func (c *Client) Remove(ctx context.Context, cartID string) (*Response, error) {
	return c.post(ctx, "/api/cart/remove", map[string]any{
		"cart_id": cartID,
	})
}

func (c *Client) Clear(ctx context.Context) (*Response, error) {
	return c.post(ctx, "/api/cart/clear", map[string]any{})
}

func (c *Client) Fetch(ctx context.Context) ([]Line, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart/", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch cart: unexpected status %d", resp.StatusCode)
	}

	var lines []Line
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		return nil, &TransportError{Err: err}
	}
	return lines, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (*Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: err}
	}
	return &out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
