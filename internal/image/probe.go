package image

import (
	"context"
	"fmt"
	"net/http"
)

// Prober checks that a remote URL exists and reports its content type. It is
// a reachability heuristic, not a guarantee: the image can vanish right after
// a successful probe.
type Prober interface {
	Check(ctx context.Context, rawURL string) (contentType string, err error)
}

// HTTPProber probes with a HEAD request, falling back to GET for servers that
// reject HEAD. Anything but a 2xx status fails the probe. No retries.
type HTTPProber struct {
	Client *http.Client
}

func NewProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProber{Client: client}
}

func (p *HTTPProber) Check(ctx context.Context, rawURL string) (string, error) {
	resp, err := p.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return "", err
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		resp, err = p.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			return "", err
		}
		resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	return resp.Header.Get("Content-Type"), nil
}

func (p *HTTPProber) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return p.Client.Do(req)
}
