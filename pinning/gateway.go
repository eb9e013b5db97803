// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultRetries = 3
	DefaultBackoff = 750 * time.Millisecond
)

var ErrGateway = errors.New("gateway fetch failed")

// Statuses worth retrying; anything else non-200 fails at once.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooEarly:            true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Gateway reads pinned content back over an IPFS HTTP gateway.
type Gateway struct {
	baseURL string
	token   string
	http    *http.Client

	Retries int
	Backoff time.Duration // multiplied by the attempt number
}

func NewGateway(baseURL, token string, timeout time.Duration) *Gateway {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		Retries: DefaultRetries,
		Backoff: DefaultBackoff,
	}
}

// URLFor returns the gateway URL of a CID, without the access token.
func (g *Gateway) URLFor(cid string) string {
	return g.baseURL + "/ipfs/" + url.PathEscape(cid)
}

// Fetch returns the raw content stored under cid.
func (g *Gateway) Fetch(ctx context.Context, cid string) ([]byte, error) {
	if _, err := DescribeCID(cid); err != nil {
		return nil, err
	}

	endpoint := g.URLFor(cid)
	if g.token != "" {
		endpoint += "?" + url.Values{"pinataGatewayToken": {g.token}}.Encode()
	}

	retries := max(g.Retries, 1)
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		data, retry, err := g.fetchOnce(ctx, endpoint)
		if err == nil {
			return data, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		slog.Warn("gateway fetch failed, retrying", "cid", cid, "attempt", attempt+1, "error", err)

		if attempt == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrGateway, cid, ctx.Err())
		case <-time.After(g.Backoff * time.Duration(attempt+1)):
		}
	}

	return nil, fmt.Errorf("%w: failed to fetch %s: %v", ErrGateway, cid, lastErr)
}

// FetchJSON fetches cid and decodes it into v.
func (g *Gateway) FetchJSON(ctx context.Context, cid string, v any) error {
	raw, err := g.Fetch(ctx, cid)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: failed to parse JSON for %s: %v", ErrGateway, cid, err)
	}
	return nil
}

func (g *Gateway) fetchOnce(ctx context.Context, endpoint string) (data []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrGateway, ctx.Err())
		}
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read gateway response: %w", err)
		}
		return data, false, nil
	}
	if retryableStatus[resp.StatusCode] {
		return nil, true, fmt.Errorf("%d from gateway", resp.StatusCode)
	}

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
	return nil, false, fmt.Errorf("%w: gateway returned %d: %s", ErrGateway, resp.StatusCode, text)
}
