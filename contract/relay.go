// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RelayClient sends application calls through a signing relay (the wallet
// bridge). The relay owns keys and transaction assembly; this client only
// names the method and its arguments.
type RelayClient struct {
	baseURL string
	appID   uint64
	token   string
	http    *http.Client
}

func NewRelayClient(baseURL string, appID uint64, token string, timeout time.Duration) *RelayClient {
	return &RelayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		appID:   appID,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type callRequest struct {
	Sender     string   `json:"sender"`
	Method     string   `json:"method"`
	OnComplete string   `json:"on_complete,omitempty"`
	Args       []string `json:"args"` // base64
}

type callResponse struct {
	TxID   string `json:"tx_id"`
	Return string `json:"return"`
	Error  string `json:"error"`
}

type localStateResponse struct {
	OptedIn    bool   `json:"opted_in"`
	BallotIPFS string `json:"ballot_ipfs"` // base64
	Verified   *int   `json:"verified"`
}

func (c *RelayClient) Register(ctx context.Context, sender string) (Receipt, error) {
	if sender == "" {
		return Receipt{}, ErrNoSender
	}
	return c.call(ctx, callRequest{
		Sender:     sender,
		Method:     MethodRegister,
		OnComplete: "optin",
		Args:       []string{},
	})
}

// CastBallot passes the CID as the UTF-8 bytes argument of cast_ballot.
func (c *RelayClient) CastBallot(ctx context.Context, sender, cid string) (Receipt, error) {
	if sender == "" {
		return Receipt{}, ErrNoSender
	}
	if cid == "" {
		return Receipt{}, ErrEmptyCID
	}
	return c.call(ctx, callRequest{
		Sender: sender,
		Method: MethodCastBallot,
		Args:   []string{base64.StdEncoding.EncodeToString([]byte(cid))},
	})
}

func (c *RelayClient) BallotOf(ctx context.Context, sender string) (BallotRecord, bool, error) {
	endpoint := fmt.Sprintf("%s/v1/apps/%d/accounts/%s/local-state", c.baseURL, c.appID, url.PathEscape(sender))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return BallotRecord{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return BallotRecord{}, false, fmt.Errorf("failed to reach relay: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return BallotRecord{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return BallotRecord{}, false, fmt.Errorf("relay local-state error %d: %s", resp.StatusCode, body)
	}

	var out localStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return BallotRecord{}, false, fmt.Errorf("failed to decode local state: %w", err)
	}
	if !out.OptedIn || out.Verified == nil {
		return BallotRecord{}, false, nil
	}
	raw, err := base64.StdEncoding.DecodeString(out.BallotIPFS)
	if err != nil {
		return BallotRecord{}, false, fmt.Errorf("failed to decode ballot_ipfs: %w", err)
	}
	return BallotRecord{CID: string(raw), Verified: *out.Verified == 1}, true, nil
}

func (c *RelayClient) call(ctx context.Context, in callRequest) (Receipt, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to encode call: %w", err)
	}

	endpoint := c.baseURL + "/v1/apps/" + strconv.FormatUint(c.appID, 10) + "/call"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to reach relay: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to read relay response: %w", err)
	}

	var out callResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		return Receipt{}, fmt.Errorf("%s rejected (%d): %s", in.Method, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return Receipt{}, fmt.Errorf("failed to decode relay response: %w", decodeErr)
	}

	slog.Info("app call sent", "app_id", c.appID, "method", in.Method, "tx_id", out.TxID)
	return Receipt{TxID: out.TxID, Message: out.Return}, nil
}

func (c *RelayClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
