// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proof

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 20 * time.Second

var ErrRejected = errors.New("proof rejected by verifier")

// Parts is a serialized same-permutation proof. Byte fields are standard
// base64.
type Parts struct {
	Log2N                uint8  `json:"log2_n"`
	CommittedBallot      string `json:"committed_ballot"`
	CommittedPermutation string `json:"committed_permutation"`
	Proof                string `json:"proof"`
}

// Validate checks the encoding without verifying the proof itself.
func (p Parts) Validate() error {
	if _, err := EllFromLog2N(p.Log2N); err != nil {
		return err
	}
	for name, field := range map[string]string{
		"committed_ballot":      p.CommittedBallot,
		"committed_permutation": p.CommittedPermutation,
		"proof":                 p.Proof,
	} {
		if field == "" {
			return fmt.Errorf("proof part %s is empty", name)
		}
		if _, err := base64.StdEncoding.DecodeString(field); err != nil {
			return fmt.Errorf("proof part %s: %w", name, err)
		}
	}
	return nil
}

type GenerateRequest struct {
	Ballot    []uint32 `json:"ballot"`
	SetupSeed uint64   `json:"setup_seed"`
	ProofSeed uint64   `json:"proof_seed"`
}

type generateResponse struct {
	OK    bool    `json:"ok"`
	Error *string `json:"error"`
	Proof *Parts  `json:"proof"`
}

type verifyRequest struct {
	Proof     Parts  `json:"proof"`
	SetupSeed uint64 `json:"setup_seed"`
	ProofSeed uint64 `json:"proof_seed"`
}

type verifyResponse struct {
	OK    bool    `json:"ok"`
	Error *string `json:"error"`
}

// Generator produces a ballot proof and checks proofs it produced.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Parts, error)
	Verify(ctx context.Context, parts Parts, setupSeed, proofSeed uint64) (bool, error)
}

var _ Generator = (*Client)(nil)

// Client talks to the proof microservice.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// Generate validates the ballot locally, then asks the service for a proof.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (Parts, error) {
	if _, err := CheckBallot(req.Ballot); err != nil {
		return Parts{}, err
	}

	var out generateResponse
	if err := c.post(ctx, "/generate", "zk generate", req, &out); err != nil {
		return Parts{}, err
	}
	if !out.OK || out.Proof == nil {
		msg := "unknown error"
		if out.Error != nil && *out.Error != "" {
			msg = *out.Error
		}
		return Parts{}, fmt.Errorf("ZK /generate failed: %s", msg)
	}

	slog.Debug("proof generated", "log2_n", out.Proof.Log2N, "ballot_len", len(req.Ballot))
	return *out.Proof, nil
}

// Verify asks the service to check a proof. A false result with a nil
// error means the service rejected the proof.
func (c *Client) Verify(ctx context.Context, parts Parts, setupSeed, proofSeed uint64) (bool, error) {
	if err := parts.Validate(); err != nil {
		return false, err
	}

	var out verifyResponse
	req := verifyRequest{Proof: parts, SetupSeed: setupSeed, ProofSeed: proofSeed}
	if err := c.post(ctx, "/verify", "zk verify", req, &out); err != nil {
		return false, err
	}
	if out.Error != nil && *out.Error != "" {
		return false, fmt.Errorf("ZK /verify failed: %s", *out.Error)
	}
	return out.OK, nil
}

// SelfCheck calls the service's round-trip diagnostic.
func (c *Client) SelfCheck(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/selfcheck", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.wrapTransport("zk selfcheck", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ZK /selfcheck error %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}

func (c *Client) post(ctx context.Context, path, label string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.wrapTransport(label, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("ZK %s error %d: %s", path, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) wrapTransport(label string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %dms: %w", label, c.timeout.Milliseconds(), err)
	}
	return fmt.Errorf("%s request failed: %w", label, err)
}
