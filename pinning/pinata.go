// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

const (
	DefaultAPIURL     = "https://api.pinata.cloud"
	DefaultGatewayURL = "https://gateway.pinata.cloud"
	pinJSONPath       = "/pinning/pinJSONToIPFS"
)

var (
	ErrMissingJWT = errors.New("pinata JWT is not configured")
	ErrInvalidCID = errors.New("invalid content identifier")
)

// Pinner stores a JSON document and returns its content identifier.
type Pinner interface {
	PinJSON(ctx context.Context, name string, content any) (string, error)
}

type pinRequest struct {
	Content  any         `json:"pinataContent"`
	Metadata pinMetadata `json:"pinataMetadata"`
}

type pinMetadata struct {
	Name string `json:"name,omitempty"`
}

// PinResponse is Pinata's pinJSONToIPFS reply.
type PinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// Client pins documents through the Pinata API.
type Client struct {
	apiURL string
	jwt    string
	http   *http.Client
}

func NewClient(apiURL, jwt string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		jwt:    jwt,
		http:   &http.Client{Timeout: timeout},
	}
}

// PinJSON uploads content and returns the CID Pinata assigned to it.
func (c *Client) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if c.jwt == "" {
		return "", ErrMissingJWT
	}

	body, err := json.Marshal(pinRequest{Content: content, Metadata: pinMetadata{Name: name}})
	if err != nil {
		return "", fmt.Errorf("failed to encode pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+pinJSONPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach pinata: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Pinata error %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	var out PinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode pinata response: %w", err)
	}

	info, err := DescribeCID(out.IpfsHash)
	if err != nil {
		return "", err
	}

	slog.Info("document pinned",
		"cid", out.IpfsHash,
		"cid_version", info.Version,
		"hash", info.HashName,
		"size", humanize.Bytes(uint64(max(out.PinSize, 0))),
		"request_size", humanize.Bytes(uint64(len(body))),
	)

	return out.IpfsHash, nil
}

// CIDInfo summarizes a parsed content identifier.
type CIDInfo struct {
	Version  uint64
	Codec    uint64
	HashName string
}

// DescribeCID parses s as an IPFS CID.
func DescribeCID(s string) (CIDInfo, error) {
	if s == "" {
		return CIDInfo{}, fmt.Errorf("%w: empty", ErrInvalidCID)
	}
	id, err := cid.Decode(s)
	if err != nil {
		return CIDInfo{}, fmt.Errorf("%w: %q: %v", ErrInvalidCID, s, err)
	}
	mh, err := multihash.Decode(id.Hash())
	if err != nil {
		return CIDInfo{}, fmt.Errorf("%w: %q: %v", ErrInvalidCID, s, err)
	}
	return CIDInfo{
		Version:  id.Version(),
		Codec:    id.Type(),
		HashName: mh.Name,
	}, nil
}
