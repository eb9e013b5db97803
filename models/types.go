// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/quickly-rank/board"
)

// Request headers
const (
	HeaderSessionToken = "X-Session-Token"
	HeaderRequestID    = "X-Request-ID"
)

// Request types

// Zero values fall back to the default election: title, candidates and
// one rank per candidate.
type CreateSessionRequest struct {
	Title      string         `json:"title"`
	Candidates map[int]string `json:"candidates"`
	MaxRank    int            `json:"max_rank"`
}

// SelectCellRequest names the row either by grid index (candidate) or by
// candidate key.
type SelectCellRequest struct {
	Candidate *int `json:"candidate,omitempty"`
	Key       *int `json:"key,omitempty"`
	Rank      *int `json:"rank"`
}

// Response types

type CreateSessionResponse struct {
	SessionID    string    `json:"session_id"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Board        BoardView `json:"board"`
}

type SelectCellResponse struct {
	Transition board.Transition `json:"transition"`
	Board      BoardView        `json:"board"`
}

type RegisterResponse struct {
	TxID    string `json:"tx_id"`
	Message string `json:"message"`
}

type SubmitBallotResponse struct {
	CID        string `json:"cid"`
	TxID       string `json:"tx_id"`
	Message    string `json:"message"`
	Proved     bool   `json:"proved"`
	GatewayURL string `json:"gateway_url,omitempty"`
}

type AccountResponse struct {
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`
	Network      string `json:"network"`
	AppID        uint64 `json:"app_id"`
}

type BallotStatusResponse struct {
	Found    bool   `json:"found"`
	CID      string `json:"cid,omitempty"`
	Verified bool   `json:"verified"`
}

// View types

type CandidateView struct {
	Key   int    `json:"key"`
	Label string `json:"label"`
	Rank  *int   `json:"rank"` // nil when unranked
}

// BoardView is the full render state of a session's board.
type BoardView struct {
	Title       string          `json:"title"`
	Candidates  []CandidateView `json:"candidates"`
	Ranks       []*int          `json:"ranks"` // candidate key per rank, nil when empty
	Ordinals    []string        `json:"ordinals"`
	Grid        []board.Row     `json:"grid"`
	Complete    bool            `json:"complete"`
	Ballot      []int           `json:"ballot"`
	Permutation []int           `json:"permutation"`
	Submitting  bool            `json:"submitting"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Step    string `json:"step,omitempty"`
}
