// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"errors"
)

// Return values of the election contract's cast_ballot method.
const (
	MsgBallotCast  = "Ballot cast!"
	MsgAlreadySent = "Ballot already sent!"
)

const (
	MethodRegister   = "register"
	MethodCastBallot = "cast_ballot"
)

var (
	ErrNoSender          = errors.New("sender address required")
	ErrEmptyCID          = errors.New("ballot CID required")
	ErrNotRegistered     = errors.New("account has not opted in to the election")
	ErrAlreadyRegistered = errors.New("account already opted in to the election")
)

// Receipt is the outcome of one application call.
type Receipt struct {
	TxID    string `json:"tx_id"`
	Message string `json:"message,omitempty"`
}

// BallotRecord is the caller's local state in the election app.
type BallotRecord struct {
	CID      string `json:"cid"`
	Verified bool   `json:"verified"`
}

// Election is the on-chain election application as seen by a voter.
type Election interface {
	Register(ctx context.Context, sender string) (Receipt, error)
	CastBallot(ctx context.Context, sender, cid string) (Receipt, error)
	BallotOf(ctx context.Context, sender string) (BallotRecord, bool, error)
}
