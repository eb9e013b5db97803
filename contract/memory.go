// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"log/slog"
	"sync"
)

type localState struct {
	cid      string
	hasVote  bool
	verified bool
}

// Memory is an in-process election app for localnet development. It keeps
// the contract's rules: callers must opt in first, and the first ballot
// cast by an account is final.
type Memory struct {
	mu       sync.Mutex
	appID    uint64
	accounts map[string]*localState
}

func NewMemory(appID uint64) *Memory {
	return &Memory{appID: appID, accounts: make(map[string]*localState)}
}

func (m *Memory) Register(ctx context.Context, sender string) (Receipt, error) {
	if sender == "" {
		return Receipt{}, ErrNoSender
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[sender]; ok {
		return Receipt{}, ErrAlreadyRegistered
	}
	m.accounts[sender] = &localState{}

	txID, err := newTxID()
	if err != nil {
		return Receipt{}, err
	}
	slog.Info("localnet opt-in", "app_id", m.appID, "sender", sender, "tx_id", txID)
	return Receipt{TxID: txID}, nil
}

func (m *Memory) CastBallot(ctx context.Context, sender, cid string) (Receipt, error) {
	if sender == "" {
		return Receipt{}, ErrNoSender
	}
	if cid == "" {
		return Receipt{}, ErrEmptyCID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.accounts[sender]
	if !ok {
		return Receipt{}, ErrNotRegistered
	}

	txID, err := newTxID()
	if err != nil {
		return Receipt{}, err
	}
	if state.hasVote {
		return Receipt{TxID: txID, Message: MsgAlreadySent}, nil
	}
	state.cid = cid
	state.hasVote = true
	state.verified = false

	slog.Info("localnet ballot cast", "app_id", m.appID, "sender", sender, "cid", cid, "tx_id", txID)
	return Receipt{TxID: txID, Message: MsgBallotCast}, nil
}

func (m *Memory) BallotOf(ctx context.Context, sender string) (BallotRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.accounts[sender]
	if !ok || !state.hasVote {
		return BallotRecord{}, false, nil
	}
	return BallotRecord{CID: state.cid, Verified: state.verified}, true, nil
}

// newTxID returns a 52 character base32 identifier shaped like an
// Algorand transaction ID.
func newTxID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate tx id: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}
