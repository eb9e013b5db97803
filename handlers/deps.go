// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"

	"github.com/danielhkuo/quickly-rank/contract"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/submit"
)

// Submitter runs a completed ballot through the submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, sender string, b submit.Ballot) (submit.Result, error)
}

// DocumentFetcher reads pinned documents back from IPFS.
type DocumentFetcher interface {
	FetchJSON(ctx context.Context, cid string, v any) error
	URLFor(cid string) string
}

// SelfChecker is the proof service's health probe.
type SelfChecker interface {
	SelfCheck(ctx context.Context) (string, error)
}

// Deps are the collaborators shared by all handlers. Prover is nil when
// proofs are disabled.
type Deps struct {
	Store     *session.Store
	Submitter Submitter
	Election  contract.Election
	Documents DocumentFetcher
	Prover    SelfChecker
}
