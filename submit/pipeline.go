// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/contract"
	"github.com/danielhkuo/quickly-rank/pinning"
	"github.com/danielhkuo/quickly-rank/proof"
)

type Step string

const (
	StepValidate Step = "validate"
	StepProof    Step = "proof"
	StepPin      Step = "pin"
	StepCast     Step = "cast"
)

var (
	ErrIncomplete  = errors.New("ballot is incomplete")
	ErrInFlight    = errors.New("a submission is already in progress")
	ErrAlreadySent = errors.New(contract.MsgAlreadySent)
)

// StepError reports which step of the pipeline failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Ballot is a completed board read out for submission.
type Ballot struct {
	Ranking []int // candidate keys, most preferred first
	Order   []int // candidate grid indices, same order
}

// Document is the JSON pinned to IPFS.
type Document struct {
	Ranking   []int        `json:"ranking"`
	Proof     *proof.Parts `json:"proof,omitempty"`
	SetupSeed uint64       `json:"setup_seed,omitempty"`
	ProofSeed uint64       `json:"proof_seed,omitempty"`
}

type Result struct {
	CID     string `json:"cid"`
	TxID    string `json:"tx_id"`
	Message string `json:"message"`
	Proved  bool   `json:"proved"`
}

// Pipeline runs validate → proof → pin → cast. Prover may be nil, in which
// case the document carries the ranking only.
type Pipeline struct {
	Prover    proof.Generator
	Pinner    pinning.Pinner
	Election  contract.Election
	SetupSeed uint64

	// NewSeed draws the per-ballot proof seed. Defaults to auth.GenerateSeed.
	NewSeed func() (uint64, error)
}

// Submit sends one ballot. On error nothing about the ballot is changed and
// the caller may retry.
func (p *Pipeline) Submit(ctx context.Context, sender string, b Ballot) (Result, error) {
	start := time.Now()

	if len(b.Ranking) == 0 || len(b.Ranking) != len(b.Order) {
		return Result{}, &StepError{Step: StepValidate, Err: ErrIncomplete}
	}
	if sender == "" {
		return Result{}, &StepError{Step: StepValidate, Err: contract.ErrNoSender}
	}

	doc := Document{Ranking: b.Ranking}

	if p.Prover != nil {
		parts, proofSeed, err := p.prove(ctx, b.Order)
		if err != nil {
			return Result{}, &StepError{Step: StepProof, Err: err}
		}
		doc.Proof = &parts
		doc.SetupSeed = p.SetupSeed
		doc.ProofSeed = proofSeed
	}

	cid, err := p.Pinner.PinJSON(ctx, "ballot", doc)
	if err != nil {
		return Result{}, &StepError{Step: StepPin, Err: err}
	}

	receipt, err := p.Election.CastBallot(ctx, sender, cid)
	if err != nil {
		return Result{}, &StepError{Step: StepCast, Err: err}
	}
	if receipt.Message == contract.MsgAlreadySent {
		return Result{}, &StepError{Step: StepCast, Err: ErrAlreadySent}
	}

	slog.Info("ballot submitted",
		"sender", auth.EllipseAddress(sender),
		"cid", cid,
		"tx_id", receipt.TxID,
		"proved", doc.Proof != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Result{
		CID:     cid,
		TxID:    receipt.TxID,
		Message: receipt.Message,
		Proved:  doc.Proof != nil,
	}, nil
}

func (p *Pipeline) prove(ctx context.Context, order []int) (proof.Parts, uint64, error) {
	newSeed := p.NewSeed
	if newSeed == nil {
		newSeed = auth.GenerateSeed
	}
	seed, err := newSeed()
	if err != nil {
		return proof.Parts{}, 0, err
	}

	perm := make([]uint32, len(order))
	for i, idx := range order {
		if idx < 0 {
			return proof.Parts{}, 0, ErrIncomplete
		}
		perm[i] = uint32(idx)
	}

	parts, err := p.Prover.Generate(ctx, proof.GenerateRequest{
		Ballot:    perm,
		SetupSeed: p.SetupSeed,
		ProofSeed: seed,
	})
	if err != nil {
		return proof.Parts{}, 0, err
	}

	ok, err := p.Prover.Verify(ctx, parts, p.SetupSeed, seed)
	if err != nil {
		return proof.Parts{}, 0, err
	}
	if !ok {
		return proof.Parts{}, 0, proof.ErrRejected
	}
	return parts, seed, nil
}
