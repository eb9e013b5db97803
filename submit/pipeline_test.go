// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submit

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/danielhkuo/quickly-rank/contract"
	"github.com/danielhkuo/quickly-rank/proof"
)

const sender = "VOTERAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type fakeProver struct {
	got      proof.GenerateRequest
	err      error
	reject   bool
	verified []uint64 // proof seeds seen by Verify
}

func (f *fakeProver) Generate(ctx context.Context, req proof.GenerateRequest) (proof.Parts, error) {
	f.got = req
	if f.err != nil {
		return proof.Parts{}, f.err
	}
	return proof.Parts{Log2N: 3, CommittedBallot: "YQ==", CommittedPermutation: "Yg==", Proof: "Yw=="}, nil
}

func (f *fakeProver) Verify(ctx context.Context, parts proof.Parts, setupSeed, proofSeed uint64) (bool, error) {
	f.verified = append(f.verified, proofSeed)
	return !f.reject, nil
}

type fakePinner struct {
	docs []any
	err  error
}

func (f *fakePinner) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.docs = append(f.docs, content)
	return "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", nil
}

func registeredElection(c *qt.C) *contract.Memory {
	m := contract.NewMemory(1002)
	_, err := m.Register(context.Background(), sender)
	c.Assert(err, qt.IsNil)
	return m
}

var ballot = Ballot{Ranking: []int{11, 10, 12, 13}, Order: []int{1, 0, 2, 3}}

func TestSubmitWithProof(t *testing.T) {
	c := qt.New(t)
	prover := &fakeProver{}
	pinner := &fakePinner{}
	election := registeredElection(c)

	p := &Pipeline{
		Prover:    prover,
		Pinner:    pinner,
		Election:  election,
		SetupSeed: 42,
		NewSeed:   func() (uint64, error) { return 7, nil },
	}

	res, err := p.Submit(context.Background(), sender, ballot)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Proved, qt.IsTrue)
	c.Assert(res.Message, qt.Equals, contract.MsgBallotCast)
	c.Assert(res.TxID, qt.Not(qt.Equals), "")

	// the prover sees grid indices, the pinned document carries keys
	c.Assert(prover.got, qt.DeepEquals, proof.GenerateRequest{Ballot: []uint32{1, 0, 2, 3}, SetupSeed: 42, ProofSeed: 7})
	c.Assert(prover.verified, qt.DeepEquals, []uint64{7})
	c.Assert(pinner.docs, qt.HasLen, 1)
	doc := pinner.docs[0].(Document)
	c.Assert(doc.Ranking, qt.DeepEquals, []int{11, 10, 12, 13})
	c.Assert(doc.Proof, qt.IsNotNil)
	c.Assert(doc.ProofSeed, qt.Equals, uint64(7))

	rec, found, err := election.BallotOf(context.Background(), sender)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(rec.CID, qt.Equals, res.CID)
}

func TestSubmitWithoutProver(t *testing.T) {
	c := qt.New(t)
	pinner := &fakePinner{}
	p := &Pipeline{Pinner: pinner, Election: registeredElection(c)}

	res, err := p.Submit(context.Background(), sender, ballot)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Proved, qt.IsFalse)
	c.Assert(pinner.docs[0].(Document).Proof, qt.IsNil)
}

func TestSubmitStepErrors(t *testing.T) {
	c := qt.New(t)
	boom := errors.New("boom")

	tests := []struct {
		name     string
		pipeline func(c *qt.C) *Pipeline
		sender   string
		ballot   Ballot
		step     Step
		target   error
	}{
		{
			name:     "incomplete ballot",
			pipeline: func(c *qt.C) *Pipeline { return &Pipeline{Pinner: &fakePinner{}, Election: registeredElection(c)} },
			sender:   sender,
			ballot:   Ballot{Ranking: []int{}, Order: []int{}},
			step:     StepValidate,
			target:   ErrIncomplete,
		},
		{
			name:     "missing sender",
			pipeline: func(c *qt.C) *Pipeline { return &Pipeline{Pinner: &fakePinner{}, Election: registeredElection(c)} },
			ballot:   ballot,
			step:     StepValidate,
			target:   contract.ErrNoSender,
		},
		{
			name: "prover fails",
			pipeline: func(c *qt.C) *Pipeline {
				return &Pipeline{Prover: &fakeProver{err: boom}, Pinner: &fakePinner{}, Election: registeredElection(c)}
			},
			sender: sender,
			ballot: ballot,
			step:   StepProof,
			target: boom,
		},
		{
			name: "verifier rejects proof",
			pipeline: func(c *qt.C) *Pipeline {
				return &Pipeline{Prover: &fakeProver{reject: true}, Pinner: &fakePinner{err: boom}, Election: registeredElection(c)}
			},
			sender: sender,
			ballot: ballot,
			step:   StepProof,
			target: proof.ErrRejected,
		},
		{
			name: "pinning fails",
			pipeline: func(c *qt.C) *Pipeline {
				return &Pipeline{Pinner: &fakePinner{err: boom}, Election: registeredElection(c)}
			},
			sender: sender,
			ballot: ballot,
			step:   StepPin,
			target: boom,
		},
		{
			name: "not registered",
			pipeline: func(c *qt.C) *Pipeline {
				return &Pipeline{Pinner: &fakePinner{}, Election: contract.NewMemory(1)}
			},
			sender: sender,
			ballot: ballot,
			step:   StepCast,
			target: contract.ErrNotRegistered,
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			_, err := tt.pipeline(c).Submit(context.Background(), tt.sender, tt.ballot)
			var stepErr *StepError
			c.Assert(errors.As(err, &stepErr), qt.IsTrue)
			c.Assert(stepErr.Step, qt.Equals, tt.step)
			c.Assert(err, qt.ErrorIs, tt.target)
		})
	}
}

func TestSubmitTwiceIsRejected(t *testing.T) {
	c := qt.New(t)
	p := &Pipeline{Pinner: &fakePinner{}, Election: registeredElection(c)}

	_, err := p.Submit(context.Background(), sender, ballot)
	c.Assert(err, qt.IsNil)

	_, err = p.Submit(context.Background(), sender, ballot)
	c.Assert(err, qt.ErrorIs, ErrAlreadySent)
	c.Assert(err, qt.ErrorMatches, "cast step failed: Ballot already sent!")
}
