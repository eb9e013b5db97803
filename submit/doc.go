// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package submit sends a completed ballot through the external collaborators.

# Steps

  - validate: the ballot must be complete and a sender configured
  - proof: optional, a same-permutation proof over the candidate order,
    checked with the verifier before it is pinned
  - pin: the ballot document is pinned to IPFS
  - cast: the CID is stored by the election contract

Each failure is a *StepError naming the step and wrapping the cause:

	res, err := pipeline.Submit(ctx, sender, submit.Ballot{Ranking: keys, Order: order})
	var stepErr *submit.StepError
	if errors.As(err, &stepErr) {
		// stepErr.Step == submit.StepPin, ...
	}

The pipeline holds no ballot state. Callers keep the board untouched on
error so the user can retry, and reset it on success.
*/
package submit
