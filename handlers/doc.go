// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Rank client.

# Handler Types

Each handler is a struct with the shared Deps and config:

  - SessionHandler: board sessions, cell selection and ballot submission
  - AccountHandler: voter account, on-chain ballot state and pinned documents

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(deps, cfg)

# Sessions

A session owns one board held in memory:

	POST   /sessions               → CreateSession (returns session_token)
	GET    /sessions/{id}          → GetSession
	POST   /sessions/{id}/cells    → SelectCell {candidate | key, rank}
	POST   /sessions/{id}/reset    → ResetSession
	POST   /sessions/{id}/register → Register (contract opt-in)
	POST   /sessions/{id}/ballot   → SubmitBallot
	DELETE /sessions/{id}          → DeleteSession

Session operations require the X-Session-Token header; a malformed id is
rejected with 400 before the token is checked.

With proofs enabled, CreateSession only accepts boards the prover can
handle: every candidate ranked, and a candidate count n with n+4 a power of
two (4, 12, 28, ...). Boards are limited to board.MaxCandidates rows.

# Submission

SubmitBallot freezes the board, runs the pipeline (proof, pin, cast) and
resets the board only on success. Errors map to:

  - 422: the board is incomplete, or its ballot fails the local proof shape check
  - 409: a submission is in flight, the ballot was already sent, or the
    account has not opted in
  - 412: no sender address is configured
  - 502: a collaborator failed; the body names the step

# Account

	GET /account          → GetAccount
	GET /account/ballot   → GetBallotStatus
	GET /ballots/{cid}    → GetBallotDocument (via the IPFS gateway)
	GET /proof/selfcheck  → ProofSelfCheck
*/
package handlers
