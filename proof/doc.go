// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package proof is the client side of the ranked-ballot proof service.

The service proves, in zero knowledge, that a committed ballot is a
permutation of 0..n-1. This package never builds proofs; it validates the
ballot shape locally and exchanges JSON with the service.

# Endpoints

	POST /generate  {ballot, setup_seed, proof_seed} → {ok, error, proof}
	POST /verify    {proof, setup_seed, proof_seed}  → {ok, error}
	GET  /selfcheck → plain text diagnostic

Every request runs under a timeout (DefaultTimeout unless configured).

# Ballot Shape

The prover pads the ballot with Blinders slots and needs a power-of-two
vector, so only ballots of length 4, 12, 28, ... are accepted:

	log2n, err := proof.CheckBallot([]uint32{1, 0, 2, 3}) // 3
*/
package proof
