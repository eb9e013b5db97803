// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens, seeds and address helpers.

# Session Tokens

Board sessions are identified by a random UUID and guarded by an
HMAC-SHA256 token derived from it:

	id := auth.NewSessionID()
	token := auth.GenerateSessionToken(id, salt)
	err := auth.ValidateSessionToken(id, token, salt)

The token is URL-safe base64 encoded without padding. Since it's
deterministic, the same session ID and salt always produce the same token,
so the host never stores it.

# Proof Seeds

Each ballot proof gets its own random seed:

	seed, err := auth.GenerateSeed()

# Addresses

	auth.EllipseAddress("ABCDEFGHIJ...STUVWX") // "ABCDEF...STUVWX"

# Session IDs

Session IDs are UUIDs. Handlers reject malformed ones before checking the
token:

	id := auth.NewSessionID()
	err := auth.ParseSessionID(id) // nil
*/
package auth
