// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and view types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: title, candidates (key → label), max_rank
  - SelectCellRequest: candidate (row index), rank (column index)

Pointer fields in SelectCellRequest distinguish a missing value from 0.

# Response Types

  - CreateSessionResponse: session_id, session_token, expires_at, board
  - SelectCellResponse: transition, board
  - RegisterResponse: tx_id, message
  - SubmitBallotResponse: cid, tx_id, message, proved, gateway_url
  - AccountResponse: address, short_address, network, app_id
  - BallotStatusResponse: found, cid, verified

# BoardView

The full render state of a board:

	{
	  "title": "...",
	  "candidates": [{"key": 0, "label": "Delegate Alice (Core Dev)", "rank": 1}],
	  "ranks": [2, 0, null, null],
	  "ordinals": ["1st", "2nd", "3rd", "4th"],
	  "grid": [...],
	  "complete": false,
	  "ballot": [],
	  "permutation": [],
	  "submitting": false
	}

ranks holds candidate keys. ballot and permutation stay empty until the
board is complete.

# Error Response

	{"error": "Bad Gateway", "message": "Pinata error 401: ...", "step": "pin"}
*/
package models
