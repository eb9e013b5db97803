// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Rank client.

Quickly Rank is a ranked-choice ballot client. It serves a candidate × rank
grid to the browser, and once every rank is filled it proves, pins and casts
the ballot on the election contract.

# Starting the Client

The client requires environment variables or CLI flags for configuration:

	PINATA_JWT=... SESSION_SALT=... go run .

Or with flags:

	go run . -p 3318 --sender VOTER... --zk-url off

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - PINATA_JWT (--pinata-jwt): Pinata API token
  - SESSION_SALT (--session-salt): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - SENDER_ADDRESS (--sender): Voter account
  - CONTRACT_RELAY_URL (--relay-url): Contract relay; in-memory election when empty
  - ZK_URL (--zk-url): Proof service (default: http://127.0.0.1:8000, "off" disables)

# Architecture

  - board: The ranked-ballot grid state machine
  - session: In-memory board sessions
  - submit: Proof → pin → cast pipeline
  - proof, pinning, contract: External collaborators
  - handlers: HTTP request handlers (sessions, account)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Session tokens, seeds and address display
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
