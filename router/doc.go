// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Rank client.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(deps, cfg)

# Endpoints

Health:

	GET /health

Board sessions (requires X-Session-Token, except create):

	POST   /sessions               - Create session
	GET    /sessions/{id}          - Board view
	DELETE /sessions/{id}          - Drop session
	POST   /sessions/{id}/cells    - Select a cell
	POST   /sessions/{id}/reset    - Clear the board

Election:

	POST /sessions/{id}/register - Opt in to the election contract
	POST /sessions/{id}/ballot   - Prove, pin and cast the ballot

Account:

	GET /account          - Voter address and network
	GET /account/ballot   - On-chain ballot state
	GET /ballots/{cid}    - Pinned ballot document
	GET /proof/selfcheck  - Proof service diagnostic

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(deps, cfg)
	accountHandler := handlers.NewAccountHandler(deps, cfg)

All handlers receive the shared handlers.Deps and configuration.
*/
package router
