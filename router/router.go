// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/handlers"
	"github.com/danielhkuo/quickly-rank/middleware"
)

func NewRouter(deps handlers.Deps, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(deps, cfg)
	accountHandler := handlers.NewAccountHandler(deps, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Board sessions
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.DeleteSession))
	mux.HandleFunc("POST /sessions/{id}/cells", middleware.WithLogging(sessionHandler.SelectCell))
	mux.HandleFunc("POST /sessions/{id}/reset", middleware.WithLogging(sessionHandler.ResetSession))

	// Election (contract and pipeline)
	mux.HandleFunc("POST /sessions/{id}/register", middleware.WithLogging(sessionHandler.Register))
	mux.HandleFunc("POST /sessions/{id}/ballot", middleware.WithLogging(sessionHandler.SubmitBallot))

	// Account and pinned documents
	mux.HandleFunc("GET /account", middleware.WithLogging(accountHandler.GetAccount))
	mux.HandleFunc("GET /account/ballot", middleware.WithLogging(accountHandler.GetBallotStatus))
	mux.HandleFunc("GET /ballots/{cid}", middleware.WithLogging(accountHandler.GetBallotDocument))
	mux.HandleFunc("GET /proof/selfcheck", middleware.WithLogging(accountHandler.ProofSelfCheck))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-rank client v1"))
	})

	return mux
}
