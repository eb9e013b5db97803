// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/pinning"
)

type AccountHandler struct {
	deps Deps
	cfg  cliparse.Config
}

func NewAccountHandler(deps Deps, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{deps: deps, cfg: cfg}
}

// GetAccount handles GET /account
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.AccountResponse{
		Address:      h.cfg.SenderAddress,
		ShortAddress: auth.EllipseAddress(h.cfg.SenderAddress),
		Network:      h.cfg.Network,
		AppID:        h.cfg.AppID,
	})
}

// GetBallotStatus handles GET /account/ballot
func (h *AccountHandler) GetBallotStatus(w http.ResponseWriter, r *http.Request) {
	if h.cfg.SenderAddress == "" {
		middleware.ErrorResponse(w, http.StatusPreconditionFailed, "Sender address is not configured")
		return
	}

	rec, found, err := h.deps.Election.BallotOf(r.Context(), h.cfg.SenderAddress)
	if err != nil {
		slog.Error("failed to read ballot state", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Error calling the contract: "+err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotStatusResponse{
		Found:    found,
		CID:      rec.CID,
		Verified: rec.Verified,
	})
}

// GetBallotDocument handles GET /ballots/{cid}
func (h *AccountHandler) GetBallotDocument(w http.ResponseWriter, r *http.Request) {
	cid := r.PathValue("cid")
	if _, err := pinning.DescribeCID(cid); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.deps.Documents == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "IPFS gateway is not configured")
		return
	}

	var doc json.RawMessage
	if err := h.deps.Documents.FetchJSON(r.Context(), cid, &doc); err != nil {
		slog.Warn("failed to fetch ballot document", "cid", cid, "error", err)
		status := http.StatusBadGateway
		if !errors.Is(err, pinning.ErrGateway) {
			status = http.StatusInternalServerError
		}
		middleware.ErrorResponse(w, status, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, doc)
}

// ProofSelfCheck handles GET /proof/selfcheck
func (h *AccountHandler) ProofSelfCheck(w http.ResponseWriter, r *http.Request) {
	if h.deps.Prover == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Proofs are disabled")
		return
	}

	body, err := h.deps.Prover.SelfCheck(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
