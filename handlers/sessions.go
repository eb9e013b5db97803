// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/board"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/contract"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/proof"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/submit"
)

type SessionHandler struct {
	deps Deps
	cfg  cliparse.Config
}

func NewSessionHandler(deps Deps, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{deps: deps, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	// Body is optional: an empty one builds the default election
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = board.DefaultCandidates()
	}
	if len(candidates) > board.MaxCandidates {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at most "+strconv.Itoa(board.MaxCandidates)+" candidates are allowed")
		return
	}
	for key, label := range candidates {
		if label == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "candidate "+strconv.Itoa(key)+" has an empty label")
			return
		}
	}

	title := req.Title
	if title == "" {
		title = board.DefaultTitle
	}

	var opts []board.Option
	if req.MaxRank != 0 {
		opts = append(opts, board.WithRankCount(req.MaxRank))
	}

	b, err := board.New(candidates, opts...)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.checkProvable(b); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.deps.Store.Create(title, b)

	slog.Info("session created",
		"session_id", s.ID,
		"candidates", b.CandidateCount(),
		"ranks", b.RankCount(),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID:    s.ID,
		SessionToken: auth.GenerateSessionToken(s.ID, h.cfg.SessionSalt),
		ExpiresAt:    h.deps.Store.ExpiresAt(s),
		Board:        viewOf(s),
	})
}

// checkProvable rejects boards the proof service could never accept: the
// proof covers a full permutation whose length plus the blinders is a power
// of two.
func (h *SessionHandler) checkProvable(b *board.Board) error {
	if h.deps.Prover == nil {
		return nil
	}
	if b.RankCount() != b.CandidateCount() {
		return errors.New("proofs require every candidate to be ranked (max_rank must equal the candidate count)")
	}
	_, err := proof.Log2N(b.CandidateCount())
	return err
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, viewOf(s))
}

// SelectCell handles POST /sessions/{id}/cells
func (h *SessionHandler) SelectCell(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.SelectCellRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if (req.Candidate == nil) == (req.Key == nil) || req.Rank == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "rank and one of candidate or key are required")
		return
	}

	var t board.Transition
	var view models.BoardView
	err := s.Update(func(b *board.Board) error {
		row, ok := rowOf(b, req)
		if !ok {
			return fmt.Errorf("%w: no candidate with key %d", board.ErrOutOfRange, *req.Key)
		}

		var err error
		t, err = b.SelectCell(row, *req.Rank)
		if err != nil {
			return err
		}
		view = buildView(s.Title, b, false)
		return nil
	})

	switch {
	case errors.Is(err, board.ErrOutOfRange):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, submit.ErrInFlight):
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot is being submitted")
		return
	case err != nil:
		slog.Error("failed to select cell", "error", err, "session_id", s.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to select cell")
		return
	}

	if t.Dropped {
		slog.Info("candidate dropped from ballot", "session_id", s.ID, "candidate", t.Displaced)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SelectCellResponse{
		Transition: t,
		Board:      view,
	})
}

// rowOf resolves the request's row to a grid index.
func rowOf(b *board.Board, req models.SelectCellRequest) (int, bool) {
	if req.Key != nil {
		return b.IndexOf(*req.Key)
	}
	return *req.Candidate, true
}

// ResetSession handles POST /sessions/{id}/reset
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var view models.BoardView
	err := s.Update(func(b *board.Board) error {
		b.Reset()
		view = buildView(s.Title, b, false)
		return nil
	})
	if errors.Is(err, submit.ErrInFlight) {
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot is being submitted")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// Register handles POST /sessions/{id}/register (contract opt-in)
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}

	receipt, err := h.deps.Election.Register(r.Context(), h.cfg.SenderAddress)
	switch {
	case errors.Is(err, contract.ErrNoSender):
		middleware.ErrorResponse(w, http.StatusPreconditionFailed, "Sender address is not configured")
		return
	case errors.Is(err, contract.ErrAlreadyRegistered):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.Error("failed to register", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Error calling the contract: "+err.Error())
		return
	}

	slog.Info("registered for election", "sender", auth.EllipseAddress(h.cfg.SenderAddress), "tx_id", receipt.TxID)

	middleware.JSONResponse(w, http.StatusOK, models.RegisterResponse{
		TxID:    receipt.TxID,
		Message: "opted in",
	})
}

// SubmitBallot handles POST /sessions/{id}/ballot
func (h *SessionHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	ballot, err := s.BeginSubmit()
	switch {
	case errors.Is(err, submit.ErrIncomplete):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Complete all ranks before submitting")
		return
	case errors.Is(err, submit.ErrInFlight):
		middleware.ErrorResponse(w, http.StatusConflict, "A submission is already in progress")
		return
	case err != nil:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read ballot")
		return
	}

	res, err := h.deps.Submitter.Submit(r.Context(), h.cfg.SenderAddress, ballot)
	s.FinishSubmit(err == nil)

	if err != nil {
		writeSubmitError(w, s.ID, err)
		return
	}

	resp := models.SubmitBallotResponse{
		CID:     res.CID,
		TxID:    res.TxID,
		Message: res.Message,
		Proved:  res.Proved,
	}
	if h.deps.Documents != nil {
		resp.GatewayURL = h.deps.Documents.URLFor(res.CID)
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

func writeSubmitError(w http.ResponseWriter, sessionID string, err error) {
	var stepErr *submit.StepError
	if !errors.As(err, &stepErr) {
		slog.Error("submission failed", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Warn("submission failed", "step", stepErr.Step, "error", stepErr.Err, "session_id", sessionID)

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, submit.ErrIncomplete),
		errors.Is(err, proof.ErrNotPermutation),
		errors.Is(err, proof.ErrBallotLength):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, contract.ErrNoSender):
		status = http.StatusPreconditionFailed
	case errors.Is(err, submit.ErrAlreadySent), errors.Is(err, contract.ErrNotRegistered):
		status = http.StatusConflict
	}

	message := stepErr.Err.Error()
	if stepErr.Step == submit.StepCast {
		message = "Error calling the contract: " + message
	}
	middleware.StepErrorResponse(w, status, string(stepErr.Step), message)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.deps.Store.Delete(s.ID); err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	slog.Info("session deleted", "session_id", s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// session resolves {id} and checks the session token, writing the error
// response itself when it fails.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return nil, false
	}
	if err := auth.ParseSessionID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid session id")
		return nil, false
	}

	token := r.Header.Get(models.HeaderSessionToken)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return nil, false
	}
	if err := auth.ValidateSessionToken(id, token, h.cfg.SessionSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session token")
		return nil, false
	}

	s, err := h.deps.Store.Get(id)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}
