// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/board"
	"github.com/danielhkuo/quickly-rank/submit"
)

var ErrNotFound = errors.New("session not found")

// Session is one user's board. All board access goes through the session
// lock, so no caller observes a half-applied transition.
type Session struct {
	ID    string
	Title string

	mu         sync.Mutex
	board      *board.Board
	submitting bool

	// guarded by Store.mu
	lastSeen time.Time
}

// View calls fn with the board under the session lock. fn must not keep
// the board.
func (s *Session) View(fn func(b *board.Board, submitting bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.board, s.submitting)
}

// Update calls fn with the board under the session lock. Boards are frozen
// while a submission is in flight.
func (s *Session) Update(fn func(b *board.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return submit.ErrInFlight
	}
	return fn(s.board)
}

// BeginSubmit marks a submission in flight and reads out the ballot.
// Every call that returns nil must be paired with FinishSubmit.
func (s *Session) BeginSubmit() (submit.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return submit.Ballot{}, submit.ErrInFlight
	}
	if !s.board.IsComplete() {
		return submit.Ballot{}, submit.ErrIncomplete
	}
	s.submitting = true
	return submit.Ballot{Ranking: s.board.Ballot(), Order: s.board.Permutation()}, nil
}

// FinishSubmit clears the in-flight flag. The board is reset only when the
// submission succeeded.
func (s *Session) FinishSubmit(succeeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if succeeded {
		s.board.Reset()
	}
}

// Store keeps sessions in memory and expires them after an idle TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session around b and returns it.
func (st *Store) Create(title string, b *board.Board) *Session {
	s := &Session{
		ID:    auth.NewSessionID(),
		Title: title,
		board: b,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	s.lastSeen = st.now()
	st.sessions[s.ID] = s
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = st.now()
	return s, nil
}

// ExpiresAt reports when s expires if left idle.
func (st *Store) ExpiresAt(s *Session) time.Time {
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.lastSeen.Add(st.ttl)
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked()
}

func (st *Store) sweepLocked() int {
	cutoff := st.now().Add(-st.ttl)
	n := 0
	for id, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (st *Store) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("expired idle sessions", "count", n, "remaining", st.Len())
			}
		}
	}
}
