// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"errors"
	"fmt"
	"sort"
)

// None marks an unassigned candidate or an empty rank.
const None = -1

// MaxCandidates bounds the grid a single board may allocate.
const MaxCandidates = 64

var (
	ErrNoCandidates      = errors.New("candidate set is empty")
	ErrTooManyCandidates = errors.New("too many candidates")
	ErrRankCount         = errors.New("invalid rank count")
	ErrOutOfRange        = errors.New("cell out of range")
)

// Candidate is one row of the grid.
type Candidate struct {
	Key   int    `json:"key"`
	Label string `json:"label"`
}

// Board holds the rank assignment for one ballot-filling session.
// ranks and assigned are kept in sync: ranks[r] == c iff assigned[c] == r.
// A Board is not safe for concurrent use.
type Board struct {
	candidates []Candidate
	ranks      []int // rank -> candidate index
	assigned   []int // candidate index -> rank
}

type Option func(*options)

type options struct {
	rankCount int
}

// WithRankCount limits the ballot to the top r preferences. Defaults to
// the number of candidates.
func WithRankCount(r int) Option {
	return func(o *options) { o.rankCount = r }
}

// New builds an empty board. Candidates are ordered by ascending key and
// addressed by their position in that order.
func New(candidates map[int]string, opts ...Option) (*Board, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if len(candidates) > MaxCandidates {
		return nil, fmt.Errorf("%w: %d (at most %d)", ErrTooManyCandidates, len(candidates), MaxCandidates)
	}

	o := options{rankCount: len(candidates)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rankCount < 1 || o.rankCount > len(candidates) {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", ErrRankCount, o.rankCount, len(candidates))
	}

	keys := make([]int, 0, len(candidates))
	for k := range candidates {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	b := &Board{
		candidates: make([]Candidate, len(keys)),
		ranks:      make([]int, o.rankCount),
		assigned:   make([]int, len(keys)),
	}
	for i, k := range keys {
		b.candidates[i] = Candidate{Key: k, Label: candidates[k]}
	}
	b.Reset()

	return b, nil
}

// SelectCell applies a click on the (candidate, rank) cell and reports the
// transition taken. Errors only for cells outside the grid, in which case
// the board is left untouched.
func (b *Board) SelectCell(candidate, rank int) (Transition, error) {
	if candidate < 0 || candidate >= len(b.candidates) {
		return Transition{}, fmt.Errorf("%w: candidate %d not in [0,%d)", ErrOutOfRange, candidate, len(b.candidates))
	}
	if rank < 0 || rank >= len(b.ranks) {
		return Transition{}, fmt.Errorf("%w: rank %d not in [0,%d)", ErrOutOfRange, rank, len(b.ranks))
	}

	oldRank := b.assigned[candidate]
	occupant := b.ranks[rank]

	t := Transition{
		Candidate:   candidate,
		From:        oldRank,
		To:          rank,
		Displaced:   None,
		DisplacedTo: None,
	}

	switch {
	case oldRank == rank:
		b.clear(rank)
		t.Kind = Toggle
		t.To = None

	case oldRank != None && occupant != None:
		b.set(rank, candidate)
		b.set(oldRank, occupant)
		t.Kind = Swap
		t.Displaced = occupant
		t.DisplacedTo = oldRank

	case oldRank != None:
		b.clear(oldRank)
		b.set(rank, candidate)
		t.Kind = Move

	case occupant != None:
		b.assigned[occupant] = None
		b.set(rank, candidate)
		t.Kind = PlaceRelocate
		t.Displaced = occupant
		if free := b.firstEmpty(); free != None {
			b.set(free, occupant)
			t.DisplacedTo = free
		} else {
			t.Dropped = true
		}

	default:
		b.set(rank, candidate)
		t.Kind = Place
	}

	return t, nil
}

func (b *Board) set(rank, candidate int) {
	b.ranks[rank] = candidate
	b.assigned[candidate] = rank
}

func (b *Board) clear(rank int) {
	if c := b.ranks[rank]; c != None {
		b.assigned[c] = None
	}
	b.ranks[rank] = None
}

func (b *Board) firstEmpty() int {
	for r, c := range b.ranks {
		if c == None {
			return r
		}
	}
	return None
}

// AssignmentOf returns the rank held by candidate, or None.
func (b *Board) AssignmentOf(candidate int) int {
	if candidate < 0 || candidate >= len(b.assigned) {
		return None
	}
	return b.assigned[candidate]
}

// OccupantOf returns the candidate index at rank, or None.
func (b *Board) OccupantOf(rank int) int {
	if rank < 0 || rank >= len(b.ranks) {
		return None
	}
	return b.ranks[rank]
}

// IsComplete reports whether every rank is occupied.
func (b *Board) IsComplete() bool {
	return b.firstEmpty() == None
}

// Placed returns the number of occupied ranks.
func (b *Board) Placed() int {
	n := 0
	for _, c := range b.ranks {
		if c != None {
			n++
		}
	}
	return n
}

// Ballot returns candidate keys ordered by preference. It is empty until
// the board is complete.
func (b *Board) Ballot() []int {
	if !b.IsComplete() {
		return []int{}
	}
	out := make([]int, len(b.ranks))
	for r, c := range b.ranks {
		out[r] = b.candidates[c].Key
	}
	return out
}

// Permutation returns candidate grid indices ordered by preference, empty
// until the board is complete.
func (b *Board) Permutation() []int {
	if !b.IsComplete() {
		return []int{}
	}
	return b.Ranks()
}

// Reset clears every rank.
func (b *Board) Reset() {
	for r := range b.ranks {
		b.ranks[r] = None
	}
	for c := range b.assigned {
		b.assigned[c] = None
	}
}

// Candidates returns the candidate rows in grid order.
func (b *Board) Candidates() []Candidate {
	out := make([]Candidate, len(b.candidates))
	copy(out, b.candidates)
	return out
}

func (b *Board) CandidateCount() int { return len(b.candidates) }

func (b *Board) RankCount() int { return len(b.ranks) }

// Ranks returns a copy of the rank -> candidate index slice.
func (b *Board) Ranks() []int {
	out := make([]int, len(b.ranks))
	copy(out, b.ranks)
	return out
}

// IndexOf returns the grid index of the candidate with the given key.
func (b *Board) IndexOf(key int) (int, bool) {
	for i, c := range b.candidates {
		if c.Key == key {
			return i, true
		}
	}
	return None, false
}
