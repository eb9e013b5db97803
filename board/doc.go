// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package board implements the ranked-ballot grid.

A Board keeps a partial bijection between candidates (rows) and preference
ranks (columns). Clicking a cell is the only mutation:

	b, _ := board.New(board.DefaultCandidates())
	t, err := b.SelectCell(0, 0)

# Transition Rules

Evaluated in order, where oldRank is the candidate's current rank and
occupant is whoever holds the target rank:

  - Toggle: the candidate already holds the rank → the rank is cleared
  - Swap: both hold ranks → they exchange
  - Move: candidate holds a rank, target empty → candidate moves
  - PlaceRelocate: candidate unassigned, target taken → candidate takes it,
    occupant moves to the lowest empty rank (or is dropped if none)
  - Place: both empty → candidate placed

With the default rank count (one rank per candidate) the drop branch cannot
happen: an unassigned candidate means at least one rank is still free after
the placement. Boards built WithRankCount(r) for r < N can drop.

# Ballot

Ballot returns candidate keys from the 1st rank down, only once IsComplete
holds; otherwise it returns an empty slice.

	if b.IsComplete() {
		ranking := b.Ballot() // e.g. [1 2 3 0]
	}
*/
package board
