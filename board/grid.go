// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"fmt"
	"strconv"
)

const DefaultTitle = "DAO Council Election — Rank Your Delegates"

// DefaultCandidates returns the demo election used when a session is
// created without its own candidate set.
func DefaultCandidates() map[int]string {
	return map[int]string{
		0: "Delegate Alice (Core Dev)",
		1: "Delegate Bob (Treasury Guild)",
		2: "Delegate Carol (Risk)",
		3: "Delegate Eve (Security Audit)",
	}
}

// Ordinal formats a 1-based position: 1st, 2nd, 3rd, 4th, 11th, 21st...
func Ordinal(n int) string {
	s := strconv.Itoa(n)
	switch {
	case n%10 == 1 && n%100 != 11:
		return s + "st"
	case n%10 == 2 && n%100 != 12:
		return s + "nd"
	case n%10 == 3 && n%100 != 13:
		return s + "rd"
	default:
		return s + "th"
	}
}

// Ordinals returns the column headers for the board.
func (b *Board) Ordinals() []string {
	out := make([]string, len(b.ranks))
	for r := range out {
		out[r] = Ordinal(r + 1)
	}
	return out
}

// Cell is one clickable square of the grid.
type Cell struct {
	Rank     int    `json:"rank"`
	Selected bool   `json:"selected"`
	Dim      bool   `json:"dim"` // column held by another candidate
	Label    string `json:"label"`
}

type Row struct {
	Candidate Candidate `json:"candidate"`
	Cells     []Cell    `json:"cells"`
}

// Grid renders the current assignment as rows of cells.
func (b *Board) Grid() []Row {
	rows := make([]Row, len(b.candidates))
	for i, cand := range b.candidates {
		cells := make([]Cell, len(b.ranks))
		for r := range b.ranks {
			selected := b.assigned[i] == r
			occupiedBy := b.ranks[r]
			cells[r] = Cell{
				Rank:     r,
				Selected: selected,
				Dim:      occupiedBy != None && occupiedBy != i && !selected,
				Label:    fmt.Sprintf("%s as %s", cand.Label, Ordinal(r+1)),
			}
		}
		rows[i] = Row{Candidate: cand, Cells: cells}
	}
	return rows
}
