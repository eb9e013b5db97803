// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"github.com/danielhkuo/quickly-rank/board"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/session"
)

func viewOf(s *session.Session) models.BoardView {
	var view models.BoardView
	s.View(func(b *board.Board, submitting bool) {
		view = buildView(s.Title, b, submitting)
	})
	return view
}

// buildView renders b. Callers hold the session lock.
func buildView(title string, b *board.Board, submitting bool) models.BoardView {
	candidates := b.Candidates()
	ranks := b.Ranks()

	view := models.BoardView{
		Title:       title,
		Candidates:  make([]models.CandidateView, len(candidates)),
		Ranks:       make([]*int, len(ranks)),
		Ordinals:    b.Ordinals(),
		Grid:        b.Grid(),
		Complete:    b.IsComplete(),
		Ballot:      b.Ballot(),
		Permutation: b.Permutation(),
		Submitting:  submitting,
	}

	for i, c := range candidates {
		cv := models.CandidateView{Key: c.Key, Label: c.Label}
		if r := b.AssignmentOf(i); r != board.None {
			cv.Rank = &r
		}
		view.Candidates[i] = cv
	}
	for r, idx := range ranks {
		if idx != board.None {
			key := candidates[idx].Key
			view.Ranks[r] = &key
		}
	}

	return view
}
