// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps board sessions in memory.

	st := session.NewStore(30 * time.Minute)
	s := st.Create(title, b)
	s, err := st.Get(id) // ErrNotFound once idle past the TTL

Expired sessions are swept on every Create and Get, and by Run in the
background.

# Submissions

A session allows one submission at a time. BeginSubmit reads the ballot and
freezes the board; FinishSubmit unfreezes it and resets it on success.
While frozen, Update and BeginSubmit return submit.ErrInFlight.
*/
package session
