// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package board

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which rule SelectCell applied.
type Kind int

const (
	Toggle Kind = iota + 1
	Swap
	Move
	PlaceRelocate
	Place
)

func (k Kind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case Swap:
		return "swap"
	case Move:
		return "move"
	case PlaceRelocate:
		return "place_relocate"
	case Place:
		return "place"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind := Toggle; kind <= Place; kind++ {
		if kind.String() == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown transition kind %q", s)
}

// Transition describes the effect of one SelectCell call. Rank and
// candidate fields use None when not applicable.
type Transition struct {
	Kind      Kind `json:"kind"`
	Candidate int  `json:"candidate"`
	From      int  `json:"from"`
	To        int  `json:"to"`

	// Displaced is the other candidate moved by a swap or a placement.
	Displaced   int  `json:"displaced"`
	DisplacedTo int  `json:"displaced_to"`
	Dropped     bool `json:"dropped,omitempty"`
}
