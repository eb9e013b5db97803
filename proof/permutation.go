// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package proof

import (
	"errors"
	"fmt"
	"math/bits"
)

// Blinders is the number of blinding slots the prover appends to the
// committed vector. Ballot length plus Blinders must be a power of two.
const Blinders = 4

var (
	ErrNotPermutation = errors.New("ballot is not a permutation")
	ErrBallotLength   = errors.New("unsupported ballot length")
)

// FindPermutation returns sigma with a[sigma[i]] == b[i] for every i.
func FindPermutation(a, b []uint32) ([]uint32, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: vectors must be the same length (%d != %d)", ErrNotPermutation, len(a), len(b))
	}

	index := make(map[uint32]int, len(a))
	for i, v := range a {
		if _, dup := index[v]; dup {
			return nil, fmt.Errorf("%w: duplicate value %d in reference vector", ErrNotPermutation, v)
		}
		index[v] = i
	}

	seen := make([]bool, len(a))
	sigma := make([]uint32, len(b))
	for i, v := range b {
		j, ok := index[v]
		if !ok {
			return nil, fmt.Errorf("%w: value %d not found in reference vector", ErrNotPermutation, v)
		}
		if seen[j] {
			return nil, fmt.Errorf("%w: duplicate value %d in ballot", ErrNotPermutation, v)
		}
		seen[j] = true
		sigma[i] = uint32(j)
	}

	return sigma, nil
}

// Log2N returns k such that 2^k == ell + Blinders.
func Log2N(ell int) (uint8, error) {
	n := ell + Blinders
	if ell < 1 || bits.OnesCount(uint(n)) != 1 {
		return 0, fmt.Errorf("%w: %d candidates (length + %d must be a power of two)", ErrBallotLength, ell, Blinders)
	}
	return uint8(bits.TrailingZeros(uint(n))), nil
}

// EllFromLog2N recovers the ballot length encoded in a proof.
func EllFromLog2N(log2n uint8) (int, error) {
	if log2n >= 32 {
		return 0, fmt.Errorf("%w: log2_n %d too large", ErrBallotLength, log2n)
	}
	n := 1 << log2n
	if n <= Blinders {
		return 0, fmt.Errorf("%w: invalid log2_n (n <= %d)", ErrBallotLength, Blinders)
	}
	return n - Blinders, nil
}

// CheckBallot verifies ballot is a permutation of 0..len-1 with a length
// the prover accepts, and returns its log2_n.
func CheckBallot(ballot []uint32) (uint8, error) {
	identity := make([]uint32, len(ballot))
	for i := range identity {
		identity[i] = uint32(i)
	}
	if _, err := FindPermutation(identity, ballot); err != nil {
		return 0, err
	}
	return Log2N(len(ballot))
}
