// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure parses external folding-tool output into a validated
// pairing model: sequence validation, dot-bracket parsing, base-pair
// reconstruction, and derived metrics. Everything here is pure and
// stateless; callers may run it concurrently over independent inputs.
package structure

import (
	"sort"
	"strings"
)

// Sequence is an uppercase RNA sequence over {A, C, G, U}. Obtain one
// through Validate.
type Sequence string

// Structure is a dot-bracket string over {'.', '(', ')'}.
type Structure string

// Validate normalizes raw to uppercase and checks it against the RNA
// alphabet. It returns an EmptySequenceError for zero-length input and an
// InvalidSequenceError naming the distinct offending characters otherwise.
// DNA input is rejected: 'T' is not in the alphabet.
func Validate(raw string) (Sequence, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", &EmptySequenceError{}
	}

	var bad map[rune]struct{}
	for _, r := range s {
		switch r {
		case 'A', 'C', 'G', 'U':
		default:
			if bad == nil {
				bad = make(map[rune]struct{})
			}
			bad[r] = struct{}{}
		}
	}
	if len(bad) > 0 {
		chars := make([]rune, 0, len(bad))
		for r := range bad {
			chars = append(chars, r)
		}
		sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
		return "", &InvalidSequenceError{Chars: chars}
	}

	return Sequence(s), nil
}

// isNucleotide reports whether c is an uppercase RNA nucleotide.
func isNucleotide(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'U':
		return true
	}
	return false
}

// isSequenceLine reports whether the line consists solely of uppercase RNA
// nucleotides (a wrapped sequence-continuation line in tool output).
func isSequenceLine(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if !isNucleotide(line[i]) {
			return false
		}
	}
	return true
}
