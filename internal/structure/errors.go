// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"
	"strings"

	"github.com/pdiddy/rna-engine/pkg/types"
)

// EmptySequenceError reports a zero-length sequence after normalization.
type EmptySequenceError struct{}

func (*EmptySequenceError) Error() string {
	return "sequence is empty"
}

// InvalidSequenceError reports characters outside the RNA alphabet. Chars
// holds the distinct offending characters in sorted order.
type InvalidSequenceError struct {
	Chars []rune
}

func (e *InvalidSequenceError) Error() string {
	quoted := make([]string, len(e.Chars))
	for i, r := range e.Chars {
		quoted[i] = fmt.Sprintf("%q", r)
	}
	return fmt.Sprintf("invalid characters in sequence: {%s} (permitted: A, C, G, U)",
		strings.Join(quoted, ", "))
}

// ParseError reports tool output with no recognizable structure line or an
// otherwise unusable block.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing fold output: " + e.Reason
}

// LengthMismatchError reports disagreement between the reconstructed
// sequence and the structure string. It is fatal to the single result it
// occurred in; batch processing continues.
type LengthMismatchError struct {
	SequenceLen  int
	StructureLen int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("structure length %d does not match sequence length %d",
		e.StructureLen, e.SequenceLen)
}

// UnbalancedStructureError reports malformed dot-bracket notation: either an
// unmatched ')' (Pos >= 0) or unclosed '(' brackets left at end of input
// (Pos == -1, Unclosed > 0).
type UnbalancedStructureError struct {
	Pos      int
	Unclosed int
}

func (e *UnbalancedStructureError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("unmatched ')' at position %d", e.Pos)
	}
	return fmt.Sprintf("%d unmatched '(' at end of structure", e.Unclosed)
}

// CrossingPairError reports two base pairs that cross (a pseudoknot).
// Well-nested dot-bracket input can never produce one; it indicates a
// corrupted externally supplied pair list.
type CrossingPairError struct {
	A, B types.BasePair
}

func (e *CrossingPairError) Error() string {
	return fmt.Sprintf("crossing base pairs (%d,%d) and (%d,%d)",
		e.A.Open(), e.A.Close(), e.B.Open(), e.B.Close())
}
