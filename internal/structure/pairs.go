// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"

	"github.com/pdiddy/rna-engine/pkg/types"
)

// Reconstruct converts a dot-bracket string into an explicit base-pair list
// using a single left-to-right scan with a stack of open-bracket positions.
// Each index participates in at most one pair, so the output is
// deduplicated by construction; it is returned sorted ascending by opening
// index. An unmatched ')' or a leftover '(' yields an
// UnbalancedStructureError.
func Reconstruct(st Structure) ([]types.BasePair, error) {
	var stack []int
	pairs := make([]types.BasePair, 0, len(st)/2)

	for i := 0; i < len(st); i++ {
		switch st[i] {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				return nil, &UnbalancedStructureError{Pos: i}
			}
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs = append(pairs, types.BasePair{j, i})
		case '.':
			// Unpaired position.
		default:
			return nil, &ParseError{
				Reason: fmt.Sprintf("invalid structure character %q at position %d", st[i], i),
			}
		}
	}

	if len(stack) > 0 {
		return nil, &UnbalancedStructureError{Pos: -1, Unclosed: len(stack)}
	}

	sortPairs(pairs)
	return pairs, nil
}

// sortPairs orders pairs ascending by opening index. The stack scan emits
// pairs in closing order, so innermost pairs come first; insertion sort on
// the nearly ordered slice keeps this allocation free.
func sortPairs(pairs []types.BasePair) {
	for i := 1; i < len(pairs); i++ {
		p := pairs[i]
		j := i - 1
		for j >= 0 && pairs[j].Open() > p.Open() {
			pairs[j+1] = pairs[j]
			j--
		}
		pairs[j+1] = p
	}
}

// CheckNonCrossing verifies that an externally supplied pair list is
// well-nested: for pairs (i1,j1), (i2,j2) with i1 < i2, either j2 < j1
// (nested) or j1 < i2 (disjoint). Reconstruct cannot emit crossing pairs,
// but serialized records re-entering the pipeline can carry them; the first
// crossing found is reported as a CrossingPairError. The pairs must be
// sorted ascending by opening index, as Reconstruct and the serialization
// contract guarantee.
func CheckNonCrossing(pairs []types.BasePair) error {
	// Stack of enclosing close positions paired with their pair index.
	type open struct {
		closeAt int
		idx     int
	}
	var stack []open

	for k, p := range pairs {
		for len(stack) > 0 && stack[len(stack)-1].closeAt < p.Open() {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if p.Close() > top.closeAt {
				return &CrossingPairError{A: pairs[top.idx], B: p}
			}
		}
		stack = append(stack, open{closeAt: p.Close(), idx: k})
	}
	return nil
}

// ValidatePairs checks an externally supplied pair list against the
// base-pair invariants: i < j for every pair, indexes within the structure
// length, no index used twice, ascending order by opening index, and no
// crossings.
func ValidatePairs(pairs []types.BasePair, structureLen int) error {
	used := make(map[int]struct{}, len(pairs)*2)
	prevOpen := -1

	for _, p := range pairs {
		i, j := p.Open(), p.Close()
		if i >= j {
			return &ParseError{Reason: fmt.Sprintf("base pair (%d,%d) is not ordered", i, j)}
		}
		if i < 0 || j >= structureLen {
			return &ParseError{Reason: fmt.Sprintf("base pair (%d,%d) outside structure of length %d", i, j, structureLen)}
		}
		if i < prevOpen {
			return &ParseError{Reason: fmt.Sprintf("base pairs not sorted at (%d,%d)", i, j)}
		}
		prevOpen = i
		for _, idx := range [2]int{i, j} {
			if _, dup := used[idx]; dup {
				return &ParseError{Reason: fmt.Sprintf("position %d appears in more than one base pair", idx)}
			}
			used[idx] = struct{}{}
		}
	}

	return CheckNonCrossing(pairs)
}
