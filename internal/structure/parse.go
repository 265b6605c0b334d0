// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parsed is the outcome of parsing one raw fold-output block.
type Parsed struct {
	// Sequence is the nucleotide sequence reconstructed from the block.
	// Tool output may re-wrap or trim; callers computing metrics should
	// use their own retained input sequence instead.
	Sequence Sequence

	// Structure is the dot-bracket string, same length as Sequence.
	Structure Structure

	// Energy is the free energy from the trailing annotation, in
	// kcal/mol. Nil when the annotation is absent or not a number.
	Energy *float64
}

// energySuffix matches the trailing "(<signed-float>)" annotation RNAfold
// appends to the structure line, e.g. " (-12.40)" or "( -5.20)".
var energySuffix = regexp.MustCompile(`\(([^()]+)\)\s*$`)

// Parse extracts the sequence, dot-bracket structure, and free energy from a
// raw tool-output block.
//
// The block is a header line (">name"), zero or more wrapped sequence
// lines, and a structure line that carries the dot-bracket string plus the
// parenthesized energy. Some tool builds do not break the line between the
// end of the sequence and the start of the structure, so the structure line
// may begin with a sequence remainder; the split point is the first
// character that cannot be a nucleotide. A missing or malformed energy
// annotation is not an error: Energy comes back nil and the structure is
// kept whole.
func Parse(raw string) (Parsed, error) {
	var (
		seq        strings.Builder
		structLine string
		found      bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, ">"):
			continue
		case strings.ContainsAny(line, "()") || isDotsOnly(line):
			structLine = line
			found = true
		case isSequenceLine(line):
			seq.WriteString(line)
			continue
		default:
			// Commentary such as "free energy = ..." lines.
			continue
		}
		break
	}

	if !found {
		return Parsed{}, &ParseError{Reason: "no structure line in tool output"}
	}

	st, energy := splitEnergy(structLine)

	// The leading nucleotide run belongs to the sequence; the structure
	// starts at the first character that cannot be a base. Dots at the
	// boundary are unpaired positions, never sequence.
	cut := 0
	for cut < len(st) && isNucleotide(st[cut]) {
		cut++
	}
	seq.WriteString(st[:cut])
	st = strings.TrimSpace(st[cut:])

	parsedSeq := seq.String()
	if parsedSeq == "" {
		return Parsed{}, &ParseError{Reason: "no sequence in tool output"}
	}
	if st == "" {
		return Parsed{}, &ParseError{Reason: "structure line carries no dot-bracket string"}
	}
	for i := 0; i < len(st); i++ {
		switch st[i] {
		case '.', '(', ')':
		default:
			return Parsed{}, &ParseError{
				Reason: fmt.Sprintf("invalid structure character %q at position %d", st[i], i),
			}
		}
	}

	// Trailing dots on the sequence are line-join artifacts; drop them
	// only when they are what makes the lengths disagree. Interior dots
	// are meaningful and are never touched.
	if len(st) != len(parsedSeq) {
		trimmed := strings.TrimRight(parsedSeq, ".")
		if len(st) == len(trimmed) {
			parsedSeq = trimmed
		}
	}

	validated, err := Validate(parsedSeq)
	if err != nil {
		return Parsed{}, &ParseError{Reason: "reconstructed sequence invalid: " + err.Error()}
	}

	if len(st) != len(validated) {
		return Parsed{}, &LengthMismatchError{
			SequenceLen:  len(validated),
			StructureLen: len(st),
		}
	}

	return Parsed{
		Sequence:  validated,
		Structure: Structure(st),
		Energy:    energy,
	}, nil
}

// isDotsOnly reports whether the line is a fully-unpaired structure. Mfold's
// placeholder structures carry no brackets and no energy annotation, so the
// bracket test alone would miss them. Commentary lines always contain letters
// and never match.
func isDotsOnly(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != '.' {
			return false
		}
	}
	return true
}

// splitEnergy strips the trailing parenthesized energy annotation from the
// structure line, returning the remainder and the parsed value. A trailing
// group that is not a number is part of the structure (a final hairpin),
// so the line is returned untouched with a nil energy.
func splitEnergy(line string) (string, *float64) {
	loc := energySuffix.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, nil
	}

	inner := strings.TrimSpace(line[loc[2]:loc[3]])
	v, err := strconv.ParseFloat(inner, 64)
	if err != nil {
		return line, nil
	}
	return strings.TrimSpace(line[:loc[0]]), &v
}
