// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantSeq    Sequence
		wantStruct Structure
		wantEnergy *float64
		wantErr    any // pointer to the expected error type, nil for success
	}{
		{
			name:       "simple hairpin",
			raw:        ">SUI3_5UTR\nGGGGAAACCCC\n((((...)))) (-5.20)\n",
			wantSeq:    "GGGGAAACCCC",
			wantStruct: "((((...))))",
			wantEnergy: f64(-5.20),
		},
		{
			name:       "sequence wrapped across lines",
			raw:        ">seq\nGGGG\nAAACCCC\n((((...)))) (-5.20)\n",
			wantSeq:    "GGGGAAACCCC",
			wantStruct: "((((...))))",
			wantEnergy: f64(-5.20),
		},
		{
			name:       "no linebreak between sequence tail and structure",
			raw:        ">seq\nGGGGAAA\nCCCC((((...)))) (-5.20)\n",
			wantSeq:    "GGGGAAACCCC",
			wantStruct: "((((...))))",
			wantEnergy: f64(-5.20),
		},
		{
			name:       "leading dots stay with the structure",
			raw:        ">seq\nAGGGGAAACCCC\n.((((...)))) (-4.10)\n",
			wantSeq:    "AGGGGAAACCCC",
			wantStruct: ".((((...))))",
			wantEnergy: f64(-4.10),
		},
		{
			name:       "joined line with structural leading dot",
			raw:        ">seq\nAGGGGAAA\nCCCC.((((...)))) (-4.10)\n",
			wantSeq:    "AGGGGAAACCCC",
			wantStruct: ".((((...))))",
			wantEnergy: f64(-4.10),
		},
		{
			name:       "energy with inner spacing",
			raw:        ">seq\nGCGC\n(()) ( -1.30)\n",
			wantSeq:    "GCGC",
			wantStruct: "(())",
			wantEnergy: f64(-1.30),
		},
		{
			name:       "energy annotation glued to structure",
			raw:        ">seq\nGCGC\n(())(-1.30)\n",
			wantSeq:    "GCGC",
			wantStruct: "(())",
			wantEnergy: f64(-1.30),
		},
		{
			name:       "positive energy",
			raw:        ">seq\nGCAAGC\n((..)) (0.70)\n",
			wantSeq:    "GCAAGC",
			wantStruct: "((..))",
			wantEnergy: f64(0.70),
		},
		{
			name:       "unparseable energy is nil, not an error",
			raw:        ">seq\nGCAAGC\n((..)) (abc)\n",
			wantSeq:    "GCAAGC",
			wantStruct: "((..))",
			wantEnergy: nil,
		},
		{
			name:       "trailing hairpin is structure, not a bad energy",
			raw:        ">seq\nAAGCAAGCAAAAG\n..((..))(...)",
			wantSeq:    "AAGCAAGCAAAAG",
			wantStruct: "..((..))(...)",
			wantEnergy: nil,
		},
		{
			name:       "fully unpaired structure without energy",
			raw:        ">sequence\nGCGC\n....\n",
			wantSeq:    "GCGC",
			wantStruct: "....",
			wantEnergy: nil,
		},
		{
			name:       "commentary lines are skipped",
			raw:        ">seq\nGCGC\nfree energy of ensemble = -1.41 kcal/mol\n(()) (-1.30)\n",
			wantSeq:    "GCGC",
			wantStruct: "(())",
			wantEnergy: f64(-1.30),
		},
		{
			name:    "no structure line",
			raw:     ">seq\nGGGGAAACCCC\n",
			wantErr: &ParseError{},
		},
		{
			name:    "empty block",
			raw:     "",
			wantErr: &ParseError{},
		},
		{
			name:    "structure without sequence",
			raw:     "((((...)))) (-5.20)\n",
			wantErr: &ParseError{},
		},
		{
			name:    "length mismatch",
			raw:     ">seq\nGGGGAAACCCCAA\n((((...)))) (-5.20)\n",
			wantErr: &LengthMismatchError{},
		},
		{
			name:    "invalid structure character",
			raw:     ">seq\nGGGGAAACCCC\n(((([...]))) (-5.20)\n",
			wantErr: &ParseError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Parse succeeded with %+v, want %T", got, tt.wantErr)
				}
				switch tt.wantErr.(type) {
				case *ParseError:
					var pe *ParseError
					if !errors.As(err, &pe) {
						t.Fatalf("error = %T (%v), want ParseError", err, err)
					}
				case *LengthMismatchError:
					var lm *LengthMismatchError
					if !errors.As(err, &lm) {
						t.Fatalf("error = %T (%v), want LengthMismatchError", err, err)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got.Sequence != tt.wantSeq {
				t.Errorf("sequence = %q, want %q", got.Sequence, tt.wantSeq)
			}
			if got.Structure != tt.wantStruct {
				t.Errorf("structure = %q, want %q", got.Structure, tt.wantStruct)
			}
			switch {
			case tt.wantEnergy == nil && got.Energy != nil:
				t.Errorf("energy = %v, want nil", *got.Energy)
			case tt.wantEnergy != nil && got.Energy == nil:
				t.Errorf("energy = nil, want %v", *tt.wantEnergy)
			case tt.wantEnergy != nil && *got.Energy != *tt.wantEnergy:
				t.Errorf("energy = %v, want %v", *got.Energy, *tt.wantEnergy)
			}
		})
	}
}

// TestParseLengthMismatchDetail checks the lengths reported by the error.
func TestParseLengthMismatchDetail(t *testing.T) {
	_, err := Parse(">seq\nGGGGAAACCCCAA\n((((...)))) (-5.20)\n")

	var lm *LengthMismatchError
	if !errors.As(err, &lm) {
		t.Fatalf("expected LengthMismatchError, got %v", err)
	}
	if lm.SequenceLen != 13 || lm.StructureLen != 11 {
		t.Errorf("lengths = (%d, %d), want (13, 11)", lm.SequenceLen, lm.StructureLen)
	}
}

func f64(v float64) *float64 { return &v }
