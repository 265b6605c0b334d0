// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Sequence
		wantErr error
	}{
		{
			name: "uppercase passthrough",
			raw:  "GGCAGGAAACCGGU",
			want: "GGCAGGAAACCGGU",
		},
		{
			name: "lowercase normalized",
			raw:  "ggcaggaaaccggu",
			want: "GGCAGGAAACCGGU",
		},
		{
			name: "mixed case with surrounding whitespace",
			raw:  "  GgCa \n",
			want: "GGCA",
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: &EmptySequenceError{},
		},
		{
			name:    "whitespace only",
			raw:     "   \n\t",
			wantErr: &EmptySequenceError{},
		},
		{
			name:    "DNA thymine rejected",
			raw:     "ACGT",
			wantErr: &InvalidSequenceError{},
		},
		{
			name:    "arbitrary junk rejected",
			raw:     "ACG-N",
			wantErr: &InvalidSequenceError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.raw)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Validate(%q) = %q, want error", tt.raw, got)
				}
				target := tt.wantErr
				if !errorMatches(err, target) {
					t.Fatalf("Validate(%q) error = %T, want %T", tt.raw, err, target)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestValidateReportsOffendingCharacters checks that the error names the
// sorted set of characters outside the RNA alphabet.
func TestValidateReportsOffendingCharacters(t *testing.T) {
	_, err := Validate("ACGTX")

	var invalid *InvalidSequenceError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSequenceError, got %v", err)
	}
	if got, want := string(invalid.Chars), "TX"; got != want {
		t.Errorf("offending chars = %q, want %q", got, want)
	}
	for _, needle := range []string{"'T'", "'X'"} {
		if !strings.Contains(invalid.Error(), needle) {
			t.Errorf("error message %q should mention %s", invalid.Error(), needle)
		}
	}
}

func errorMatches(err, target error) bool {
	switch target.(type) {
	case *EmptySequenceError:
		var e *EmptySequenceError
		return errors.As(err, &e)
	case *InvalidSequenceError:
		var e *InvalidSequenceError
		return errors.As(err, &e)
	default:
		return errors.Is(err, target)
	}
}
