// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fasta

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "single record",
			input: ">SUI3_5UTR\nGGGGAAACCCC\n",
			want:  []Record{{Name: "SUI3_5UTR", Sequence: "GGGGAAACCCC"}},
		},
		{
			name:  "wrapped sequence lines joined",
			input: ">s\nGGGG\nAAAC\nCCC\n",
			want:  []Record{{Name: "s", Sequence: "GGGGAAACCCC"}},
		},
		{
			name:  "multiple records",
			input: ">a\nGGGG\n>b\nCCCC\n",
			want: []Record{
				{Name: "a", Sequence: "GGGG"},
				{Name: "b", Sequence: "CCCC"},
			},
		},
		{
			name:  "blank lines ignored",
			input: "\n>a\n\nGGGG\n\n",
			want:  []Record{{Name: "a", Sequence: "GGGG"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Read error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Read mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("GGGG\n")); err == nil {
		t.Error("expected error for sequence before header")
	}
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestWriteWraps(t *testing.T) {
	seq := strings.Repeat("ACGU", 20) // 80 nt
	var b strings.Builder
	if err := Write(&b, Record{Name: "s", Sequence: seq}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != ">s" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines[1]) != 60 || len(lines[2]) != 20 {
		t.Errorf("line lengths = %d, %d; want 60, 20", len(lines[1]), len(lines[2]))
	}
}

func TestRoundTrip(t *testing.T) {
	in := []Record{
		{Name: "a", Sequence: strings.Repeat("GCAU", 40)},
		{Name: "b", Sequence: "GGGG"},
	}

	var b strings.Builder
	if err := Write(&b, in...); err != nil {
		t.Fatal(err)
	}
	out, err := Read(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-in +out):\n%s", diff)
	}
}
