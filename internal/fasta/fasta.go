// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fasta reads and writes FASTA sequence files.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// lineWidth is the column at which written sequences wrap.
const lineWidth = 60

// Record is one FASTA entry. Name is the header line without the leading
// '>'; Sequence has its wrapped lines joined.
type Record struct {
	Name     string
	Sequence string
}

// Read parses all records from r. Sequence lines belonging to one record
// are joined; blank lines are ignored. Sequence data before the first
// header is an error.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	var current *Record
	var seq strings.Builder

	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
			seq.Reset()
		}
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ">"):
			flush()
			current = &Record{Name: strings.TrimSpace(line[1:])}
		default:
			if current == nil {
				return nil, fmt.Errorf("line %d: sequence data before first FASTA header", lineNo)
			}
			seq.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(records) == 0 {
		return nil, fmt.Errorf("no FASTA records found")
	}
	return records, nil
}

// ReadFile reads all records from the named file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Write writes the records to w, wrapping sequences at 60 columns.
func Write(w io.Writer, records ...Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, ">%s\n", rec.Name); err != nil {
			return err
		}
		for start := 0; start < len(rec.Sequence); start += lineWidth {
			end := start + lineWidth
			if end > len(rec.Sequence) {
				end = len(rec.Sequence)
			}
			if _, err := fmt.Fprintln(w, rec.Sequence[start:end]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFile writes the records to the named file.
func WriteFile(path string, records ...Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, records...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
