// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seqfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rna-engine/internal/fasta"
	"github.com/pdiddy/rna-engine/internal/httputil"
	"github.com/pdiddy/rna-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func locusServer(t *testing.T, sequence string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"sequence":     sequence,
			"display_name": "SUI3",
		})
	}))
}

func TestFetch(t *testing.T) {
	ts := locusServer(t, "ATGCATGCATGCATGC")
	defer ts.Close()

	cfg := types.FetchConfig{
		BaseURL: ts.URL,
		DataDir: t.TempDir(),
	}

	var out bytes.Buffer
	rec, err := Fetch(context.Background(), ts.Client(), "S000006158", "SUI3_5UTR", cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, "SUI3_5UTR", rec.Name)
	assert.Equal(t, "S000006158", rec.Accession)
	assert.Equal(t, 16, rec.Length)

	records, err := fasta.ReadFile(rec.FastaPath)
	require.NoError(t, err)
	// DNA transcribed to RNA on the way in.
	assert.Equal(t, "AUGCAUGCAUGCAUGC", records[0].Sequence)

	assert.FileExists(t, filepath.Join(cfg.DataDir, "sui3_5utr.yaml"))
	assert.Contains(t, out.String(), "fetched: SUI3_5UTR (16 nt)")
}

func TestFetchTruncatesUTR(t *testing.T) {
	ts := locusServer(t, "ATGCATGCATGCATGC")
	defer ts.Close()

	cfg := types.FetchConfig{
		BaseURL:   ts.URL,
		DataDir:   t.TempDir(),
		UTRLength: 8,
	}

	var out bytes.Buffer
	rec, err := Fetch(context.Background(), ts.Client(), "S000006158", "SUI3_5UTR", cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.Length)

	records, err := fasta.ReadFile(rec.FastaPath)
	require.NoError(t, err)
	assert.Equal(t, "AUGCAUGC", records[0].Sequence)
}

func TestFetchSkipsExisting(t *testing.T) {
	ts := locusServer(t, "ATGC")
	defer ts.Close()

	cfg := types.FetchConfig{BaseURL: ts.URL, DataDir: t.TempDir()}

	var first bytes.Buffer
	_, err := Fetch(context.Background(), ts.Client(), "S000006158", "SUI3_5UTR", cfg, &first)
	require.NoError(t, err)

	var second bytes.Buffer
	rec, err := Fetch(context.Background(), ts.Client(), "S000006158", "SUI3_5UTR", cfg, &second)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Length)
	assert.Contains(t, second.String(), "skipped: SUI3_5UTR (already exists)")
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"sequence": "ATGC"})
	}))
	defer ts.Close()

	cfg := types.FetchConfig{BaseURL: ts.URL, DataDir: t.TempDir(), MaxRetries: 3}

	var out bytes.Buffer
	rec, err := Fetch(context.Background(), ts.Client(), "S000006158", "", cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, "S000006158", rec.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchEmptySequence(t *testing.T) {
	ts := locusServer(t, "")
	defer ts.Close()

	cfg := types.FetchConfig{BaseURL: ts.URL, DataDir: t.TempDir()}

	var out bytes.Buffer
	_, err := Fetch(context.Background(), ts.Client(), "S000006158", "x", cfg, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sequence")
}

func TestFetchLeavesNoPartialFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dataDir := t.TempDir()
	cfg := types.FetchConfig{BaseURL: ts.URL, DataDir: dataDir}

	var out bytes.Buffer
	_, err := Fetch(context.Background(), ts.Client(), "S000000000", "missing", cfg, &out)
	require.Error(t, err)

	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
