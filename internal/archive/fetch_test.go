package archive

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFetch_DownloadsWhenMissing(t *testing.T) {
	payload := bytes.Repeat([]byte("zip"), 1000)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("User-Agent") != "wig" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cache", "pkgs.zip")
	var progress bytes.Buffer
	res, err := Fetch(context.Background(), srv.URL, dest, FetchOptions{Progress: &progress})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !res.Downloaded || res.Size != int64(len(payload)) {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, payload) {
		t.Fatalf("archive content mismatch")
	}
	if !strings.Contains(progress.String(), "Downloading...") {
		t.Fatalf("expected progress output, got %q", progress.String())
	}

	// Second call reuses the cached file.
	res, err = Fetch(context.Background(), srv.URL, dest, FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Downloaded || hits.Load() != 1 {
		t.Fatalf("expected cached archive to be reused, hits=%d", hits.Load())
	}
}

func TestFetch_RefreshRedownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "pkgs.zip")
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Fetch(context.Background(), srv.URL, dest, FetchOptions{Refresh: true})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	b, _ := os.ReadFile(dest)
	if !res.Downloaded || string(b) != "fresh" {
		t.Fatalf("expected refreshed archive, got %q", b)
	}
}

func TestFetch_HTTPErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "pkgs.zip")
	_, err := Fetch(context.Background(), srv.URL, dest, FetchOptions{})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files after failed download, got %d", len(entries))
	}
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	printProgress(&buf, 512, 2048)
	if got := buf.String(); got != "\rDownloading... 512 B / 2.0 KiB (25.0%)" {
		t.Fatalf("unexpected progress line: %q", got)
	}
	buf.Reset()
	printProgress(&buf, 3*1024*1024, -1)
	if got := buf.String(); got != "\rDownloading... 3.0 MiB" {
		t.Fatalf("unexpected progress line: %q", got)
	}
}
