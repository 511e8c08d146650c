// Package archive retrieves the winget-pkgs snapshot that wig indexes.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FetchOptions controls archive retrieval.
type FetchOptions struct {
	// Refresh downloads the archive even when a cached copy exists.
	Refresh bool
	// Client defaults to a client without timeout; the archive is large.
	Client *http.Client
	// Progress receives a single-line progress indicator. Nil disables it.
	Progress io.Writer
}

// Result describes the archive on disk after Fetch.
type Result struct {
	Path       string
	Size       int64
	Downloaded bool
}

// Fetch makes sure the archive at url is available at dest. An existing file
// is reused as-is; there is no freshness or checksum validation. Downloads go
// to a temporary file next to dest that is renamed into place on success.
func Fetch(ctx context.Context, url, dest string, opts FetchOptions) (*Result, error) {
	if !opts.Refresh {
		if st, err := os.Stat(dest); err == nil {
			return &Result{Path: dest, Size: st.Size()}, nil
		}
	}
	if url == "" {
		return nil, fmt.Errorf("archive url is required")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", filepath.Dir(dest), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	n, err := download(ctx, opts.Client, url, tmpPath, opts.Progress)
	if err != nil {
		return nil, err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return nil, fmt.Errorf("cannot move archive into place: %w", err)
	}
	return &Result{Path: dest, Size: n, Downloaded: true}, nil
}

// download streams url into dest while reporting progress.
func download(ctx context.Context, client *http.Client, url, dest string, progress io.Writer) (int64, error) {
	if client == nil {
		client = &http.Client{}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "wig")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return 0, fmt.Errorf("download failed: %s\n%s", resp.Status, strings.TrimSpace(string(body)))
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("cannot create %s: %w", dest, err)
	}
	defer out.Close()

	total := resp.ContentLength
	var downloaded int64
	lastPrint := time.Now()
	buf := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return 0, fmt.Errorf("write failed: %w", werr)
			}
			downloaded += int64(n)
			if progress != nil && time.Since(lastPrint) > 200*time.Millisecond {
				printProgress(progress, downloaded, total)
				lastPrint = time.Now()
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return 0, fmt.Errorf("download read failed: %w", rerr)
		}
	}
	if total > 0 && downloaded != total {
		return 0, fmt.Errorf("download truncated: got %d of %d bytes", downloaded, total)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("cannot write %s: %w", dest, err)
	}
	if progress != nil {
		printProgress(progress, downloaded, total)
		fmt.Fprintln(progress)
	}
	return downloaded, nil
}

// printProgress renders a single-line progress indicator.
func printProgress(w io.Writer, downloaded, total int64) {
	if total > 0 {
		pct := float64(downloaded) / float64(total) * 100
		fmt.Fprintf(w, "\rDownloading... %s / %s (%.1f%%)", humanize.IBytes(uint64(downloaded)), humanize.IBytes(uint64(total)), pct)
		return
	}
	fmt.Fprintf(w, "\rDownloading... %s", humanize.IBytes(uint64(downloaded)))
}
