package search

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/JanikMartens/WiG/internal/log"
)

// ExtractError records a descriptor entry that was skipped.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// ExtractReport is the outcome of one extraction run.
// Records are in archive order.
type ExtractReport struct {
	Records []PackageRecord
	Skipped []*ExtractError
}

// LogicalName returns the deduplication key of a descriptor: the file name
// without its last two dot-separated segments.
//
//	Foo.Bar.locale.en-US.yaml -> Foo.Bar.locale
func LogicalName(filename string) string {
	parts := strings.Split(path.Base(filename), ".")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], ".")
}

// SelectDescriptors returns the entries whose path ends with suffix, keeping
// only the first entry seen for each logical name.
func SelectDescriptors(files []*zip.File, suffix string) []*zip.File {
	seen := make(map[string]struct{})
	var out []*zip.File
	for _, f := range files {
		if !strings.HasSuffix(f.Name, suffix) {
			continue
		}
		name := LogicalName(f.Name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ExtractRecords parses every selected descriptor of zr. A failing entry is
// logged and reported in Skipped; it never stops the run.
func ExtractRecords(zr *zip.Reader, suffix string) *ExtractReport {
	report := &ExtractReport{}
	ids := make(map[string]struct{})

	for _, f := range SelectDescriptors(zr.File, suffix) {
		rec, err := extractOne(f)
		if err == nil {
			if _, dup := ids[rec.Identifier]; dup {
				err = fmt.Errorf("%w: %s", ErrDuplicateIdentifier, rec.Identifier)
			}
		}
		if err != nil {
			skip := &ExtractError{Path: f.Name, Err: err}
			report.Skipped = append(report.Skipped, skip)
			if errors.Is(err, ErrMissingIdentifier) || errors.Is(err, ErrDuplicateIdentifier) {
				log.Debug("descriptor skipped", "path", f.Name, "reason", err)
			} else {
				log.Warn("error processing descriptor", "path", f.Name, "err", err)
			}
			continue
		}
		ids[rec.Identifier] = struct{}{}
		report.Records = append(report.Records, rec)
	}
	return report
}

func extractOne(f *zip.File) (PackageRecord, error) {
	rc, err := f.Open()
	if err != nil {
		return PackageRecord{}, fmt.Errorf("cannot open entry: %w", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return PackageRecord{}, fmt.Errorf("cannot read entry: %w", err)
	}
	return ParseDescriptor(raw)
}
