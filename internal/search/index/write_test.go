package index

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/JanikMartens/WiG/internal/search"
	"github.com/vmihailenco/msgpack/v5"
)

func sampleRecords() []search.PackageRecord {
	return []search.PackageRecord{
		{Identifier: "Zed.Editor", Name: "Zed", ShortDescription: "fast editor"},
		{Identifier: "Alpha.App", Name: "Alpha"},
		{Identifier: "Mozilla.Firefox", Name: "Mozilla Firefox", Description: "browser"},
	}
}

func readArtifacts(t *testing.T, dir string) ([]byte, []byte) {
	t.Helper()
	rec, err := os.ReadFile(filepath.Join(dir, RecordsFile))
	if err != nil {
		t.Fatal(err)
	}
	idx, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	return rec, idx
}

func TestWrite_Deterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	if err := Write(a, Build(sampleRecords())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(b, Build(sampleRecords())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ra, ia := readArtifacts(t, a)
	rb, ib := readArtifacts(t, b)
	if !bytes.Equal(ra, rb) || !bytes.Equal(ia, ib) {
		t.Fatalf("artifacts differ between identical runs")
	}
}

func TestWrite_OverwritesPreviousStore(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, Build(sampleRecords())); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(dir, Build([]search.PackageRecord{{Identifier: "Only.One"}})); err != nil {
		t.Fatalf("Write: %v", err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected previous store to be replaced, got %d entries", s.Len())
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	baks, _ := filepath.Glob(filepath.Join(dir, "*.bak"))
	if len(leftovers)+len(baks) != 0 {
		t.Fatalf("temporary files left behind: %v %v", leftovers, baks)
	}
}

func TestWrite_FailedIndexInstallRestoresPreviousStore(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backup removal retries make this slow on windows")
	}
	dir := t.TempDir()
	if err := Write(dir, Build([]search.PackageRecord{{Identifier: "Foo.Bar", Name: "Old Name"}})); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// A non-empty directory at the index backup path blocks moving the old index aside.
	if err := os.MkdirAll(filepath.Join(dir, IndexFile+".bak", "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Write(dir, Build([]search.PackageRecord{{Identifier: "Foo.Bar", Name: "New Name"}})); err == nil {
		t.Fatalf("expected index install to fail")
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r, _ := s.Record("Foo.Bar")
	if r.Name != "Old Name" {
		t.Fatalf("records replaced without index: name=%q", r.Name)
	}
	if text := s.Entries()[0].Text; text != "foo.bar old name" {
		t.Fatalf("unexpected index text: %q", text)
	}
	if leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp")); len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}
}

func TestWrite_RecordsUseManifestKeys(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, Build(sampleRecords()[:1])); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rec, idx := readArtifacts(t, dir)

	var records map[string]map[string]string
	if err := msgpack.Unmarshal(rec, &records); err != nil {
		t.Fatalf("records are not a plain msgpack map: %v", err)
	}
	want := map[string]string{
		"PackageIdentifier": "Zed.Editor",
		"PackageName":       "Zed",
		"ShortDescription":  "fast editor",
		"Description":       "",
	}
	got := records["Zed.Editor"]
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: got %q want %q", k, got[k], v)
		}
	}

	var index map[string]string
	if err := msgpack.Unmarshal(idx, &index); err != nil {
		t.Fatalf("index is not a plain msgpack map: %v", err)
	}
	if index["Zed.Editor"] != "zed.editor zed" {
		t.Fatalf("unexpected index text: %q", index["Zed.Editor"])
	}
}

func TestEncoder_TimeAsISO8601(t *testing.T) {
	var buf bytes.Buffer
	e := encoder{msgpack.NewEncoder(&buf)}
	v := map[string]any{
		"ReleaseDate": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		"Updated":     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"Nested":      []any{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "plain"},
	}
	if err := e.encode(v); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["ReleaseDate"] != "2024-01-02" {
		t.Fatalf("unexpected date encoding: %#v", got["ReleaseDate"])
	}
	if got["Updated"] != "2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected datetime encoding: %#v", got["Updated"])
	}
	nested, ok := got["Nested"].([]any)
	if !ok || len(nested) != 2 || nested[0] != "2023-12-31" {
		t.Fatalf("unexpected nested encoding: %#v", got["Nested"])
	}
}

func TestEncoder_TimeStructFieldAsISO8601(t *testing.T) {
	type release struct {
		Identifier string     `msgpack:"PackageIdentifier"`
		Date       time.Time  `msgpack:"ReleaseDate"`
		Updated    *time.Time `msgpack:"Updated"`
		Extra      any        `msgpack:"Extra"`
	}
	updated := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	var buf bytes.Buffer
	e := encoder{msgpack.NewEncoder(&buf)}
	if err := e.encode(release{
		Identifier: "Foo.Bar",
		Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Updated:    &updated,
		Extra:      time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["ReleaseDate"] != "2024-01-02" || got["Updated"] != "2024-05-06T07:08:09Z" || got["Extra"] != "2023-12-31" {
		t.Fatalf("time fields not ISO-8601: %#v", got)
	}
}
