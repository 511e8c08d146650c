package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JanikMartens/WiG/internal/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Write writes both store artifacts to dir, replacing any previous store.
//
// Each artifact is a MessagePack map written in store order, so the same
// records always produce the same bytes. Both files are fully written to
// temporary names before either one replaces its predecessor, and a failure
// to install the second restores the first.
func Write(dir string, s *Store) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create store dir %s: %w", dir, err)
	}

	recTmp, err := writeTemp(dir, RecordsFile, func(e encoder) error {
		if err := e.EncodeMapLen(len(s.entries)); err != nil {
			return err
		}
		for _, en := range s.entries {
			if err := e.EncodeString(en.Identifier); err != nil {
				return err
			}
			if err := e.encode(s.records[en.Identifier]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	idxTmp, err := writeTemp(dir, IndexFile, func(e encoder) error {
		if err := e.EncodeMapLen(len(s.entries)); err != nil {
			return err
		}
		for _, en := range s.entries {
			if err := e.EncodeString(en.Identifier); err != nil {
				return err
			}
			if err := e.EncodeString(en.Text); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = os.Remove(recTmp)
		return err
	}

	rec, err := replaceFile(recTmp, filepath.Join(dir, RecordsFile))
	if err != nil {
		_ = os.Remove(recTmp)
		_ = os.Remove(idxTmp)
		return fmt.Errorf("cannot install %s: %w", RecordsFile, err)
	}
	idx, err := replaceFile(idxTmp, filepath.Join(dir, IndexFile))
	if err != nil {
		_ = os.Remove(idxTmp)
		if rbErr := rec.rollback(); rbErr != nil {
			log.Warn("cannot restore previous store", "path", rec.dest, "err", rbErr)
		}
		return fmt.Errorf("cannot install %s: %w", IndexFile, err)
	}
	rec.commit()
	idx.commit()
	return nil
}

// writeTemp encodes one artifact into a temporary file next to its final name
// and returns the temporary path.
func writeTemp(dir, name string, fill func(encoder) error) (string, error) {
	f, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("cannot create %s: %w", name, err)
	}
	tmp := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("cannot write %s: %w", name, err)
	}

	bw := bufio.NewWriter(f)
	if err := fill(encoder{msgpack.NewEncoder(bw)}); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("cannot write %s: %w", name, err)
	}
	return tmp, nil
}

// replacement is an artifact moved into place whose predecessor, if any,
// is kept at backup until commit or rollback.
type replacement struct {
	dest, backup string
	hadOld       bool
}

// replaceFile moves src over dest, keeping dest as a backup. The caller must
// call commit or rollback on the result.
func replaceFile(src, dest string) (*replacement, error) {
	r := &replacement{dest: dest, backup: dest + ".bak"}
	_ = removeBackup(r.backup)
	if _, err := os.Stat(dest); err == nil {
		if err := os.Rename(dest, r.backup); err != nil {
			return nil, err
		}
		r.hadOld = true
	}
	if err := os.Rename(src, dest); err != nil {
		if r.hadOld {
			_ = os.Rename(r.backup, dest)
		}
		return nil, err
	}
	return r, nil
}

// rollback puts the previous artifact back, or removes dest if there was none.
func (r *replacement) rollback() error {
	if !r.hadOld {
		return os.Remove(r.dest)
	}
	return os.Rename(r.backup, r.dest)
}

// commit drops the backup.
func (r *replacement) commit() {
	if !r.hadOld {
		return
	}
	if err := removeBackup(r.backup); err != nil {
		log.Warn("cannot remove store backup", "path", r.backup, "err", err)
	}
}
