// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup keeps timestamped, byte-identical copies of the target
// application's configuration files and puts the newest copy back on request.
//
// Backups live in a single flat directory and are named
// "<kind>_<YYYYMMDD_HHMMSS>.json". Because the timestamp is zero-padded, the
// lexicographically greatest name of a kind is also the most recent one.
// Nothing in this package deletes a backup.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
)

var (
	// ErrIO wraps failures to create the backup directory or copy a file.
	ErrIO = errors.New("backup i/o error")
	// ErrNotFound is returned by Restore when no kind has a backup.
	ErrNotFound = errors.New("no backup found")
)

// DirName is the backup directory created under the user's home.
const DirName = ".cursor_backup"

// DefaultDir returns <home>/.cursor_backup.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Store reads and writes backups in Dir.
type Store struct {
	Dir   string
	Clock Clock
}

// New returns a Store rooted at dir using the wall clock.
func New(dir string) *Store {
	return &Store{Dir: dir, Clock: SystemClock}
}

// Result reports what a restore touched.
type Result struct {
	Restored []model.BackupRecord
	Missing  []model.FileKind
}

func (s *Store) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Backup copies every existing file of loc into the backup directory.
// Missing sources are skipped. When a copy fails, copies already written stay
// in place and the error wraps ErrIO.
func (s *Store) Backup(loc model.ConfigFileLocation) ([]model.BackupRecord, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrIO, s.Dir, err)
	}

	ts := s.now().UTC().Truncate(time.Second)
	var records []model.BackupRecord
	for _, kind := range model.Kinds {
		src := loc.Path(kind)
		if src == "" {
			continue
		}
		info, err := os.Stat(src)
		if errors.Is(err, os.ErrNotExist) {
			logging.Debugf("backup: %s file %s does not exist, skipping", kind, src)
			continue
		}
		if err != nil {
			return records, fmt.Errorf("%w: stat %s: %v", ErrIO, src, err)
		}
		if info.IsDir() {
			return records, fmt.Errorf("%w: %s is a directory", ErrIO, src)
		}

		dst := s.freeName(kind, ts)
		if err := copyFile(src, dst); err != nil {
			return records, fmt.Errorf("%w: copy %s: %v", ErrIO, src, err)
		}
		records = append(records, model.BackupRecord{Kind: kind, Timestamp: ts, Path: dst})
		logging.Infof("backed up %s to %s", src, dst)
	}
	return records, nil
}

// freeName picks the canonical name for kind at ts, or a "_NN" suffixed
// variant when several backups land in the same second. The suffix sorts
// after the canonical name, so the order stays chronological.
func (s *Store) freeName(kind model.FileKind, ts time.Time) string {
	p := filepath.Join(s.Dir, model.BackupName(kind, ts))
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return p
	}
	stamp := ts.UTC().Format(model.BackupTimeLayout)
	for i := 1; ; i++ {
		p = filepath.Join(s.Dir, fmt.Sprintf("%s_%s_%02d.json", kind, stamp, i))
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return p
		}
	}
}

// List returns every backup, newest first.
func (s *Store) List() ([]model.BackupRecord, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, s.Dir, err)
	}
	var out []model.BackupRecord
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if rec, ok := s.parse(e.Name()); ok {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return filepath.Base(out[i].Path) > filepath.Base(out[j].Path)
	})
	return out, nil
}

// Latest returns the most recent backup of kind.
func (s *Store) Latest(kind model.FileKind) (model.BackupRecord, bool, error) {
	all, err := s.List()
	if err != nil {
		return model.BackupRecord{}, false, err
	}
	var best model.BackupRecord
	found := false
	for _, rec := range all {
		if rec.Kind != kind {
			continue
		}
		if !found || filepath.Base(rec.Path) > filepath.Base(best.Path) {
			best, found = rec, true
		}
	}
	return best, found, nil
}

// Restore copies the most recent backup of each kind over the live file.
// A kind without any backup is skipped and listed in Result.Missing. When no
// kind can be restored at all, nothing is modified and ErrNotFound is
// returned. Backup content is not validated.
func (s *Store) Restore(loc model.ConfigFileLocation) (Result, error) {
	var res Result
	for _, kind := range model.Kinds {
		rec, ok, err := s.Latest(kind)
		if err != nil {
			return res, err
		}
		if !ok {
			logging.Warnf("restore: no %s backup in %s, leaving live file untouched", kind, s.Dir)
			res.Missing = append(res.Missing, kind)
			continue
		}
		if err := restoreOne(rec, loc.Path(kind)); err != nil {
			return res, err
		}
		res.Restored = append(res.Restored, rec)
	}
	if len(res.Restored) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNotFound, s.Dir)
	}
	return res, nil
}

// RestoreRecords puts exactly the given backups back in place. Every record
// is attempted; failures are joined.
func (s *Store) RestoreRecords(loc model.ConfigFileLocation, records []model.BackupRecord) error {
	var errs []error
	for _, rec := range records {
		if err := restoreOne(rec, loc.Path(rec.Kind)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func restoreOne(rec model.BackupRecord, dst string) error {
	if dst == "" {
		return fmt.Errorf("%w: no live path for %s", ErrIO, rec.Kind)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, filepath.Dir(dst), err)
	}
	if err := copyFile(rec.Path, dst); err != nil {
		return fmt.Errorf("%w: restore %s: %v", ErrIO, dst, err)
	}
	logging.Infof("restored %s from %s", dst, rec.Path)
	return nil
}

// parse recognises "<kind>_..." file names. The timestamp is best effort;
// selection only relies on the name.
func (s *Store) parse(name string) (model.BackupRecord, bool) {
	for _, kind := range model.Kinds {
		prefix := string(kind) + "_"
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rec := model.BackupRecord{Kind: kind, Path: filepath.Join(s.Dir, name)}
		rest := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		if len(rest) >= len(model.BackupTimeLayout) {
			if ts, err := time.Parse(model.BackupTimeLayout, rest[:len(model.BackupTimeLayout)]); err == nil {
				rec.Timestamp = ts
			}
		}
		return rec, true
	}
	return model.BackupRecord{}, false
}

// copyFile writes src to a temporary file next to dst and renames it into
// place, so dst is either the old or the complete new content.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return err
	}
	return nil
}
