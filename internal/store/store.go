package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const sqliteFileName = "checktree.sqlite"

var ErrTreeNotFound = errors.New("tree not found")

// Store is a directory holding one checktree database.
type Store struct {
	Dir string
}

// DefaultDir is the data directory used when no --dir is given.
func DefaultDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// IsDatabaseFile reports whether name is the database or one of its WAL
// sidecar files.
func IsDatabaseFile(name string) bool {
	base := filepath.Base(name)
	return base == sqliteFileName || base == sqliteFileName+"-wal" || base == sqliteFileName+"-shm"
}

// ModTime is the latest modification time of the database and its WAL file.
func (s Store) ModTime() time.Time {
	var latest time.Time
	for _, p := range []string{s.sqlitePath(), s.sqlitePath() + "-wal"} {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		if st.ModTime().After(latest) {
			latest = st.ModTime()
		}
	}
	return latest
}
