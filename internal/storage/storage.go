package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/league-stats/internal/stats"
)

// DefaultDir is the cache directory used when none is configured
const DefaultDir = "data_cache"

// Storage handles persistence of normalized tables
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating the directory if needed
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = DefaultDir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, &stats.IOError{Op: "creating cache directory", Path: dataDir, Err: err}
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the cache directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the cache file for a statistic kind
func (s *Storage) Path(kind stats.Kind) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s_stats.csv", kind))
}

// Artifact resolves an export or plot file name inside the cache directory.
// Absolute paths are returned unchanged.
func (s *Storage) Artifact(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// Write replaces the cached table for a kind and returns the file path
func (s *Storage) Write(table *stats.Table, kind stats.Kind) (string, error) {
	if table == nil {
		return "", fmt.Errorf("writing %s cache: nil table", kind)
	}

	path := s.Path(kind)
	err := WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(table.Columns); err != nil {
			return err
		}
		if err := cw.WriteAll(table.Rows); err != nil {
			return err
		}
		return cw.Error()
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

// Load reads the cached table for a kind. A missing cache file is an
// IOError wrapping os.ErrNotExist.
func (s *Storage) Load(kind stats.Kind) (*stats.Table, error) {
	path := s.Path(kind)

	f, err := os.Open(path)
	if err != nil {
		return nil, &stats.IOError{Op: "reading cache", Path: path, Err: err}
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &stats.ParseError{Reason: fmt.Sprintf("cache file %s", path), Err: err}
	}
	if len(records) == 0 {
		return nil, &stats.ParseError{Reason: fmt.Sprintf("cache file %s has no header row", path)}
	}

	table := stats.NewTable(kind, records[0])
	for _, row := range records[1:] {
		if err := table.AppendRow(row); err != nil {
			return nil, &stats.ParseError{Reason: fmt.Sprintf("cache file %s", path), Err: err}
		}
	}

	return table, nil
}

// Exists reports whether a cache file is present for the kind
func (s *Storage) Exists(kind stats.Kind) bool {
	_, err := os.Stat(s.Path(kind))
	return err == nil
}

// WriteFileAtomic writes path through a temp file in the same directory,
// syncing and renaming it over the target once write succeeds.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &stats.IOError{Op: "creating directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &stats.IOError{Op: "creating temp file", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return &stats.IOError{Op: "writing", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &stats.IOError{Op: "syncing", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &stats.IOError{Op: "closing", Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return &stats.IOError{Op: "setting permissions", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &stats.IOError{Op: "replacing", Path: path, Err: err}
	}

	return nil
}
