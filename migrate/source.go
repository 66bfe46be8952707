// Package migrate enumerates versioned migration scripts. It keeps the
// bookkeeping only; executing migrations is out of scope for tether and
// belongs to the surrounding application's migration runner.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// Migration is one versioned SQL script on disk.
type Migration struct {
	Version int64
	Name    string
	Path    string
}

// Source enumerates the migration scripts under one directory. File names
// follow the usual "<version>_<name>.sql" convention; anything else is
// ignored.
type Source struct {
	dir    string
	logger *zap.SugaredLogger
}

// NewSource creates a source over dir, logging through logger.
func NewSource(dir string, logger *zap.SugaredLogger) *Source {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Source{dir: dir, logger: logger}
}

// Dir returns the directory the source reads from.
func (s *Source) Dir() string { return s.dir }

// All returns every migration in the directory, sorted by version.
// Duplicate versions are an error.
func (s *Source) All() ([]Migration, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %q: %w", s.dir, err)
	}

	seen := make(map[int64]string)
	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		if prev, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %q and %q", m.Version, prev, entry.Name())
		}
		seen[m.Version] = entry.Name()
		m.Path = filepath.Join(s.dir, entry.Name())
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	s.logger.Debugw("Enumerated migrations", "dir", s.dir, "count", len(migrations))
	return migrations, nil
}

// Pending returns the migrations whose versions are not in applied,
// sorted by version.
func (s *Source) Pending(applied []int64) ([]Migration, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	done := make(map[int64]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	var pending []Migration
	for _, m := range all {
		if _, ok := done[m.Version]; !ok {
			pending = append(pending, m)
		}
	}
	if len(pending) > 0 {
		s.logger.Infow("Pending migrations", "dir", s.dir, "count", len(pending))
	}
	return pending, nil
}

// parseFileName splits "<version>_<name>.sql" into its parts.
func parseFileName(name string) (Migration, bool) {
	const ext = ".sql"
	if len(name) <= len(ext) || name[len(name)-len(ext):] != ext {
		return Migration{}, false
	}
	base := name[:len(name)-len(ext)]

	sep := -1
	for i, r := range base {
		if r == '_' {
			sep = i
			break
		}
	}
	if sep <= 0 || sep == len(base)-1 {
		return Migration{}, false
	}

	version, err := strconv.ParseInt(base[:sep], 10, 64)
	if err != nil {
		return Migration{}, false
	}
	return Migration{Version: version, Name: base[sep+1:]}, true
}
