package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tether/core"

	"gopkg.in/yaml.v3"
)

// DumpFileName is used when the configured schema path is a directory.
const DumpFileName = "schema.yaml"

// File is the on-disk YAML representation of a schema dump.
type File struct {
	Backend   string                 `yaml:"backend"`
	DumpedAt  time.Time              `yaml:"dumped_at"`
	Relations []*core.RelationSchema `yaml:"relations"`
}

// Relation returns the dumped schema for one relation, if present.
func (f *File) Relation(name string) (*core.RelationSchema, bool) {
	for _, rel := range f.Relations {
		if rel.Relation == name {
			return rel, true
		}
	}
	return nil, false
}

// ResolveDumpPath maps the configured schema path to a concrete file: a
// directory path gets DumpFileName appended, anything else is used as-is.
func ResolveDumpPath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DumpFileName)
	}
	return path
}

// Dump writes the relation schemas to path as YAML, sorted by relation
// name for stable output.
func Dump(path, backend string, relations []*core.RelationSchema) error {
	sorted := make([]*core.RelationSchema, len(relations))
	copy(sorted, relations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Relation < sorted[j].Relation })

	file := &File{
		Backend:   backend,
		DumpedAt:  time.Now().UTC(),
		Relations: sorted,
	}

	out, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal schema dump: %w", err)
	}

	target := ResolveDumpPath(path)
	if dir := filepath.Dir(target); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create schema dump directory: %w", err)
		}
	}
	if err := os.WriteFile(target, out, 0644); err != nil {
		return fmt.Errorf("write schema dump: %w", err)
	}
	return nil
}

// Load reads a schema dump back from path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(ResolveDumpPath(path))
	if err != nil {
		return nil, fmt.Errorf("read schema dump: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse schema dump: %w", err)
	}
	return &file, nil
}
