package orm

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tether/gateway"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// RelationDef declares one relation the container must resolve.
type RelationDef struct {
	// Name is the relation name repositories refer to.
	Name string `yaml:"relation"`
	// Dataset is the physical table; defaults to Name.
	Dataset string `yaml:"dataset,omitempty"`
	// SkipSchema disables schema inference for this relation.
	SkipSchema bool `yaml:"skip_schema,omitempty"`
}

// Builder accumulates relation definitions and late-bound setup state and
// materializes the immutable Container. It is the explicit handle that
// replaces dynamic forwarding to an underlying configuration object:
// advanced callers get the Builder itself.
type Builder struct {
	cfg  *Configuration
	defs map[string]*RelationDef
}

func newBuilder(cfg *Configuration) *Builder {
	return &Builder{
		cfg:  cfg,
		defs: make(map[string]*RelationDef),
	}
}

// Gateway resolves the configuration's gateway.
func (b *Builder) Gateway() (*gateway.Gateway, error) {
	return b.cfg.Gateway()
}

// Connection resolves the raw connection, a convenience for setup hooks
// that need to prepare the store before the container is built.
func (b *Builder) Connection() (*sql.DB, error) {
	return b.cfg.Connection()
}

// Register adds a relation definition, replacing any prior definition
// under the same name.
func (b *Builder) Register(def RelationDef) {
	if def.Dataset == "" {
		def.Dataset = def.Name
	}
	b.defs[def.Name] = &def
}

// Relation registers a plain relation by name.
func (b *Builder) Relation(name string) {
	b.Register(RelationDef{Name: name})
}

// Defs returns the accumulated relation definitions, sorted by name.
func (b *Builder) Defs() []RelationDef {
	names := make([]string, 0, len(b.defs))
	for name := range b.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]RelationDef, 0, len(names))
	for _, name := range names {
		defs = append(defs, *b.defs[name])
	}
	return defs
}

// AutoRegister loads relation definitions from the YAML files found
// directly under dir. Each file holds either a single definition or a
// list of them.
func (b *Builder) AutoRegister(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("auto-register %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("auto-register %q: %w", path, err)
		}

		var defs []RelationDef
		if err := yaml.Unmarshal(raw, &defs); err != nil {
			var single RelationDef
			if err := yaml.Unmarshal(raw, &single); err != nil {
				return fmt.Errorf("auto-register %q: %w", path, err)
			}
			defs = append(defs, single)
		}

		for _, def := range defs {
			if def.Name == "" {
				return fmt.Errorf("auto-register %q: definition without relation name", path)
			}
			b.Register(def)
		}
	}
	return nil
}

// Build materializes the immutable container from the accumulated
// definitions, introspecting each relation's schema unless inference was
// skipped.
func (b *Builder) Build(ctx context.Context) (*Container, error) {
	gw, err := b.cfg.Gateway()
	if err != nil {
		return nil, err
	}

	relations := make(map[string]*Relation, len(b.defs))
	for _, def := range b.Defs() {
		rel := &Relation{
			Name:    def.Name,
			Dataset: def.Dataset,
			gw:      gw,
		}
		if !def.SkipSchema {
			schema, err := gw.Describe(ctx, def.Dataset)
			if err != nil {
				return nil, fmt.Errorf("infer schema for %q: %w", def.Name, err)
			}
			rel.Schema = schema
		}
		relations[def.Name] = rel
	}

	return &Container{
		id:        uuid.New().String(),
		relations: relations,
		gateways:  map[string]*gateway.Gateway{DefaultGatewayName: gw},
	}, nil
}
