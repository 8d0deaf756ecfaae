// Package registry loads a directory of table definitions and resolves table
// files to the schema that describes them.
package registry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ssargent/tblman/pkg/logging"
	"github.com/ssargent/tblman/pkg/schema"
	"github.com/ssargent/tblman/pkg/table"
)

// ErrNoDefinition reports a table name that no loaded definition declares.
var ErrNoDefinition = errors.New("no table definition")

// Problem records a definition file that could not be used.
type Problem struct {
	Path string
	Err  error
}

// Registry maps table names to schemas.
type Registry struct {
	dir      string
	schemas  map[string]*schema.Schema
	problems []Problem
	logger   *slog.Logger
}

// Load reads every .json and .jsonc file in dir. Files that fail to load are
// logged and kept in Problems; they do not fail the load.
func Load(dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions directory: %w", err)
	}

	r := &Registry{
		dir:     dir,
		schemas: make(map[string]*schema.Schema),
		logger:  logger,
	}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".json" && ext != ".jsonc") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.add(path); err != nil {
			logger.Error("incorrect table definition", "file", path, "err", err)
			r.problems = append(r.problems, Problem{Path: path, Err: err})
			continue
		}
		logger.Debug("loaded table definition", "file", path)
	}
	logger.Info("table definitions loaded", "dir", dir, "count", len(r.schemas), "problems", len(r.problems))
	return r, nil
}

func (r *Registry) add(path string) error {
	s, err := schema.LoadFile(path)
	if err != nil {
		return err
	}
	name := s.TableName()
	if name == "" {
		return fmt.Errorf("no %s default value", schema.TableNameField)
	}
	if prev, ok := r.schemas[name]; ok {
		return fmt.Errorf("table %q already defined by %s", name, prev.Source())
	}
	r.schemas[name] = s
	return nil
}

// Dir returns the directory the registry was loaded from.
func (r *Registry) Dir() string { return r.dir }

// Len returns the number of loaded definitions.
func (r *Registry) Len() int { return len(r.schemas) }

// Problems returns the definition files that were skipped.
func (r *Registry) Problems() []Problem { return r.problems }

// Lookup returns the schema of a table name.
func (r *Registry) Lookup(name string) (*schema.Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: table name %q", ErrNoDefinition, name)
	}
	return s, nil
}

// Names returns the table names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Family groups table names sharing the prefix before the first dot.
type Family struct {
	Name   string
	Tables []string
}

// Families returns the table names grouped by family, both levels sorted.
func (r *Registry) Families() []Family {
	byPrefix := make(map[string][]string)
	for _, name := range r.Names() {
		prefix, _, _ := strings.Cut(name, ".")
		byPrefix[prefix] = append(byPrefix[prefix], name)
	}
	families := make([]Family, 0, len(byPrefix))
	for prefix, tables := range byPrefix {
		families = append(families, Family{Name: prefix, Tables: tables})
	}
	sort.Slice(families, func(i, j int) bool { return families[i].Name < families[j].Name })
	return families
}

// New creates a table of the named definition with default values.
func (r *Registry) New(name string, opts ...table.Option) (*table.Table, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return table.New(s, append([]table.Option{table.WithLogger(r.logger)}, opts...)...), nil
}

// Open identifies the table file at path and decodes it with its definition.
func (r *Registry) Open(path string, order binary.ByteOrder, opts ...table.Option) (*table.Table, error) {
	name, err := table.IdentifyFile(path, order)
	if err != nil {
		return nil, err
	}
	tbl, err := r.New(name, opts...)
	if err != nil {
		r.logger.Error("no table definition available", "file", path, "table", name)
		return nil, err
	}
	if err := tbl.DecodeFromFile(path, order); err != nil {
		return nil, err
	}
	return tbl, nil
}
