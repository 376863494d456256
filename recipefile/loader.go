package recipefile

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	gobuildplan "github.com/hpcforge/go-buildplan"
)

// Loader parses recipe files. The zero-configuration loader is silent; wire
// a logger with WithLogger to see per-file debug output.
type Loader struct {
	parser *hclparse.Parser
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger enables debug logging. A nil logger disables logging, which is
// the default.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a recipe file loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		parser: hclparse.NewParser(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile parses one recipe file and converts its recipe blocks.
func (l *Loader) LoadFile(path string) ([]*gobuildplan.Recipe, error) {
	l.debug("parsing recipe file", "path", path)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", path, diags.Error())
	}

	var root rootFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", path, diags.Error())
	}

	recipes := make([]*gobuildplan.Recipe, 0, len(root.Recipes))
	for _, block := range root.Recipes {
		recipe, err := convertRecipe(block)
		if err != nil {
			return nil, fmt.Errorf("%s: recipe %q: %w", path, block.Name, err)
		}
		recipes = append(recipes, recipe)
	}

	l.debug("parsed recipe file", "path", path, "recipes", len(recipes))
	return recipes, nil
}

// Parse converts recipe blocks from an in-memory buffer. filename is used
// in diagnostics only.
func (l *Loader) Parse(filename string, src []byte) ([]*gobuildplan.Recipe, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var root rootFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	recipes := make([]*gobuildplan.Recipe, 0, len(root.Recipes))
	for _, block := range root.Recipes {
		recipe, err := convertRecipe(block)
		if err != nil {
			return nil, fmt.Errorf("%s: recipe %q: %w", filename, block.Name, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// LoadDir loads every .hcl file under dir, recursively, in lexicographic
// path order.
func (l *Loader) LoadDir(dir string) ([]*gobuildplan.Recipe, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".hcl") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	var recipes []*gobuildplan.Recipe
	for _, path := range paths {
		loaded, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, loaded...)
	}
	l.debug("loaded recipe directory", "dir", dir, "files", len(paths), "recipes", len(recipes))
	return recipes, nil
}

// LoadRegistry loads every recipe under dir into a fresh registry. This is
// the usual entry point for tools: parse errors and registration errors
// (duplicates, invariant violations) surface the same way.
func LoadRegistry(dir string, opts ...Option) (*gobuildplan.RecipeRegistry, error) {
	recipes, err := NewLoader(opts...).LoadDir(dir)
	if err != nil {
		return nil, err
	}
	registry := gobuildplan.NewRecipeRegistry()
	for _, recipe := range recipes {
		if err := registry.Register(recipe); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (l *Loader) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
