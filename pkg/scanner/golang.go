package scanner

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kestrel-tools/kestrel/internal/project"
)

// GoResolver extracts package-level import dependencies from Go sources.
// Units are package directories; node IDs are import paths so in-module
// imports line up with scanned packages.
type GoResolver struct {
	mu      sync.Mutex
	modules map[string]string // root -> module path ("" when no go.mod)
}

// NewGoResolver creates a GoResolver.
func NewGoResolver() *GoResolver {
	return &GoResolver{modules: make(map[string]string)}
}

// modulePath returns the module path for root, caching the go.mod lookup
// across worker goroutines.
func (r *GoResolver) modulePath(root string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mod, ok := r.modules[root]; ok {
		return mod
	}
	mod := ""
	if info, err := project.DetectModule(root); err == nil {
		mod = info.Path
	}
	r.modules[root] = mod
	return mod
}

// Name returns the resolver name.
func (r *GoResolver) Name() string { return "go" }

// Collect returns every directory containing at least one .go file.
func (r *GoResolver) Collect(root string, files []string) []string {
	seen := make(map[string]bool)
	var units []string
	for _, f := range files {
		if filepath.Ext(f) != ".go" {
			continue
		}
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			units = append(units, dir)
		}
	}
	return units
}

// Resolve parses the package in unit (a directory) and maps its imports.
func (r *GoResolver) Resolve(root, unit string) (*FileDep, error) {
	modulePath := r.modulePath(root)

	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, unit, func(fi os.FileInfo) bool {
		name := fi.Name()
		return filepath.Ext(name) == ".go" &&
			!strings.HasSuffix(name, "_test.go") &&
			name[0] != '.'
	}, parser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", unit, err)
	}
	if len(pkgs) == 0 {
		return nil, nil
	}

	rel, err := filepath.Rel(root, unit)
	if err != nil {
		return nil, fmt.Errorf("relativizing %s: %w", unit, err)
	}
	rel = filepath.ToSlash(rel)

	id := rel
	if modulePath != "" {
		if rel == "." {
			id = modulePath
		} else {
			id = modulePath + "/" + rel
		}
	}

	pkgName := ""
	importSet := make(map[string]bool)
	for name, pkg := range pkgs {
		// Prefer the non-main package name when a dir mixes main with tests
		if pkgName == "" || pkgName == "main" {
			pkgName = name
		}
		for _, file := range pkg.Files {
			for _, imp := range file.Imports {
				importSet[strings.Trim(imp.Path.Value, `"`)] = true
			}
		}
	}

	dep := &FileDep{
		ID:       id,
		Label:    pkgName,
		Dir:      rel,
		Language: r.Name(),
	}
	if dep.Dir == "." {
		dep.Dir = ""
	}

	for imp := range importSet {
		if modulePath != "" && (imp == modulePath || strings.HasPrefix(imp, modulePath+"/")) {
			dep.Targets = append(dep.Targets, imp)
		} else {
			dep.External = append(dep.External, imp)
		}
	}

	sort.Strings(dep.Targets)
	sort.Strings(dep.External)
	return dep, nil
}
