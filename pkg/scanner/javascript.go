package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// jsExtensions are probed, in order, when resolving a relative specifier.
var jsExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

var (
	jsImportRe  = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w${},*\s]+\s+from\s+)?['"]([^'"]+)['"]`)
	jsExportRe  = regexp.MustCompile(`(?m)^\s*export\s+[\w${},*\s]+\s+from\s+['"]([^'"]+)['"]`)
	jsRequireRe = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDynImpRe  = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// JavaScriptResolver extracts import/require/export-from dependencies from
// JavaScript and TypeScript files. Relative specifiers are resolved against
// the tree with extension and index probing; bare specifiers are external.
type JavaScriptResolver struct{}

// NewJavaScriptResolver creates a JavaScriptResolver.
func NewJavaScriptResolver() *JavaScriptResolver {
	return &JavaScriptResolver{}
}

// Name returns the resolver name.
func (r *JavaScriptResolver) Name() string { return "javascript" }

// Collect returns every JavaScript/TypeScript file under root.
// Declaration files (.d.ts) are skipped.
func (r *JavaScriptResolver) Collect(root string, files []string) []string {
	var units []string
	for _, f := range files {
		if strings.HasSuffix(f, ".d.ts") {
			continue
		}
		ext := filepath.Ext(f)
		for _, known := range jsExtensions {
			if ext == known {
				units = append(units, f)
				break
			}
		}
	}
	return units
}

// Resolve parses one file and resolves its specifiers.
func (r *JavaScriptResolver) Resolve(root, unit string) (*FileDep, error) {
	data, err := os.ReadFile(unit)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", unit, err)
	}

	rel, err := filepath.Rel(root, unit)
	if err != nil {
		return nil, fmt.Errorf("relativizing %s: %w", unit, err)
	}
	rel = filepath.ToSlash(rel)

	dep := &FileDep{
		ID:       rel,
		Label:    path.Base(rel),
		Dir:      path.Dir(rel),
		Language: r.Name(),
	}
	if dep.Dir == "." {
		dep.Dir = ""
	}

	specs := extractSpecifiers(string(data))
	for _, spec := range specs {
		if !isRelativeSpecifier(spec) {
			dep.External = append(dep.External, spec)
			continue
		}

		resolved, ok := resolveRelative(root, path.Dir(rel), spec)
		if !ok {
			dep.Unresolved = append(dep.Unresolved, spec)
			continue
		}
		dep.Targets = append(dep.Targets, resolved)
	}

	sort.Strings(dep.Targets)
	sort.Strings(dep.External)
	sort.Strings(dep.Unresolved)
	return dep, nil
}

// extractSpecifiers pulls every import specifier out of src, deduplicated
// in first-seen order. Comment stripping is line-based; block comments
// spanning an import line are rare enough in practice to ignore.
func extractSpecifiers(src string) []string {
	seen := make(map[string]bool)
	var specs []string

	add := func(matches [][]string) {
		for _, m := range matches {
			spec := m[1]
			if spec == "" || seen[spec] {
				continue
			}
			seen[spec] = true
			specs = append(specs, spec)
		}
	}

	src = stripLineComments(src)
	add(jsImportRe.FindAllStringSubmatch(src, -1))
	add(jsExportRe.FindAllStringSubmatch(src, -1))
	add(jsRequireRe.FindAllStringSubmatch(src, -1))
	add(jsDynImpRe.FindAllStringSubmatch(src, -1))

	return specs
}

// stripLineComments removes // comments so commented-out imports are ignored.
func stripLineComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			// Keep protocol-ish strings like "https://..." intact
			if idx == 0 || line[idx-1] != ':' {
				lines[i] = line[:idx]
			}
		}
	}
	return strings.Join(lines, "\n")
}

func isRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".."
}

// resolveRelative maps a relative specifier to a file under root.
// Probe order: exact path, each known extension, then index files when the
// specifier names a directory. Returns the slash path relative to root.
func resolveRelative(root, fromDir, spec string) (string, bool) {
	joined := path.Clean(path.Join(fromDir, spec))
	if strings.HasPrefix(joined, "..") {
		return "", false
	}

	candidates := make([]string, 0, 2*len(jsExtensions)+1)
	candidates = append(candidates, joined)
	for _, ext := range jsExtensions {
		candidates = append(candidates, joined+ext)
	}
	for _, ext := range jsExtensions {
		candidates = append(candidates, path.Join(joined, "index"+ext))
	}

	for _, c := range candidates {
		abs := filepath.Join(root, filepath.FromSlash(c))
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			continue
		}
		return c, true
	}
	return "", false
}
