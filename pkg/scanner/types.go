package scanner

// FileDep describes one scanned source unit and its outgoing dependencies.
// For JavaScript/TypeScript the unit is a file; for Go it is a package
// directory. IDs are slash-separated paths relative to the scan root, or
// import paths for Go packages.
type FileDep struct {
	ID         string   // Stable node identifier
	Label      string   // Short display name (file or package name)
	Dir        string   // Containing directory relative to root
	Language   string   // Resolver that produced this unit
	Targets    []string // Resolved internal dependencies (IDs)
	External   []string // Bare specifiers / out-of-module imports
	Unresolved []string // Relative specifiers that resolved to nothing
}

// Result is the outcome of scanning a project tree.
type Result struct {
	RootPath string
	Module   string // Go module path, when the root carries a go.mod
	Files    []*FileDep
}

// TotalEdges counts all outgoing dependencies across scanned units.
func (r *Result) TotalEdges() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Targets) + len(f.External)
	}
	return n
}
