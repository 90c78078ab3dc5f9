package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/kestrel-tools/kestrel/internal/project"
	"github.com/kestrel-tools/kestrel/pkg/logger"
)

// DefaultIgnoreDirs are directories skipped during traversal.
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	"dist", "build", "bin", "tmp", "temp",
	".idea", ".vscode", ".vs",
}

// Options configures a Scanner.
type Options struct {
	IgnoreDirs []string // Directories to skip (default: DefaultIgnoreDirs)
	Languages  []string // Resolver names to run (default: all registered)
	Workers    int      // Worker pool size (default: NumCPU)
}

// Resolver extracts dependencies for one language.
//
// Collect receives the scan root and every non-ignored file path and returns
// the work units the resolver wants to process (files for JavaScript,
// package directories for Go). Resolve turns one unit into a FileDep.
type Resolver interface {
	Name() string
	Collect(root string, files []string) []string
	Resolve(root, unit string) (*FileDep, error)
}

// Scanner walks a source tree and extracts per-unit dependencies.
type Scanner struct {
	opts      Options
	resolvers []Resolver
	logger    logger.Logger
}

// New creates a Scanner with the default resolver set (JavaScript and Go).
func New(opts Options) *Scanner {
	return &Scanner{
		opts:      opts,
		resolvers: []Resolver{NewJavaScriptResolver(), NewGoResolver()},
		logger:    logger.Default(),
	}
}

// WithLogger returns a Scanner that logs through log.
func (s *Scanner) WithLogger(log logger.Logger) *Scanner {
	return &Scanner{
		opts:      s.opts,
		resolvers: s.resolvers,
		logger:    log,
	}
}

// WithResolvers replaces the resolver set.
func (s *Scanner) WithResolvers(resolvers ...Resolver) *Scanner {
	return &Scanner{
		opts:      s.opts,
		resolvers: resolvers,
		logger:    s.logger,
	}
}

type scanJob struct {
	resolver Resolver
	unit     string
}

type scanResult struct {
	dep *FileDep
	err error
}

// Scan walks root and resolves dependencies with a worker pool.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", root)
	}

	s.logger.Info("Starting scan", logger.F("path", root))

	res := &Result{RootPath: root}
	if mod, err := project.DetectModule(root); err == nil {
		res.Module = mod.Path
		s.logger.Debug("Go module detected", logger.F("module", mod.Path))
	}

	files, err := s.collectFiles(root)
	if err != nil {
		return nil, fmt.Errorf("collecting files: %w", err)
	}
	s.logger.Debug("Collected files", logger.F("count", len(files)))

	jobs := make([]scanJob, 0, len(files))
	for _, r := range s.resolvers {
		if !s.languageEnabled(r.Name()) {
			continue
		}
		for _, unit := range r.Collect(root, files) {
			jobs = append(jobs, scanJob{resolver: r, unit: unit})
		}
	}

	deps, err := s.runWorkers(ctx, root, jobs)
	if err != nil {
		return nil, err
	}

	// Deterministic order regardless of worker scheduling
	sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })
	res.Files = deps

	s.logger.Info("Scan complete",
		logger.F("units", len(res.Files)),
		logger.F("edges", res.TotalEdges()))

	return res, nil
}

// runWorkers resolves jobs on a bounded worker pool.
func (s *Scanner) runWorkers(ctx context.Context, root string, jobs []scanJob) ([]*FileDep, error) {
	numWorkers := s.opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(jobs) && len(jobs) > 0 {
		numWorkers = len(jobs)
	}

	jobCh := make(chan scanJob, len(jobs))
	resultCh := make(chan scanResult, len(jobs))
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				dep, err := job.resolver.Resolve(root, job.unit)
				resultCh <- scanResult{dep: dep, err: err}
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				close(jobCh)
				return
			case jobCh <- job:
			}
		}
		close(jobCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	deps := make([]*FileDep, 0, len(jobs))
	for r := range resultCh {
		if r.err != nil {
			// Parse failures skip the unit, the rest of the tree still renders
			s.logger.Warn("Failed to resolve unit", logger.F("error", r.err))
			continue
		}
		if r.dep != nil {
			deps = append(deps, r.dep)
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return deps, nil
}

// collectFiles walks root and returns every file path not excluded by the
// ignore rules. Hidden directories are skipped, symlinks are not followed.
func (s *Scanner) collectFiles(root string) ([]string, error) {
	ignore := s.opts.IgnoreDirs
	if len(ignore) == 0 {
		ignore = DefaultIgnoreDirs
	}
	ignoreSet := make(map[string]bool, len(ignore))
	for _, d := range ignore {
		ignoreSet[d] = true
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warn("Skipping unreadable path",
				logger.F("path", path),
				logger.F("error", err))
			return nil
		}

		name := info.Name()
		if info.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if ignoreSet[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) languageEnabled(name string) bool {
	if len(s.opts.Languages) == 0 {
		return true
	}
	for _, l := range s.opts.Languages {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}
