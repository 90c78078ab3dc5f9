// Package dimensions computes and caches rendered node box sizes.
//
// Layout engines ask the store for the box of every node before placing
// it; the renderer asks again when drawing. Sizes are estimated from the
// label with a monospace character-width model, then scaled by fan-in so
// heavily depended-on nodes stand out.
package dimensions

import (
	"sync"

	"github.com/kestrel-tools/kestrel/pkg/graph"
)

// Defaults for the measurement model. Widths are SVG user units.
const (
	DefaultFontSize  = 13.0
	DefaultCharWidth = 7.8 // Monospace advance at DefaultFontSize
	DefaultPaddingX  = 14.0
	DefaultPaddingY  = 12.0
	DefaultMinWidth  = 60.0
	DefaultMaxWidth  = 220.0
	DefaultBoxHeight = 44.0
	DefaultMaxLabel  = 24 // Runes before truncation
	minScaleFactor   = 0.75
)

// Size is the measured box of a node.
type Size struct {
	Width  float64
	Height float64
}

// Options tunes the measurement model. Zero values fall back to defaults.
type Options struct {
	FontSize  float64
	CharWidth float64
	PaddingX  float64
	PaddingY  float64
	MinWidth  float64
	MaxWidth  float64
	BoxHeight float64
	MaxLabel  int
}

// Store measures node boxes and caches the results. Safe for concurrent
// use; layout engines may measure from multiple goroutines.
type Store struct {
	opts Options

	mu      sync.RWMutex
	cache   map[string]Size
	maxDeps int // Highest DependentCount seen, drives scaling
}

// NewStore creates a Store with defaulted options.
func NewStore(opts Options) *Store {
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.CharWidth <= 0 {
		opts.CharWidth = DefaultCharWidth
	}
	if opts.PaddingX <= 0 {
		opts.PaddingX = DefaultPaddingX
	}
	if opts.PaddingY <= 0 {
		opts.PaddingY = DefaultPaddingY
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = DefaultMinWidth
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	if opts.BoxHeight <= 0 {
		opts.BoxHeight = DefaultBoxHeight
	}
	if opts.MaxLabel <= 0 {
		opts.MaxLabel = DefaultMaxLabel
	}
	return &Store{
		opts:  opts,
		cache: make(map[string]Size),
	}
}

// Prime seeds the store with the graph so fan-in scaling has a reference
// maximum. Call once before measuring.
func (s *Store) Prime(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxDeps = 0
	for _, n := range g.Nodes {
		if n.DependentCount > s.maxDeps {
			s.maxDeps = n.DependentCount
		}
	}
}

// Measure returns the box for a node, computing and caching it on first use.
func (s *Store) Measure(n *graph.Node) Size {
	s.mu.RLock()
	if size, ok := s.cache[n.ID]; ok {
		s.mu.RUnlock()
		return size
	}
	maxDeps := s.maxDeps
	s.mu.RUnlock()

	label := s.DisplayLabel(n)
	width := float64(len([]rune(label)))*s.opts.CharWidth + 2*s.opts.PaddingX
	if width < s.opts.MinWidth {
		width = s.opts.MinWidth
	}
	if width > s.opts.MaxWidth {
		width = s.opts.MaxWidth
	}

	height := s.opts.BoxHeight

	// Fan-in scaling: the most depended-on node renders at full size,
	// leaves shrink toward minScaleFactor.
	scale := 1.0
	if maxDeps > 0 {
		scale = minScaleFactor + (1-minScaleFactor)*float64(n.DependentCount)/float64(maxDeps)
	}
	width *= scale
	height *= scale

	size := Size{Width: width, Height: height}

	s.mu.Lock()
	s.cache[n.ID] = size
	s.mu.Unlock()

	return size
}

// DisplayLabel returns the node label truncated to the configured rune
// budget, with an ellipsis when shortened.
func (s *Store) DisplayLabel(n *graph.Node) string {
	runes := []rune(n.Label)
	if len(runes) <= s.opts.MaxLabel {
		return n.Label
	}
	return string(runes[:s.opts.MaxLabel-1]) + "…"
}

// FontSize exposes the configured font size for renderers.
func (s *Store) FontSize() float64 {
	return s.opts.FontSize
}

// Reset drops all cached measurements.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]Size)
}
