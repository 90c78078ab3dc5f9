// Package writer performs validated file system writes with dry-run
// support. Operations validate up front, then execute; a failed
// validation stops the batch before anything touches disk.
package writer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation represents a file system write that can be validated before
// it executes.
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp creates a file with content.
//
// Validation creates parent directories (idempotent side effect) and
// rejects existing files unless force is set. Empty content is allowed,
// nil content is not.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if !force {
		if _, err := os.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", op.Path)
		}
	}

	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	return os.WriteFile(op.Path, op.Content, mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Write %s (%d bytes)", op.Path, len(op.Content))
}

// ExecuteOptions configures execution behavior.
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Writer io.Writer // Where to report progress (defaults to os.Stdout)
}

// Execute validates all operations, then runs them. In dry-run mode the
// planned writes are reported instead of executed.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	for _, op := range ops {
		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "[dry-run] %s\n", op.Description())
			continue
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "%s\n", op.Description())
	}

	return nil
}
