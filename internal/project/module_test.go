package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectModule(t *testing.T) {
	tmpDir := t.TempDir()

	gomod := "module github.com/example/fixture\n\ngo 1.25\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte(gomod), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := DetectModule(tmpDir)
	if err != nil {
		t.Fatalf("DetectModule() error = %v", err)
	}

	if info.Path != "github.com/example/fixture" {
		t.Errorf("Path = %q, want %q", info.Path, "github.com/example/fixture")
	}
	if info.GoVersion != "1.25" {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, "1.25")
	}
}

func TestDetectModule_Missing(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := DetectModule(tmpDir); err == nil {
		t.Fatal("expected error for missing go.mod")
	}
}

func TestDetectModule_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("not a modfile {{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := DetectModule(tmpDir); err == nil {
		t.Fatal("expected error for invalid go.mod")
	}
}
