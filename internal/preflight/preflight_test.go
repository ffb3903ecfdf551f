package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllSkipsEmptyTempDir(t *testing.T) {
	if results := RunAll(""); results != nil {
		t.Fatalf("expected nil results for empty temp_dir, got %v", results)
	}
}

func TestRunAllChecksTempDir(t *testing.T) {
	dir := t.TempDir()
	results := RunAll(dir)
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("expected one passing result, got %+v", results)
	}
}
