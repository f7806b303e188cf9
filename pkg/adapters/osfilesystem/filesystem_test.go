package osfilesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()

	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Write file
	testPath := filepath.Join(tmpDir, "test.txt")
	testData := []byte("hello world")

	err = fs.WriteFile(testPath, testData)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Read file
	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()

	tmpDir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Write to nested path
	testPath := filepath.Join(tmpDir, "a", "b", "c", "test.txt")
	err = fs.WriteFile(testPath, []byte("test"))
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Verify file exists
	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_MkdirAll(t *testing.T) {
	fs := New()

	tmpDir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	testPath := filepath.Join(tmpDir, "a", "b", "c")
	err = fs.MkdirAll(testPath)
	if err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected directory to exist")
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()

	tmpDir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Test existing file
	testPath := filepath.Join(tmpDir, "test.txt")
	os.WriteFile(testPath, []byte("test"), 0644)

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}

	// Test non-existing file
	exists, err = fs.Exists(filepath.Join(tmpDir, "nonexistent.txt"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()

	tmpDir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create file
	testPath := filepath.Join(tmpDir, "test.txt")
	os.WriteFile(testPath, []byte("test"), 0644)

	// Remove file
	err = fs.Remove(testPath)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	// Verify removed
	exists, _ := fs.Exists(testPath)
	if exists {
		t.Error("expected file to be removed")
	}
}

func TestFileSystem_RemoveMissing(t *testing.T) {
	fs := New()

	if err := fs.Remove(filepath.Join(t.TempDir(), "missing.txt")); err != nil {
		t.Errorf("expected no error for a missing file, got %v", err)
	}
}

func TestFileSystem_RemoveAll(t *testing.T) {
	fs := New()
	dir := filepath.Join(t.TempDir(), "scratch")

	if err := fs.WriteFile(filepath.Join(dir, "a", "b.txt"), []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	if exists, _ := fs.Exists(dir); exists {
		t.Error("expected directory to be removed")
	}
}

func TestRootedFileSystem(t *testing.T) {
	root := t.TempDir()
	fs := NewRooted(root)

	if err := fs.WriteFile("image0.jpg", []byte("jpeg")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "image0.jpg"))
	if err != nil {
		t.Fatalf("expected file under root: %v", err)
	}
	if string(data) != "jpeg" {
		t.Errorf("expected %q, got %q", "jpeg", data)
	}

	data, err = fs.ReadFile("image0.jpg")
	if err != nil || string(data) != "jpeg" {
		t.Errorf("ReadFile through root failed: %q, %v", data, err)
	}
}

func TestRootedFileSystem_RejectsEscapes(t *testing.T) {
	fs := NewRooted(t.TempDir())

	tests := []string{
		"../outside.txt",
		"a/../../outside.txt",
		"/etc/passwd",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			if err := fs.WriteFile(path, []byte("x")); !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("expected ErrOutsideRoot, got %v", err)
			}
			if _, err := fs.ReadFile(path); !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("expected ErrOutsideRoot, got %v", err)
			}
		})
	}
}
