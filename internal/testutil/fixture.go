// Package testutil provides project fixtures and fake collaborators for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// NewProject creates a project root in a temp directory with files placed under
// source/. Keys are slash-separated paths relative to source/.
func NewProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	sourceDir := filepath.Join(root, "source")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatalf("Failed to create source directory: %v", err)
	}

	for rel, content := range files {
		path := filepath.Join(sourceDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create fixture directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", rel, err)
		}
	}

	return root
}

// ReadArtifact returns the content of out/<rel>, failing the test if it is missing.
func ReadArtifact(t *testing.T, projectRoot, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(projectRoot, "out", filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("Failed to read artifact %s: %v", rel, err)
	}
	return string(data)
}

// ArtifactExists reports whether out/<rel> exists.
func ArtifactExists(projectRoot, rel string) bool {
	_, err := os.Stat(filepath.Join(projectRoot, "out", filepath.FromSlash(rel)))
	return err == nil
}
