// Package paths derives artifact and report paths from source paths.
package paths

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts backslashes to forward slashes
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRelPath joins a root with a slash-separated relative path
func JoinRelPath(root string, relPath string) string {
	normalizedPath := strings.ReplaceAll(relPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}

// ArtifactPath mirrors a source file's relative path under outputRoot and appends
// the format suffix: ArtifactPath("out", "pkg/A.java", "yaml") is out/pkg/A.java.yaml.
func ArtifactPath(outputRoot string, relPath string, suffix string) string {
	return JoinRelPath(outputRoot, relPath) + "." + suffix
}

// ReportFilename is the name a source file is reported under: its path relative
// to the project root, e.g. "source/pkg/A.java".
func ReportFilename(sourceDirName string, relPath string) string {
	return NormalizePath(filepath.Join(sourceDirName, filepath.FromSlash(relPath)))
}
