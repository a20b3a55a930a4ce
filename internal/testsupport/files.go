package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTextFile writes content to path, creating parent directories.
// Tests use it to stage source documents under the upload directory.
func WriteTextFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
