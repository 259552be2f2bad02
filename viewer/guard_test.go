package viewer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirGuard_CleanupRemovesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	guard := NewDirGuard(dir)
	if !guard.Armed() {
		t.Fatal("new guard should be armed")
	}

	guard.Cleanup()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("directory still exists after cleanup: %v", err)
	}
}

func TestDirGuard_DisarmTransfersOwnership(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	guard := NewDirGuard(dir)
	guard.Disarm()
	guard.Cleanup()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory should survive cleanup after disarm: %v", err)
	}
}

func TestDirGuard_CleanupIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	guard := NewDirGuard(dir)
	guard.Cleanup()
	// Second call must not panic or error even though the path is gone.
	guard.Cleanup()

	if guard.Armed() {
		t.Error("guard should be disarmed after cleanup")
	}
}
