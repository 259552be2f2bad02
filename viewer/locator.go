package viewer

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

// BinaryPathEnv names an explicit viewer binary path, taking precedence
// over every other discovery mechanism.
const BinaryPathEnv = "HTMLVIEW_APP_PATH"

// AppLocator resolves the path to the viewer binary to spawn. The core
// depends on discovery only through this single capability.
type AppLocator interface {
	LocateViewerBinary() (string, error)
}

// LocatorFunc adapts a function to the AppLocator interface.
type LocatorFunc func() (string, error)

// LocateViewerBinary calls f.
func (f LocatorFunc) LocateViewerBinary() (string, error) { return f() }

// DefaultLocator discovers the viewer binary, searching in order:
//  1. the HTMLVIEW_APP_PATH environment variable
//  2. the directory of the current executable
//  3. the PATH
//
// The discovery result is memoized; a cached path is re-checked for
// existence before reuse so a deleted binary triggers rediscovery rather
// than a confusing spawn failure.
type DefaultLocator struct {
	mu     sync.Mutex
	cached string
}

// LocateViewerBinary implements AppLocator.
func (l *DefaultLocator) LocateViewerBinary() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != "" {
		if isFile(l.cached) {
			return l.cached, nil
		}
		l.cached = ""
	}

	path, err := discoverViewerBinary()
	if err != nil {
		return "", err
	}
	l.cached = path
	return path, nil
}

func viewerBinaryName() string {
	if runtime.GOOS == "windows" {
		return "htmlview-app.exe"
	}
	return "htmlview-app"
}

func discoverViewerBinary() (string, error) {
	if path := os.Getenv(BinaryPathEnv); path != "" && isFile(path) {
		return path, nil
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), viewerBinaryName())
		if isFile(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(viewerBinaryName()); err == nil {
		return path, nil
	}

	return "", newError(ErrBinaryNotFound, "locate", "",
		"could not locate the htmlview-app binary; install it on your PATH or set "+BinaryPathEnv, nil)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
