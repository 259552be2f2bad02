package viewer

import (
	"os"
	"sync"
)

// DirGuard owns a working-area directory and guarantees its removal
// exactly once, unless ownership is transferred away with Disarm. Removal
// is best effort: a leftover temp directory is cosmetic, not a
// correctness problem, so errors are swallowed.
//
// Typical use:
//
//	guard := NewDirGuard(dir)
//	defer guard.Cleanup()
//	...
//	guard.Disarm() // hand ownership to a longer-lived owner
type DirGuard struct {
	mu    sync.Mutex
	path  string
	armed bool
}

// NewDirGuard returns an armed guard owning path.
func NewDirGuard(path string) *DirGuard {
	return &DirGuard{path: path, armed: true}
}

// Path returns the guarded directory path.
func (g *DirGuard) Path() string {
	return g.path
}

// Disarm transfers cleanup responsibility elsewhere. The directory is not
// removed.
func (g *DirGuard) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = false
}

// Armed reports whether the guard still owns cleanup.
func (g *DirGuard) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed
}

// Cleanup removes the directory tree if the guard is still armed.
// Safe to call multiple times; only the first armed call removes.
func (g *DirGuard) Cleanup() {
	g.mu.Lock()
	if !g.armed {
		g.mu.Unlock()
		return
	}
	g.armed = false
	g.mu.Unlock()

	_ = os.RemoveAll(g.path)
}
