package scan

import (
	"path/filepath"
	"strings"

	"github.com/repolens/repolens/internal/logging"
)

// Guard confines candidate paths to a project root. Symlinks are
// resolved on both sides so an escaping link cannot smuggle a path
// outside the root.
type Guard struct {
	root     string
	realRoot string
}

// NewGuard creates a guard for the given root directory. The root is
// resolved to its real path once; if resolution fails the raw
// absolute path is used.
func NewGuard(root string) *Guard {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		real = abs
	}
	return &Guard{root: abs, realRoot: real}
}

// Root returns the guarded root path.
func (g *Guard) Root() string { return g.root }

// Confine resolves candidate (relative to the root, or absolute) and
// reports whether its real path is the root or nested under it. A
// failure to resolve is treated as unsafe; callers exclude silently.
func (g *Guard) Confine(candidate string) (string, bool) {
	path := candidate
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		logging.Default().Debug("path guard: cannot resolve %s: %v", candidate, err)
		return "", false
	}
	if real == g.realRoot {
		return real, true
	}
	if strings.HasPrefix(real, g.realRoot+string(filepath.Separator)) {
		return real, true
	}
	logging.Default().Debug("path guard: %s resolves outside root", candidate)
	return "", false
}

// Rel returns candidate's path relative to the root after
// confinement. The boolean is false when the candidate is unsafe.
func (g *Guard) Rel(candidate string) (string, bool) {
	real, ok := g.Confine(candidate)
	if !ok {
		return "", false
	}
	rel, err := filepath.Rel(g.realRoot, real)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
