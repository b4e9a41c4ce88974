package monorepo

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/internal/logging"
	"github.com/repolens/repolens/internal/scan"
)

// dependencyDirs are never considered workspace candidates and are
// pruned from glob walks.
var dependencyDirs = []string{
	"node_modules", "vendor", "target", "dist", "build", "out",
	".git", ".venv", "venv", "__pycache__", ".nx", ".turbo",
}

// enumerate expands raw member patterns into concrete workspaces:
// glob expansion, path-safety filtering, the workspace cap, and
// parallel size-bounded manifest fingerprinting. The returned order
// follows glob-expansion order regardless of which read finishes
// first; a single corrupt manifest drops that one workspace only.
func (d *Detector) enumerate(ctx context.Context, guard *scan.Guard, patterns []string) []WorkspaceInfo {
	root := guard.Root()

	var candidates []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		pattern = normalizePattern(pattern)
		if pattern == "" {
			continue
		}
		for _, rel := range d.globs.Resolve(pattern, root, dependencyDirs) {
			abs, ok := guard.Confine(rel)
			if !ok || !scan.IsDir(abs) {
				continue
			}
			rel = filepath.ToSlash(rel)
			if rel == "." || seen[rel] {
				continue
			}
			seen[rel] = true
			candidates = append(candidates, rel)
			if len(candidates) >= d.maxWorkspaces {
				break
			}
		}
		if len(candidates) >= d.maxWorkspaces {
			logging.Default().Debug("workspace cap reached at %d", d.maxWorkspaces)
			break
		}
	}

	// Fan out the manifest reads, reassembling by request index so
	// the output order stays deterministic.
	results := make([]*WorkspaceInfo, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for i, rel := range candidates {
		g.Go(func() error {
			fp, ok := fingerprintDir(filepath.Join(root, filepath.FromSlash(rel)), d.maxManifestBytes)
			if !ok {
				logging.Default().Debug("no usable manifest in %s, skipping", rel)
				return nil
			}
			results[i] = &WorkspaceInfo{
				Name:                 fp.Name,
				Path:                 rel,
				Type:                 fp.Type,
				Technologies:         fp.Technologies,
				HasOwnPackageManager: fp.HasOwnPackageManager,
			}
			return nil
		})
	}
	_ = g.Wait()

	workspaces := make([]WorkspaceInfo, 0, len(candidates))
	for _, ws := range results {
		if ws != nil {
			workspaces = append(workspaces, *ws)
		}
	}
	return workspaces
}

// normalizePattern trims trailing slashes and rewrites the common
// "dir/**" membership form to its immediate children, which is what
// workspace managers mean by it.
func normalizePattern(pattern string) string {
	pattern = strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(pattern)), "/")
	if strings.HasSuffix(pattern, "/**") {
		pattern = strings.TrimSuffix(pattern, "/**") + "/*"
	}
	return pattern
}
