package monorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/repolens/repolens/internal/logging"
	"github.com/repolens/repolens/internal/scan"
)

const (
	// DefaultMaxWorkspaces caps enumeration so a hostile membership
	// pattern cannot balloon memory.
	DefaultMaxWorkspaces = 1000

	// DefaultTimeout bounds each detection strategy.
	DefaultTimeout = 30 * time.Second

	// MaxTimeout is the hard cap on any configured timeout.
	MaxTimeout = 5 * time.Minute

	// DefaultMaxManifestBytes bounds individual manifest reads.
	DefaultMaxManifestBytes = 1 << 20
)

// Options configures a Detector. Zero values take defaults;
// non-positive explicit limits are programming errors and fail fast.
type Options struct {
	MaxWorkspaces    int
	Timeout          time.Duration
	EnableCache      bool
	MaxManifestBytes int64
}

// Detector runs the ecosystem strategies against a repository root.
// Each instance owns its glob cache; construct a fresh detector per
// analysis session or call ClearCache between sessions.
type Detector struct {
	maxWorkspaces    int
	timeout          time.Duration
	maxManifestBytes int64
	globs            *scan.Resolver
}

// NewDetector creates a detector with the default limits and caching
// enabled.
func NewDetector() *Detector {
	d, _ := NewDetectorWithOptions(Options{EnableCache: true})
	return d
}

// NewDetectorWithOptions creates a detector, validating limits.
func NewDetectorWithOptions(opts Options) (*Detector, error) {
	if opts.MaxWorkspaces < 0 || opts.Timeout < 0 || opts.MaxManifestBytes < 0 {
		return nil, fmt.Errorf("monorepo: limits must be positive (maxWorkspaces=%d timeout=%s maxManifestBytes=%d)",
			opts.MaxWorkspaces, opts.Timeout, opts.MaxManifestBytes)
	}
	if opts.MaxWorkspaces == 0 {
		opts.MaxWorkspaces = DefaultMaxWorkspaces
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Timeout > MaxTimeout {
		opts.Timeout = MaxTimeout
	}
	if opts.MaxManifestBytes == 0 {
		opts.MaxManifestBytes = DefaultMaxManifestBytes
	}
	return &Detector{
		maxWorkspaces:    opts.MaxWorkspaces,
		timeout:          opts.Timeout,
		maxManifestBytes: opts.MaxManifestBytes,
		globs:            scan.NewResolver(opts.EnableCache),
	}, nil
}

// ClearCache drops the detector's glob cache so the next Detect call
// sees the current filesystem.
func (d *Detector) ClearCache() { d.globs.Clear() }

// Detect classifies root. The caller always receives a result, never
// an error: every per-strategy failure (missing signature, parse
// failure, timeout, panic) reads as a negative result for that
// strategy and the next one runs. Elapsed time is recorded on every
// exit path.
func (d *Detector) Detect(ctx context.Context, root string) *MonorepoInfo {
	start := time.Now()
	negative := func() *MonorepoInfo {
		return &MonorepoInfo{
			IsMonorepo:      false,
			RootPath:        root,
			Workspaces:      []WorkspaceInfo{},
			DetectionTimeMs: time.Since(start).Milliseconds(),
		}
	}

	guard := scan.NewGuard(root)

	for _, eco := range ecosystems {
		select {
		case <-ctx.Done():
			logging.Default().Debug("detection cancelled after %s", time.Since(start))
			return negative()
		default:
		}

		info := d.runStrategy(ctx, eco, guard)
		if info != nil {
			info.RootPath = root
			info.RootTechnologies = rootTechnologies(root)
			info.CrossLanguage = isCrossLanguage(info.Workspaces)
			info.DetectionTimeMs = time.Since(start).Milliseconds()
			logging.Default().Debug("detected %s monorepo with %d workspaces in %dms",
				info.Tool, len(info.Workspaces), info.DetectionTimeMs)
			return info
		}
	}

	return negative()
}

// runStrategy races one ecosystem against the per-detector timeout.
// The strategy's in-flight goroutine is not forcibly aborted; a late
// result is simply discarded.
func (d *Detector) runStrategy(ctx context.Context, eco ecosystem, guard *scan.Guard) *MonorepoInfo {
	ch := make(chan *MonorepoInfo, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Default().Warn("detector %s panicked: %v", eco.tool, r)
				ch <- nil
			}
		}()
		ch <- d.tryStrategy(ctx, eco, guard)
	}()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()
	select {
	case info := <-ch:
		return info
	case <-timer.C:
		logging.Default().Debug("detector %s timed out after %s", eco.tool, d.timeout)
		return nil
	case <-ctx.Done():
		return nil
	}
}

// tryStrategy runs one ecosystem end to end: signature probe, member
// extraction, enumeration. Any failure is a negative result.
func (d *Detector) tryStrategy(ctx context.Context, eco ecosystem, guard *scan.Guard) *MonorepoInfo {
	root := guard.Root()
	if !eco.signature(d, root) {
		return nil
	}
	logging.Default().Debug("trying detector %s", eco.tool)

	members, err := eco.members(d, root)
	if err != nil {
		logging.Default().Debug("detector %s: %v", eco.tool, err)
		return nil
	}
	if len(members) == 0 {
		return nil
	}

	workspaces := d.enumerate(ctx, guard, members)
	if len(workspaces) == 0 {
		// Tool declared but no resolvable members.
		return nil
	}

	return &MonorepoInfo{
		IsMonorepo: true,
		Tool:       eco.tool,
		Workspaces: workspaces,
	}
}
