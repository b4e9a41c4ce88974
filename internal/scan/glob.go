package scan

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/repolens/repolens/internal/logging"
)

const (
	// globCacheTTL tolerates filesystem drift within one analysis
	// session while sparing the dozen detectors redundant walks.
	globCacheTTL = 30 * time.Second

	// globCacheMaxEntries caps the cache; the globally oldest entry
	// is evicted once exceeded.
	globCacheMaxEntries = 100
)

type globEntry struct {
	results   []string
	timestamp time.Time
}

// Resolver matches glob patterns against a directory tree with a
// TTL-bounded, capacity-limited cache. Each detector instance owns
// its resolver; there is no cross-instance sharing.
type Resolver struct {
	mu      sync.Mutex
	cache   map[string]globEntry
	ttl     time.Duration
	maxSize int
	enabled bool
}

// NewResolver creates a resolver with caching enabled or disabled.
// Disabling the cache makes repeated resolutions hit the filesystem
// every time, which keeps tests deterministic.
func NewResolver(enableCache bool) *Resolver {
	return &Resolver{
		cache:   make(map[string]globEntry),
		ttl:     globCacheTTL,
		maxSize: globCacheMaxEntries,
		enabled: enableCache,
	}
}

// Resolve returns directory-relative slash paths under cwd matching
// pattern, skipping any directory whose name appears in ignore.
// Results are sorted by walk order (lexical), so two calls on an
// unchanged tree agree whether or not the cache is hit.
func (r *Resolver) Resolve(pattern, cwd string, ignore []string) []string {
	key := pattern + "\x00" + cwd

	if r.enabled {
		r.mu.Lock()
		if entry, ok := r.cache[key]; ok && time.Since(entry.timestamp) < r.ttl {
			r.mu.Unlock()
			logging.Default().Debug("glob cache hit: %s in %s", pattern, cwd)
			return append([]string(nil), entry.results...)
		}
		r.mu.Unlock()
		logging.Default().Debug("glob cache miss: %s in %s", pattern, cwd)
	}

	results := resolveGlob(pattern, cwd, ignore)

	if r.enabled {
		r.mu.Lock()
		if len(r.cache) >= r.maxSize {
			r.evictOldestLocked()
		}
		r.cache[key] = globEntry{results: results, timestamp: time.Now()}
		r.mu.Unlock()
	}
	return append([]string(nil), results...)
}

// Clear drops all cached entries. Long-lived sessions call this when
// the filesystem is known to have changed.
func (r *Resolver) Clear() {
	r.mu.Lock()
	r.cache = make(map[string]globEntry)
	r.mu.Unlock()
}

// Size returns the number of cached entries.
func (r *Resolver) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Resolver) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range r.cache {
		if first || e.timestamp.Before(oldest) {
			oldestKey, oldest = k, e.timestamp
			first = false
		}
	}
	if !first {
		delete(r.cache, oldestKey)
	}
}

// resolveGlob walks cwd collecting directories and files whose
// root-relative path matches pattern. Patterns without glob
// metacharacters resolve by direct existence check.
func resolveGlob(pattern, cwd string, ignore []string) []string {
	pat := strings.TrimSuffix(filepath.ToSlash(pattern), "/")
	if pat == "" {
		return nil
	}

	if !strings.ContainsAny(pat, "*?") {
		if Exists(filepath.Join(cwd, filepath.FromSlash(pat))) {
			return []string{pat}
		}
		return nil
	}

	re := globRegexp(pat)
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	var out []string
	_ = filepath.WalkDir(cwd, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		rel, err := filepath.Rel(cwd, path)
		if err != nil || rel == "." {
			return nil
		}
		if d.IsDir() && skip[d.Name()] {
			return filepath.SkipDir
		}
		rel = filepath.ToSlash(rel)
		if re.MatchString(rel) {
			out = append(out, rel)
		}
		return nil
	})
	return out
}

// globRegexp converts a glob into an anchored regexp:
// ** spans directories, * stays within one path segment, ? is any
// single character.
func globRegexp(glob string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; ch {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
