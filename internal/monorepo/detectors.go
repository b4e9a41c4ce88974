package monorepo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/repolens/repolens/internal/scan"
)

// ecosystem is one detection strategy: a signature predicate plus a
// member extractor. The orchestrator iterates these in priority
// order; ecosystems are assumed mutually exclusive per root, so the
// first success wins.
type ecosystem struct {
	tool      string
	signature func(d *Detector, root string) bool
	members   func(d *Detector, root string) ([]string, error)
}

// ecosystems is the fixed priority list. Explicit workspace
// manifests come first, build-system heuristics later, and the
// sibling-directory fallback last.
var ecosystems = []ecosystem{
	{
		tool:      ToolPnpm,
		signature: rootFile("pnpm-workspace.yaml"),
		members: func(d *Detector, root string) ([]string, error) {
			data, err := scan.ReadBounded(filepath.Join(root, "pnpm-workspace.yaml"), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			return parsePnpmPackages(data)
		},
	},
	{
		tool: ToolYarnWorkspaces,
		signature: func(d *Detector, root string) bool {
			return scan.Exists(filepath.Join(root, "package.json")) &&
				scan.Exists(filepath.Join(root, "yarn.lock"))
		},
		members: packageJSONMembers,
	},
	{
		tool:      ToolNpmWorkspaces,
		signature: rootFile("package.json"),
		members:   packageJSONMembers,
	},
	{
		tool:      ToolLerna,
		signature: rootFile("lerna.json"),
		members: func(d *Detector, root string) ([]string, error) {
			data, err := scan.ReadBounded(filepath.Join(root, "lerna.json"), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			return parseLernaPackages(data)
		},
	},
	{
		tool:      ToolNx,
		signature: rootFile("nx.json"),
		members:   nxMembers,
	},
	{
		tool: ToolCargoWorkspace,
		signature: func(d *Detector, root string) bool {
			data, err := scan.ReadBounded(filepath.Join(root, "Cargo.toml"), d.maxManifestBytes)
			return err == nil && hasCargoWorkspaceTable(data)
		},
		members: func(d *Detector, root string) ([]string, error) {
			data, err := scan.ReadBounded(filepath.Join(root, "Cargo.toml"), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			return parseCargoMembers(data)
		},
	},
	{
		tool:      ToolGoWorkspace,
		signature: rootFile("go.work"),
		members: func(d *Detector, root string) ([]string, error) {
			data, err := scan.ReadBounded(filepath.Join(root, "go.work"), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			uses, err := parseGoWorkUse(data)
			if err != nil {
				return nil, err
			}
			var members []string
			for _, use := range uses {
				use = filepath.ToSlash(filepath.Clean(use))
				if use == "." || use == "" {
					continue
				}
				members = append(members, use)
			}
			return members, nil
		},
	},
	{
		tool:      ToolMavenMultiModule,
		signature: rootFile("pom.xml"),
		members: func(d *Detector, root string) ([]string, error) {
			data, err := scan.ReadBounded(filepath.Join(root, "pom.xml"), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			pom, err := parsePomModules(data)
			if err != nil {
				return nil, err
			}
			return pom.Modules, nil
		},
	},
	{
		tool: ToolGradleMultiProject,
		signature: func(d *Detector, root string) bool {
			return scan.Exists(filepath.Join(root, "settings.gradle")) ||
				scan.Exists(filepath.Join(root, "settings.gradle.kts"))
		},
		members: func(d *Detector, root string) ([]string, error) {
			for _, name := range []string{"settings.gradle.kts", "settings.gradle"} {
				data, err := scan.ReadBounded(filepath.Join(root, name), d.maxManifestBytes)
				if err != nil {
					continue
				}
				return parseGradleIncludes(data), nil
			}
			return nil, nil
		},
	},
	{
		tool: ToolDotnetSolution,
		signature: func(d *Detector, root string) bool {
			return findSolutionFile(root) != ""
		},
		members: func(d *Detector, root string) ([]string, error) {
			sln := findSolutionFile(root)
			data, err := scan.ReadBounded(filepath.Join(root, sln), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			projects := parseSolutionProjects(data)
			// A solution with a single project is an ordinary
			// repository, not a monorepo.
			if len(projects) < 2 {
				return nil, nil
			}
			var members []string
			for _, p := range projects {
				if p.Dir != "." {
					members = append(members, p.Dir)
				}
			}
			return members, nil
		},
	},
	{
		tool:      ToolMelos,
		signature: rootFile("melos.yaml"),
		members: func(d *Detector, root string) ([]string, error) {
			data, err := scan.ReadBounded(filepath.Join(root, "melos.yaml"), d.maxManifestBytes)
			if err != nil {
				return nil, err
			}
			return parseMelosPackages(data)
		},
	},
	{
		tool:      ToolSiblingPackages,
		signature: func(d *Detector, root string) bool { return true },
		members:   siblingMembers,
	},
}

func rootFile(name string) func(d *Detector, root string) bool {
	return func(d *Detector, root string) bool {
		return scan.Exists(filepath.Join(root, name))
	}
}

func packageJSONMembers(d *Detector, root string) ([]string, error) {
	data, err := scan.ReadBounded(filepath.Join(root, "package.json"), d.maxManifestBytes)
	if err != nil {
		return nil, err
	}
	return parsePackageJSONWorkspaces(data)
}

// nxMembers locates project.json files below the root. Nx projects
// may also carry a package.json; the fingerprint step sorts that out.
func nxMembers(d *Detector, root string) ([]string, error) {
	var members []string
	for _, rel := range d.globs.Resolve("**/project.json", root, dependencyDirs) {
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			continue
		}
		members = append(members, dir)
	}
	if len(members) == 0 {
		// Nx without project.json files keeps projects under its
		// conventional directories.
		return []string{"apps/*", "libs/*", "packages/*"}, nil
	}
	return members, nil
}

// siblingMembers is the last-resort heuristic: at least three
// immediate subdirectories each carrying their own manifest. Two
// qualifying siblings are just a small multi-module library.
func siblingMembers(d *Detector, root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var members []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || isDependencyDir(name) {
			continue
		}
		if hasManifestMarker(filepath.Join(root, name)) {
			members = append(members, name)
		}
	}
	if len(members) < 3 {
		return nil, nil
	}
	return members, nil
}

// manifestMarkers are the per-workspace manifests the sibling
// heuristic and root fingerprinting recognize.
var manifestMarkers = []string{
	"go.mod", "Cargo.toml", "package.json", "pom.xml",
	"build.gradle", "build.gradle.kts", "pyproject.toml", "setup.py",
	"composer.json", "pubspec.yaml", "Gemfile", "project.json",
}

func hasManifestMarker(dir string) bool {
	for _, marker := range manifestMarkers {
		if scan.Exists(filepath.Join(dir, marker)) {
			return true
		}
	}
	if _, ok := findProjectFile(dir, ".csproj"); ok {
		return true
	}
	return false
}

func isDependencyDir(name string) bool {
	for _, dep := range dependencyDirs {
		if name == dep {
			return true
		}
	}
	return false
}

func findSolutionFile(root string) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sln") {
			return e.Name()
		}
	}
	return ""
}

// rootMarkerTechnologies maps root-level signature files to the
// technology tags reported as RootTechnologies.
var rootMarkerTechnologies = []struct {
	marker string
	tech   string
}{
	{"go.work", "go"},
	{"go.mod", "go"},
	{"Cargo.toml", "rust"},
	{"package.json", "javascript"},
	{"pom.xml", "java"},
	{"build.gradle", "java"},
	{"build.gradle.kts", "kotlin"},
	{"pyproject.toml", "python"},
	{"setup.py", "python"},
	{"composer.json", "php"},
	{"pubspec.yaml", "dart"},
	{"Gemfile", "ruby"},
}

// rootTechnologies collects the tags present at the repository root
// itself, deduplicated in marker order.
func rootTechnologies(root string) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	for _, m := range rootMarkerTechnologies {
		if scan.Exists(filepath.Join(root, m.marker)) {
			tech := m.tech
			if m.marker == "package.json" && scan.Exists(filepath.Join(root, "tsconfig.json")) {
				tech = "typescript"
			}
			add(tech)
		}
	}
	if findSolutionFile(root) != "" {
		add("csharp")
	}
	return tags
}
