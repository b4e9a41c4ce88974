package monorepo

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Micro-parsers for the narrow manifest subsets detection needs.
// Formats with a real grammar go through encoding/json, yaml.v3,
// encoding/xml or x/mod; the build-DSL and solution-file formats are
// line-scanned because only include statements and project lines
// matter.

// parsePnpmPackages extracts the packages list from
// pnpm-workspace.yaml.
func parsePnpmPackages(data []byte) ([]string, error) {
	var cfg struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("pnpm-workspace.yaml: %w", err)
	}
	return cfg.Packages, nil
}

// parseMelosPackages extracts the packages list from melos.yaml,
// defaulting to packages/** like melos itself.
func parseMelosPackages(data []byte) ([]string, error) {
	var cfg struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("melos.yaml: %w", err)
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"packages/**"}
	}
	return cfg.Packages, nil
}

// parsePackageJSONWorkspaces reads the workspaces field of a
// package.json. Both the array form and the {"packages": [...]}
// object form are in the wild.
func parsePackageJSONWorkspaces(data []byte) ([]string, error) {
	var pkg struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("package.json: %w", err)
	}
	if len(pkg.Workspaces) == 0 {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(pkg.Workspaces, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(pkg.Workspaces, &obj); err != nil {
		return nil, fmt.Errorf("package.json workspaces: %w", err)
	}
	return obj.Packages, nil
}

// parseLernaPackages reads lerna.json, defaulting to packages/*.
func parseLernaPackages(data []byte) ([]string, error) {
	var cfg struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("lerna.json: %w", err)
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"packages/*"}
	}
	return cfg.Packages, nil
}

var (
	workspaceSectionRe = regexp.MustCompile(`(?m)^\s*\[workspace\]\s*$`)
	cargoMembersRe     = regexp.MustCompile(`(?s)members\s*=\s*\[(.*?)\]`)
	quotedStringRe     = regexp.MustCompile(`"([^"]+)"`)
)

// hasCargoWorkspaceTable reports whether a Cargo.toml declares a
// [workspace] table.
func hasCargoWorkspaceTable(data []byte) bool {
	return workspaceSectionRe.Match(data)
}

// parseCargoMembers extracts workspace.members from a Cargo.toml.
// This deliberately parses only the members array of the TOML subset
// Cargo workspaces actually use.
func parseCargoMembers(data []byte) ([]string, error) {
	if !hasCargoWorkspaceTable(data) {
		return nil, nil
	}
	m := cargoMembersRe.FindSubmatch(data)
	if m == nil {
		return nil, nil
	}
	var members []string
	for _, q := range quotedStringRe.FindAllSubmatch(m[1], -1) {
		members = append(members, string(q[1]))
	}
	return members, nil
}

// parseGoWorkUse returns the use directives of a go.work file.
func parseGoWorkUse(data []byte) ([]string, error) {
	wf, err := modfile.ParseWork("go.work", data, nil)
	if err != nil {
		return nil, fmt.Errorf("go.work: %w", err)
	}
	var paths []string
	for _, use := range wf.Use {
		paths = append(paths, use.Path)
	}
	return paths, nil
}

// goModuleName returns the last element of the module path declared
// in a go.mod file, or "" when none is present.
func goModuleName(data []byte) string {
	path := modfile.ModulePath(data)
	if path == "" {
		return ""
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// pomFile is the subset of a Maven POM that detection reads.
type pomFile struct {
	ArtifactID string   `xml:"artifactId"`
	Modules    []string `xml:"modules>module"`
}

// parsePomModules extracts the <modules> list from a pom.xml.
func parsePomModules(data []byte) (pomFile, error) {
	var pom pomFile
	if err := xml.Unmarshal(data, &pom); err != nil {
		return pomFile{}, fmt.Errorf("pom.xml: %w", err)
	}
	return pom, nil
}

var (
	gradleIncludeRe = regexp.MustCompile(`^include\b`)
	gradleProjectRe = regexp.MustCompile(`["']([^"']+)["']`)
)

// parseGradleIncludes scans settings.gradle(.kts) for include
// statements. Gradle separates project paths with ':'; both
// include("app") and include ':lib:core', ':lib:util' forms occur,
// including several projects per statement.
func parseGradleIncludes(data []byte) []string {
	var projects []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "//") || !gradleIncludeRe.MatchString(line) {
			continue
		}
		for _, m := range gradleProjectRe.FindAllStringSubmatch(line, -1) {
			path := strings.Trim(strings.ReplaceAll(m[1], ":", "/"), "/")
			if path != "" {
				projects = append(projects, path)
			}
		}
	}
	return projects
}

var slnProjectRe = regexp.MustCompile(`(?m)^Project\("\{[^}]+\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)"`)

// solutionProject is one Project(...) line of a .sln file.
type solutionProject struct {
	Name string
	Dir  string
}

// parseSolutionProjects scans a Visual Studio solution file for
// project lines, skipping solution-folder entries that point at no
// project file.
func parseSolutionProjects(data []byte) []solutionProject {
	var projects []solutionProject
	for _, m := range slnProjectRe.FindAllStringSubmatch(string(data), -1) {
		name := m[1]
		path := strings.ReplaceAll(m[2], `\`, "/")
		if !strings.Contains(path, ".") {
			// Solution folders reference themselves, not a project file.
			continue
		}
		dir := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			dir = path[:i]
		} else {
			dir = "."
		}
		projects = append(projects, solutionProject{Name: name, Dir: dir})
	}
	return projects
}

// jsonField unmarshals one string field of a JSON manifest, returning
// "" on any failure.
func jsonField(data []byte, field string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return ""
	}
	var s string
	if raw, ok := obj[field]; ok {
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
	}
	return s
}

var tomlNameRe = regexp.MustCompile(`(?m)^\s*name\s*=\s*["']([^"']+)["']`)

// tomlName extracts the first name = "..." assignment, which covers
// Cargo [package] and pyproject [project]/[tool.poetry] identity.
func tomlName(data []byte) string {
	if m := tomlNameRe.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return ""
}

// yamlName extracts a top-level name field from a YAML manifest such
// as pubspec.yaml.
func yamlName(data []byte) string {
	var doc struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return doc.Name
}
