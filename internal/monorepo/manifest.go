package monorepo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/repolens/repolens/internal/scan"
)

// fingerprint is the identity a workspace manifest yields.
type fingerprint struct {
	Name                 string
	Type                 string
	Technologies         []string
	HasOwnPackageManager bool
}

// lockfiles mark a workspace that manages its own dependencies
// instead of inheriting the root's installation.
var lockfiles = []string{
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb",
	"Cargo.lock", "go.sum", "poetry.lock", "Pipfile.lock",
	"composer.lock", "Gemfile.lock", "pubspec.lock",
}

// fingerprintDir probes a directory for a workspace manifest and
// parses it (size-bounded) into a name and technology tags. A
// missing, oversized or corrupt manifest returns ok=false so the
// caller can omit this one workspace without failing the batch.
func fingerprintDir(dir string, maxBytes int64) (fingerprint, bool) {
	fp, ok := identifyManifest(dir, maxBytes)
	if !ok {
		return fingerprint{}, false
	}
	if fp.Name == "" {
		fp.Name = filepath.Base(dir)
	}
	for _, lock := range lockfiles {
		if scan.Exists(filepath.Join(dir, lock)) {
			fp.HasOwnPackageManager = true
			break
		}
	}
	fp.Technologies = append(fp.Technologies, extraTechnologies(dir)...)
	return fp, true
}

// identifyManifest matches the first recognized manifest in priority
// order and derives the workspace identity from it.
func identifyManifest(dir string, maxBytes int64) (fingerprint, bool) {
	if data, err := scan.ReadBounded(filepath.Join(dir, "go.mod"), maxBytes); err == nil {
		name := goModuleName(data)
		if name == "" {
			return fingerprint{}, false
		}
		return fingerprint{Name: name, Type: "Go Module", Technologies: []string{"go"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "Cargo.toml"), maxBytes); err == nil {
		return fingerprint{Name: tomlName(data), Type: "Rust Crate", Technologies: []string{"rust"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "package.json"), maxBytes); err == nil {
		var pkg struct {
			Name string `json:"name"`
		}
		if jsonErr := json.Unmarshal(data, &pkg); jsonErr != nil {
			return fingerprint{}, false
		}
		if scan.Exists(filepath.Join(dir, "tsconfig.json")) {
			return fingerprint{Name: pkg.Name, Type: "TypeScript Package", Technologies: []string{"typescript"}}, true
		}
		return fingerprint{Name: pkg.Name, Type: "Node.js Package", Technologies: []string{"javascript"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "pom.xml"), maxBytes); err == nil {
		pom, pomErr := parsePomModules(data)
		if pomErr != nil {
			return fingerprint{}, false
		}
		return fingerprint{Name: pom.ArtifactID, Type: "Maven Module", Technologies: []string{"java"}}, true
	}

	if scan.Exists(filepath.Join(dir, "build.gradle.kts")) {
		return fingerprint{Type: "Gradle Project", Technologies: []string{"kotlin"}}, true
	}
	if scan.Exists(filepath.Join(dir, "build.gradle")) {
		return fingerprint{Type: "Gradle Project", Technologies: []string{"java"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "pyproject.toml"), maxBytes); err == nil {
		return fingerprint{Name: tomlName(data), Type: "Python Package", Technologies: []string{"python"}}, true
	}
	if scan.Exists(filepath.Join(dir, "setup.py")) || scan.Exists(filepath.Join(dir, "requirements.txt")) {
		return fingerprint{Type: "Python Package", Technologies: []string{"python"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "composer.json"), maxBytes); err == nil {
		var pkg struct {
			Name string `json:"name"`
		}
		if jsonErr := json.Unmarshal(data, &pkg); jsonErr != nil {
			return fingerprint{}, false
		}
		// Composer names are vendor/package; keep the package part.
		name := pkg.Name
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return fingerprint{Name: name, Type: "PHP Package", Technologies: []string{"php"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "pubspec.yaml"), maxBytes); err == nil {
		return fingerprint{Name: yamlName(data), Type: "Dart Package", Technologies: []string{"dart"}}, true
	}

	if scan.Exists(filepath.Join(dir, "Gemfile")) {
		return fingerprint{Type: "Ruby Package", Technologies: []string{"ruby"}}, true
	}

	if name, ok := findProjectFile(dir, ".csproj"); ok {
		return fingerprint{Name: name, Type: "C# Project", Technologies: []string{"csharp"}}, true
	}
	if name, ok := findProjectFile(dir, ".fsproj"); ok {
		return fingerprint{Name: name, Type: "F# Project", Technologies: []string{"fsharp"}}, true
	}

	if data, err := scan.ReadBounded(filepath.Join(dir, "project.json"), maxBytes); err == nil {
		var proj struct {
			Name string `json:"name"`
		}
		if jsonErr := json.Unmarshal(data, &proj); jsonErr != nil {
			return fingerprint{}, false
		}
		return fingerprint{Name: proj.Name, Type: "Nx Project", Technologies: []string{"javascript"}}, true
	}

	return fingerprint{}, false
}

// extraTechnologies adds secondary tags beyond the identifying
// manifest, e.g. a Go module that also ships a Dockerfile.
func extraTechnologies(dir string) []string {
	var tags []string
	if scan.Exists(filepath.Join(dir, "Dockerfile")) {
		tags = append(tags, "docker")
	}
	return tags
}

// findProjectFile looks for a single *.csproj-style file directly in
// dir and returns its base name without extension.
func findProjectFile(dir, ext string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			return strings.TrimSuffix(e.Name(), ext), true
		}
	}
	return "", false
}
