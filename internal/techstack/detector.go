package techstack

import (
	"context"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/internal/scan"
)

const (
	// maxManifestBytes bounds root manifest reads.
	maxManifestBytes = 1 << 20

	// Fallback scan limits: shallow and count-bounded so a huge tree
	// cannot stall detection.
	maxScanDepth = 3
	maxScanFiles = 2000
)

// TechStack summarizes the languages, frameworks and tools detected
// at a repository root. Languages keep detection order, deduplicated.
type TechStack struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks,omitempty"`
	Tools      []string `json:"tools,omitempty"`
	Confidence float64  `json:"confidence"`
}

// Detector sniffs a single root independently of monorepo status.
type Detector struct{}

// NewDetector creates a tech stack detector.
func NewDetector() *Detector { return &Detector{} }

// probe inspects one ecosystem's root manifests. Probes run
// concurrently; results merge in probe order for determinism.
type probe func(root string) (langs, frameworks, tools []string)

var probes = []probe{
	probeGo,
	probeNode,
	probeRust,
	probePython,
	probePHP,
	probeJVM,
	probeRuby,
	probeDotnet,
	probeDart,
	probeInfra,
}

// Detect inspects root manifests for every supported ecosystem in
// parallel, unioning what it finds. When nothing matches it falls
// back to a depth- and count-bounded extension scan.
func (d *Detector) Detect(ctx context.Context, root string) *TechStack {
	type probeResult struct {
		langs, frameworks, tools []string
	}
	results := make([]probeResult, len(probes))

	g, _ := errgroup.WithContext(ctx)
	for i, p := range probes {
		g.Go(func() error {
			l, f, t := p(root)
			results[i] = probeResult{l, f, t}
			return nil
		})
	}
	_ = g.Wait()

	stack := &TechStack{}
	seenLang := make(map[string]bool)
	seenFw := make(map[string]bool)
	seenTool := make(map[string]bool)
	for _, r := range results {
		for _, l := range r.langs {
			if !seenLang[l] {
				seenLang[l] = true
				stack.Languages = append(stack.Languages, l)
			}
		}
		for _, f := range r.frameworks {
			if !seenFw[f] {
				seenFw[f] = true
				stack.Frameworks = append(stack.Frameworks, f)
			}
		}
		for _, t := range r.tools {
			if !seenTool[t] {
				seenTool[t] = true
				stack.Tools = append(stack.Tools, t)
			}
		}
	}

	if len(stack.Languages) == 0 {
		stack.Languages = scanExtensions(root)
	}

	stack.Confidence = confidence(stack)
	return stack
}

func confidence(s *TechStack) float64 {
	c := 0.0
	if len(s.Languages) > 0 {
		c += 0.5
	}
	if len(s.Frameworks) > 0 {
		c += 0.3
	}
	if len(s.Tools) > 0 {
		c += 0.2
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

func probeGo(root string) ([]string, []string, []string) {
	if !scan.Exists(filepath.Join(root, "go.mod")) && !scan.Exists(filepath.Join(root, "go.work")) {
		return nil, nil, nil
	}
	return []string{"go"}, nil, []string{"go-modules"}
}

func probeNode(root string) ([]string, []string, []string) {
	data, err := scan.ReadBounded(filepath.Join(root, "package.json"), maxManifestBytes)
	if err != nil {
		return nil, nil, nil
	}

	lang := "javascript"
	if scan.Exists(filepath.Join(root, "tsconfig.json")) {
		lang = "typescript"
	}

	var frameworks []string
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err == nil {
		deps := make(map[string]bool, len(pkg.Dependencies)+len(pkg.DevDependencies))
		for name := range pkg.Dependencies {
			deps[name] = true
		}
		for name := range pkg.DevDependencies {
			deps[name] = true
		}
		for _, fw := range []struct{ dep, name string }{
			{"next", "nextjs"},
			{"react", "react"},
			{"vue", "vue"},
			{"@angular/core", "angular"},
			{"svelte", "svelte"},
			{"express", "express"},
			{"fastify", "fastify"},
			{"nestjs", "nestjs"},
			{"@nestjs/core", "nestjs"},
		} {
			if deps[fw.dep] {
				frameworks = appendUnique(frameworks, fw.name)
			}
		}
	}

	tools := []string{"npm"}
	switch {
	case scan.Exists(filepath.Join(root, "pnpm-lock.yaml")):
		tools = []string{"pnpm"}
	case scan.Exists(filepath.Join(root, "yarn.lock")):
		tools = []string{"yarn"}
	case scan.Exists(filepath.Join(root, "bun.lockb")):
		tools = []string{"bun"}
	}
	return []string{lang}, frameworks, tools
}

func probeRust(root string) ([]string, []string, []string) {
	if !scan.Exists(filepath.Join(root, "Cargo.toml")) {
		return nil, nil, nil
	}
	return []string{"rust"}, nil, []string{"cargo"}
}

func probePython(root string) ([]string, []string, []string) {
	var found bool
	var tools []string
	if scan.Exists(filepath.Join(root, "pyproject.toml")) {
		found = true
		if data, err := scan.ReadBounded(filepath.Join(root, "pyproject.toml"), maxManifestBytes); err == nil &&
			strings.Contains(string(data), "[tool.poetry]") {
			tools = append(tools, "poetry")
		}
	}
	if scan.Exists(filepath.Join(root, "requirements.txt")) || scan.Exists(filepath.Join(root, "setup.py")) {
		found = true
		tools = appendUnique(tools, "pip")
	}
	if !found {
		return nil, nil, nil
	}

	var frameworks []string
	if data, err := scan.ReadBounded(filepath.Join(root, "requirements.txt"), maxManifestBytes); err == nil {
		content := strings.ToLower(string(data))
		for _, fw := range []string{"django", "flask", "fastapi"} {
			if strings.Contains(content, fw) {
				frameworks = append(frameworks, fw)
			}
		}
	}
	return []string{"python"}, frameworks, tools
}

func probePHP(root string) ([]string, []string, []string) {
	if !scan.Exists(filepath.Join(root, "composer.json")) {
		return nil, nil, nil
	}
	var frameworks []string
	if scan.Exists(filepath.Join(root, "artisan")) {
		frameworks = append(frameworks, "laravel")
	} else if data, err := scan.ReadBounded(filepath.Join(root, "composer.json"), maxManifestBytes); err == nil {
		content := string(data)
		if strings.Contains(content, "laravel/framework") {
			frameworks = append(frameworks, "laravel")
		}
		if strings.Contains(content, "symfony/framework-bundle") {
			frameworks = append(frameworks, "symfony")
		}
	}
	return []string{"php"}, frameworks, []string{"composer"}
}

func probeJVM(root string) ([]string, []string, []string) {
	var langs, frameworks, tools []string
	if data, err := scan.ReadBounded(filepath.Join(root, "pom.xml"), maxManifestBytes); err == nil {
		langs = append(langs, "java")
		tools = append(tools, "maven")
		if strings.Contains(string(data), "spring-boot") {
			frameworks = append(frameworks, "spring-boot")
		}
	}
	if scan.Exists(filepath.Join(root, "build.gradle")) {
		langs = appendUnique(langs, "java")
		tools = appendUnique(tools, "gradle")
	}
	if scan.Exists(filepath.Join(root, "build.gradle.kts")) {
		langs = appendUnique(langs, "kotlin")
		tools = appendUnique(tools, "gradle")
	}
	return langs, frameworks, tools
}

func probeRuby(root string) ([]string, []string, []string) {
	data, err := scan.ReadBounded(filepath.Join(root, "Gemfile"), maxManifestBytes)
	if err != nil {
		return nil, nil, nil
	}
	var frameworks []string
	if strings.Contains(string(data), "rails") {
		frameworks = append(frameworks, "rails")
	}
	return []string{"ruby"}, frameworks, []string{"bundler"}
}

func probeDotnet(root string) ([]string, []string, []string) {
	entries, err := filepath.Glob(filepath.Join(root, "*.sln"))
	if err == nil && len(entries) > 0 {
		return []string{"csharp"}, nil, []string{"dotnet"}
	}
	entries, err = filepath.Glob(filepath.Join(root, "*.csproj"))
	if err == nil && len(entries) > 0 {
		return []string{"csharp"}, nil, []string{"dotnet"}
	}
	return nil, nil, nil
}

func probeDart(root string) ([]string, []string, []string) {
	data, err := scan.ReadBounded(filepath.Join(root, "pubspec.yaml"), maxManifestBytes)
	if err != nil {
		return nil, nil, nil
	}
	var frameworks []string
	if strings.Contains(string(data), "flutter") {
		frameworks = append(frameworks, "flutter")
	}
	return []string{"dart"}, frameworks, []string{"pub"}
}

func probeInfra(root string) ([]string, []string, []string) {
	var tools []string
	if scan.Exists(filepath.Join(root, "Dockerfile")) || scan.Exists(filepath.Join(root, "docker-compose.yml")) {
		tools = append(tools, "docker")
	}
	if scan.Exists(filepath.Join(root, "Makefile")) {
		tools = append(tools, "make")
	}
	if scan.Exists(filepath.Join(root, ".github", "workflows")) {
		tools = append(tools, "github-actions")
	}
	return nil, nil, tools
}

var skipDirs = map[string]bool{
	"node_modules": true, "vendor": true, "target": true,
	"build": true, "dist": true, "out": true, "__pycache__": true,
	".venv": true, "venv": true,
}

var extensionLanguages = map[string]string{
	".go":    "go",
	".rs":    "rust",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".kt":    "kotlin",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".dart":  "dart",
	".swift": "swift",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
}

// scanExtensions is the manifest-less fallback: a shallow, bounded
// walk mapping file extensions to languages.
func scanExtensions(root string) []string {
	var langs []string
	seen := make(map[string]bool)
	files := 0

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] || (strings.HasPrefix(name, ".") && rel != ".") {
				return filepath.SkipDir
			}
			if strings.Count(filepath.ToSlash(rel), "/") >= maxScanDepth {
				return filepath.SkipDir
			}
			return nil
		}
		files++
		if files > maxScanFiles {
			return filepath.SkipAll
		}
		if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]; ok && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
		return nil
	})
	return langs
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
