package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repolens/repolens/internal/monorepo"
	"github.com/repolens/repolens/internal/techstack"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	mono, err := monorepo.NewDetectorWithOptions(monorepo.Options{EnableCache: false})
	if err != nil {
		t.Fatal(err)
	}
	return New(mono, techstack.NewDetector())
}

func TestAnalyzeSingleProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module demo\n")

	pc := newAnalyzer(t).Analyze(context.Background(), root)
	if pc.Type != "go project" {
		t.Errorf("Type = %q, want go project", pc.Type)
	}
	if pc.Monorepo != nil {
		t.Error("a single project should not carry a monorepo result")
	}
	if pc.Confidence != 0.25 {
		t.Errorf("Confidence = %v, want 0.25", pc.Confidence)
	}
}

func TestAnalyzeMonorepo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pnpm-workspace.yaml", "packages:\n  - 'packages/*'\n")
	writeFile(t, root, "package.json", `{"name": "root"}`)
	writeFile(t, root, "packages/web/package.json", `{"name": "web"}`)
	writeFile(t, root, "packages/api/package.json", `{"name": "api"}`)

	pc := newAnalyzer(t).Analyze(context.Background(), root)
	if pc.Monorepo == nil || !pc.Monorepo.IsMonorepo {
		t.Fatal("expected a monorepo result")
	}
	if !strings.HasPrefix(pc.Type, "pnpm monorepo (2 workspaces") {
		t.Errorf("Type = %q, want a pnpm monorepo label", pc.Type)
	}
	if !strings.Contains(pc.Type, "javascript") {
		t.Errorf("Type = %q, want dominant technology in the label", pc.Type)
	}
}

func TestAnalyzeUnknownProject(t *testing.T) {
	pc := newAnalyzer(t).Analyze(context.Background(), t.TempDir())
	if pc.Type != "unknown project" {
		t.Errorf("Type = %q, want unknown project", pc.Type)
	}
	if pc.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", pc.Confidence)
	}
}

func TestAnalyzeGitWorkflow(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module demo\n")
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, ".github/workflows/ci.yml", "name: ci\n")

	pc := newAnalyzer(t).Analyze(context.Background(), root)
	if pc.GitWorkflow != "git + github-actions" {
		t.Errorf("GitWorkflow = %q, want git + github-actions", pc.GitWorkflow)
	}
	// languages 0.25 + git workflow 0.2
	if pc.Confidence != 0.45 {
		t.Errorf("Confidence = %v, want 0.45", pc.Confidence)
	}
}

func TestDominantTechnologies(t *testing.T) {
	info := &monorepo.MonorepoInfo{
		Workspaces: []monorepo.WorkspaceInfo{
			{Technologies: []string{"typescript"}},
			{Technologies: []string{"typescript"}},
			{Technologies: []string{"go"}},
			{Technologies: []string{"go"}},
			{Technologies: []string{"go"}},
			{Technologies: []string{"rust"}},
		},
	}
	got := dominantTechnologies(info)
	if len(got) != 2 || got[0] != "go" || got[1] != "typescript" {
		t.Errorf("dominantTechnologies = %v, want [go typescript]", got)
	}
}

func TestDetectGitWorkflowVariants(t *testing.T) {
	root := t.TempDir()
	if got := detectGitWorkflow(root); got != "" {
		t.Errorf("no .git should yield empty, got %q", got)
	}

	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := detectGitWorkflow(root); got != "git" {
		t.Errorf("got %q, want git", got)
	}

	writeFile(t, root, ".gitlab-ci.yml", "stages: []\n")
	if got := detectGitWorkflow(root); got != "git + gitlab-ci" {
		t.Errorf("got %q, want git + gitlab-ci", got)
	}
}
