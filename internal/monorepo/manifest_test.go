package monorepo

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
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

func TestFingerprintGoModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/acme/service-a\n\ngo 1.24\n")

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if fp.Name != "service-a" || fp.Type != "Go Module" {
		t.Errorf("got %q/%q, want service-a/Go Module", fp.Name, fp.Type)
	}
	if !reflect.DeepEqual(fp.Technologies, []string{"go"}) {
		t.Errorf("Technologies = %v, want [go]", fp.Technologies)
	}
	if fp.HasOwnPackageManager {
		t.Error("no lockfile present, HasOwnPackageManager should be false")
	}
}

func TestFingerprintGoModuleMissingName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "// incomplete\ngo 1.24\n")

	if _, ok := fingerprintDir(dir, 1<<20); ok {
		t.Error("a go.mod without a module path should not fingerprint")
	}
}

func TestFingerprintTypeScriptPackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "@acme/web"}`)
	writeFile(t, dir, "tsconfig.json", `{}`)

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if fp.Type != "TypeScript Package" {
		t.Errorf("Type = %q, want TypeScript Package", fp.Type)
	}
	if fp.Name != "@acme/web" {
		t.Errorf("Name = %q, want @acme/web", fp.Name)
	}
}

func TestFingerprintNodePackageWithLockfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "standalone"}`)
	writeFile(t, dir, "yarn.lock", "")

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if !fp.HasOwnPackageManager {
		t.Error("a workspace with its own lockfile should set HasOwnPackageManager")
	}
}

func TestFingerprintCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": `)

	if _, ok := fingerprintDir(dir, 1<<20); ok {
		t.Error("a corrupt manifest should not fingerprint")
	}
}

func TestFingerprintOversizedManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "huge"}`)

	if _, ok := fingerprintDir(dir, 4); ok {
		t.Error("an oversized manifest should not fingerprint")
	}
}

func TestFingerprintComposerName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "composer.json", `{"name": "acme/billing"}`)

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if fp.Name != "billing" || fp.Type != "PHP Package" {
		t.Errorf("got %q/%q, want billing/PHP Package", fp.Name, fp.Type)
	}
}

func TestFingerprintNameFallsBackToDirname(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tooling")
	writeFile(t, root, "tooling/build.gradle", "")

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if fp.Name != "tooling" {
		t.Errorf("Name = %q, want tooling", fp.Name)
	}
	if fp.Type != "Gradle Project" {
		t.Errorf("Type = %q, want Gradle Project", fp.Type)
	}
}

func TestFingerprintDockerTag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module svc\n")
	writeFile(t, dir, "Dockerfile", "FROM scratch\n")

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	want := []string{"go", "docker"}
	if !reflect.DeepEqual(fp.Technologies, want) {
		t.Errorf("Technologies = %v, want %v", fp.Technologies, want)
	}
}

func TestFingerprintCsproj(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Api.csproj", "<Project></Project>")

	fp, ok := fingerprintDir(dir, 1<<20)
	if !ok {
		t.Fatal("expected a fingerprint")
	}
	if fp.Name != "Api" || fp.Type != "C# Project" {
		t.Errorf("got %q/%q, want Api/C# Project", fp.Name, fp.Type)
	}
}

func TestFingerprintEmptyDir(t *testing.T) {
	if _, ok := fingerprintDir(t.TempDir(), 1<<20); ok {
		t.Error("an empty directory should not fingerprint")
	}
}
