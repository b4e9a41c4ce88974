package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGuardConfineInside(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "packages", "app"), 0o755); err != nil {
		t.Fatal(err)
	}

	guard := NewGuard(root)

	abs, ok := guard.Confine("packages/app")
	if !ok {
		t.Fatal("expected packages/app to be confined")
	}
	if !IsDir(abs) {
		t.Errorf("confined path %s is not a directory", abs)
	}
}

func TestGuardConfineRoot(t *testing.T) {
	root := t.TempDir()
	guard := NewGuard(root)

	if _, ok := guard.Confine("."); !ok {
		t.Error("the root itself should be confined")
	}
}

func TestGuardRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	guard := NewGuard(root)

	cases := []string{
		"../../etc",
		"..",
		"../sibling",
		"a/../../..",
	}
	for _, candidate := range cases {
		if _, ok := guard.Confine(candidate); ok {
			t.Errorf("Confine(%q) = ok, want excluded", candidate)
		}
	}
}

func TestGuardRejectsAbsoluteOutside(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	guard := NewGuard(root)

	if _, ok := guard.Confine(other); ok {
		t.Errorf("Confine(%q) = ok, want excluded", other)
	}
}

func TestGuardRejectsMissing(t *testing.T) {
	root := t.TempDir()
	guard := NewGuard(root)

	if _, ok := guard.Confine("no-such-dir"); ok {
		t.Error("a nonexistent candidate should be excluded")
	}
}

func TestGuardRejectsEscapingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatal(err)
	}

	guard := NewGuard(root)
	if _, ok := guard.Confine("escape"); ok {
		t.Error("a symlink resolving outside the root should be excluded")
	}
}

func TestGuardAcceptsInternalSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	target := filepath.Join(root, "real")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(root, "alias")); err != nil {
		t.Fatal(err)
	}

	guard := NewGuard(root)
	if _, ok := guard.Confine("alias"); !ok {
		t.Error("a symlink resolving inside the root should be accepted")
	}
}

func TestGuardRel(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "services", "api"), 0o755); err != nil {
		t.Fatal(err)
	}

	guard := NewGuard(root)
	rel, ok := guard.Rel("services/api")
	if !ok {
		t.Fatal("expected services/api to be confined")
	}
	if rel != "services/api" {
		t.Errorf("Rel = %q, want services/api", rel)
	}

	if _, ok := guard.Rel("../outside"); ok {
		t.Error("Rel should reject an escaping candidate")
	}
}
