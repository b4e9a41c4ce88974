package healthcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckAllOK(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := CheckAll(root)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Status != "ok" {
			t.Errorf("%s: status %q (%s)", r.Check, r.Status, r.Message)
		}
	}
}

func TestCheckAllMissingRoot(t *testing.T) {
	results := CheckAll(filepath.Join(t.TempDir(), "no-such-dir"))
	if len(results) != 1 {
		t.Fatalf("got %d results, want the existence check only", len(results))
	}
	if results[0].Status != "error" {
		t.Errorf("status = %q, want error", results[0].Status)
	}
}

func TestCheckRootExistsRejectsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := CheckRootExists(file)
	if result.Status != "error" {
		t.Errorf("status = %q, want error for a non-directory", result.Status)
	}
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]CheckResult{
		{Check: "Project root", Status: "ok", Message: "found"},
		{Check: "Root readability", Status: "error", Message: "denied"},
	})
	if !strings.Contains(out, "✓ Project root") {
		t.Errorf("missing ok marker in %q", out)
	}
	if !strings.Contains(out, "✗ Root readability") {
		t.Errorf("missing error marker in %q", out)
	}
}
