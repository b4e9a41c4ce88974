package healthcheck

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Check   string
	Status  string
	Message string
	Error   error
}

// CheckRootExists verifies the project root exists and is a directory
func CheckRootExists(root string) CheckResult {
	result := CheckResult{
		Check:  "Project root",
		Status: "unknown",
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		result.Status = "error"
		result.Error = err
		result.Message = fmt.Sprintf("Cannot resolve path %s: %v", root, err)
		return result
	}

	info, err := os.Stat(abs)
	if err != nil {
		result.Status = "error"
		result.Error = err
		result.Message = fmt.Sprintf("Path does not exist: %s", abs)
		return result
	}
	if !info.IsDir() {
		result.Status = "error"
		result.Message = fmt.Sprintf("Path is not a directory: %s", abs)
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found project root at %s", abs)
	return result
}

// CheckRootReadable verifies the project root can be listed
func CheckRootReadable(root string) CheckResult {
	result := CheckResult{
		Check:  "Root readability",
		Status: "unknown",
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		result.Status = "error"
		result.Error = err
		result.Message = fmt.Sprintf("Cannot read directory %s: %v", root, err)
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Readable, %d entries", len(entries))
	return result
}

// CheckAll runs all preflight checks for a project root
func CheckAll(root string) []CheckResult {
	results := []CheckResult{CheckRootExists(root)}
	if results[0].Status == "ok" {
		results = append(results, CheckRootReadable(root))
	}
	return results
}

// FormatResults formats health check results for display
func FormatResults(results []CheckResult) string {
	output := "\n=== Preflight Check ===\n\n"

	for _, result := range results {
		var status string
		switch result.Status {
		case "ok":
			status = "✓"
		case "error":
			status = "✗"
		default:
			status = "?"
		}

		output += fmt.Sprintf("%s %s: %s\n", status, result.Check, result.Message)
	}

	return output
}
