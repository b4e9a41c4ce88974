package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/repolens/repolens/internal/monorepo"
)

// DetectMonorepoTool classifies a repository root's workspace
// topology.
type DetectMonorepoTool struct {
	detector *monorepo.Detector
}

// NewDetectMonorepoTool creates a new detect monorepo tool
func NewDetectMonorepoTool(detector *monorepo.Detector) *DetectMonorepoTool {
	return &DetectMonorepoTool{detector: detector}
}

// Name returns the tool name
func (t *DetectMonorepoTool) Name() string {
	return "detect_monorepo"
}

// Description returns the tool description
func (t *DetectMonorepoTool) Description() string {
	return "Detects whether a repository root is a monorepo, which tool governs it (pnpm, cargo workspace, go workspace, maven, ...), and enumerates member workspaces with technology fingerprints. Requires a path parameter pointing at the repository root."
}

// Execute runs detection and returns the result as JSON
func (t *DetectMonorepoTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	root, err := rootParam(params)
	if err != nil {
		return "", err
	}

	info := t.detector.Detect(ctx, root)
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(out), nil
}

// rootParam extracts and normalizes the repository root path from
// tool parameters.
func rootParam(params map[string]interface{}) (string, error) {
	for _, key := range []string{"path", "root", "directory", "dir"} {
		if value, ok := params[key]; ok {
			if path, ok := value.(string); ok && path != "" {
				abs, err := filepath.Abs(path)
				if err != nil {
					return "", fmt.Errorf("invalid path %q: %w", path, err)
				}
				return abs, nil
			}
		}
	}
	return "", fmt.Errorf("missing required parameter: path")
}
