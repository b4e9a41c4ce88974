package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/repolens/repolens/internal/techstack"
)

// DetectTechStackTool sniffs the languages, frameworks and tools of
// a single project root.
type DetectTechStackTool struct {
	detector *techstack.Detector
}

// NewDetectTechStackTool creates a new detect tech stack tool
func NewDetectTechStackTool(detector *techstack.Detector) *DetectTechStackTool {
	return &DetectTechStackTool{detector: detector}
}

// Name returns the tool name
func (t *DetectTechStackTool) Name() string {
	return "detect_tech_stack"
}

// Description returns the tool description
func (t *DetectTechStackTool) Description() string {
	return "Detects the languages, frameworks and build tools of a project from its root-level manifests, with a bounded extension scan as fallback. Requires a path parameter."
}

// Execute runs detection and returns the result as JSON
func (t *DetectTechStackTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	root, err := rootParam(params)
	if err != nil {
		return "", err
	}

	stack := t.detector.Detect(ctx, root)
	out, err := json.MarshalIndent(stack, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(out), nil
}
