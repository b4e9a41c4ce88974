package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/repolens/repolens/internal/analyzer"
)

// AnalyzeProjectTool produces the merged, confidence-scored project
// context for a repository root.
type AnalyzeProjectTool struct {
	analyzer *analyzer.Analyzer
}

// NewAnalyzeProjectTool creates a new analyze project tool
func NewAnalyzeProjectTool(a *analyzer.Analyzer) *AnalyzeProjectTool {
	return &AnalyzeProjectTool{analyzer: a}
}

// Name returns the tool name
func (t *AnalyzeProjectTool) Name() string {
	return "analyze_project"
}

// Description returns the tool description
func (t *AnalyzeProjectTool) Description() string {
	return "Analyzes a repository root: runs tech-stack and monorepo detection in parallel and merges them into a typed, confidence-scored project context. Requires a path parameter."
}

// Execute runs the analysis and returns the context as JSON
func (t *AnalyzeProjectTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	root, err := rootParam(params)
	if err != nil {
		return "", err
	}

	pc := t.analyzer.Analyze(ctx, root)
	out, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(out), nil
}
