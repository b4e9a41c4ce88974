package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/repolens/repolens/internal/monorepo"
)

// ListWorkspacesTool renders the member workspaces of a monorepo as
// a compact human-readable table.
type ListWorkspacesTool struct {
	detector *monorepo.Detector
}

// NewListWorkspacesTool creates a new list workspaces tool
func NewListWorkspacesTool(detector *monorepo.Detector) *ListWorkspacesTool {
	return &ListWorkspacesTool{detector: detector}
}

// Name returns the tool name
func (t *ListWorkspacesTool) Name() string {
	return "list_workspaces"
}

// Description returns the tool description
func (t *ListWorkspacesTool) Description() string {
	return "Lists the member workspaces of a monorepo with their paths, types and technologies. Returns a message when the root is not a monorepo. Requires a path parameter."
}

// Execute runs detection and formats the workspace list
func (t *ListWorkspacesTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	root, err := rootParam(params)
	if err != nil {
		return "", err
	}

	info := t.detector.Detect(ctx, root)
	if !info.IsMonorepo {
		return fmt.Sprintf("Not a monorepo: %s (detection took %dms)", root, info.DetectionTimeMs), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Monorepo governed by %s with %d workspaces", info.Tool, len(info.Workspaces))
	if info.CrossLanguage {
		b.WriteString(" (cross-language)")
	}
	b.WriteString("\n\n")
	for _, ws := range info.Workspaces {
		fmt.Fprintf(&b, "  %-30s %-20s %s", ws.Name, ws.Type, ws.Path)
		if len(ws.Technologies) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(ws.Technologies, ", "))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
