package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/repolens/repolens/internal/logging"
	"github.com/repolens/repolens/internal/monorepo"
	"github.com/repolens/repolens/internal/scan"
	"github.com/repolens/repolens/internal/techstack"
)

// ProjectContext aggregates everything the analyzer learns about a
// root. It is constructed fresh per Analyze call and never persisted.
// Purpose, Domain and CustomInstructions are filled by collaborators
// (documentation extraction stays outside this core).
type ProjectContext struct {
	Purpose            string                 `json:"purpose,omitempty"`
	Type               string                 `json:"type"`
	TechStack          techstack.TechStack    `json:"tech_stack"`
	Domain             []string               `json:"domain,omitempty"`
	GitWorkflow        string                 `json:"git_workflow,omitempty"`
	Conventions        []string               `json:"conventions,omitempty"`
	CustomInstructions string                 `json:"custom_instructions,omitempty"`
	Confidence         float64                `json:"confidence"`
	Monorepo           *monorepo.MonorepoInfo `json:"monorepo,omitempty"`
}

// Analyzer merges monorepo and tech-stack detection into one
// confidence-scored context.
type Analyzer struct {
	mono *monorepo.Detector
	tech *techstack.Detector
}

// New creates an analyzer around existing detectors.
func New(mono *monorepo.Detector, tech *techstack.Detector) *Analyzer {
	return &Analyzer{mono: mono, tech: tech}
}

// Analyze runs tech-stack and monorepo detection in parallel and
// merges the results. Monorepo failures degrade to single-project
// typing; the caller always receives a context, never an error.
func (a *Analyzer) Analyze(ctx context.Context, root string) *ProjectContext {
	pc := &ProjectContext{}

	var stack *techstack.TechStack
	var mono *monorepo.MonorepoInfo

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stack = a.tech.Detect(gctx, root)
		return nil
	})
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				logging.Default().Warn("monorepo detection failed for %s: %v", root, r)
				mono = nil
			}
		}()
		mono = a.mono.Detect(gctx, root)
		return nil
	})
	_ = g.Wait()

	if stack != nil {
		pc.TechStack = *stack
	}
	if mono != nil && mono.IsMonorepo {
		pc.Monorepo = mono
		pc.Type = monorepoLabel(mono)
	} else {
		pc.Type = singleProjectLabel(&pc.TechStack)
	}

	pc.GitWorkflow = detectGitWorkflow(root)
	pc.Confidence = overallConfidence(pc)
	return pc
}

// monorepoLabel relabels the coarse project type with the tool, the
// dominant technologies and the workspace count.
func monorepoLabel(info *monorepo.MonorepoInfo) string {
	techs := dominantTechnologies(info)
	label := fmt.Sprintf("%s monorepo (%d workspaces", info.Tool, len(info.Workspaces))
	if len(techs) > 0 {
		label += ", " + strings.Join(techs, "/")
	}
	return label + ")"
}

func singleProjectLabel(stack *techstack.TechStack) string {
	if len(stack.Languages) == 0 {
		return "unknown project"
	}
	return stack.Languages[0] + " project"
}

// dominantTechnologies ranks workspace technology tags by frequency
// and keeps the top two.
func dominantTechnologies(info *monorepo.MonorepoInfo) []string {
	counts := make(map[string]int)
	var order []string
	for _, ws := range info.Workspaces {
		for _, tech := range ws.Technologies {
			if counts[tech] == 0 {
				order = append(order, tech)
			}
			counts[tech]++
		}
	}
	// Stable selection sort over first-seen order.
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if counts[order[j]] > counts[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	if len(order) > 2 {
		order = order[:2]
	}
	return order
}

// detectGitWorkflow reports the version-control setup visible at the
// root: plain git, plus the CI system when one is configured.
func detectGitWorkflow(root string) string {
	if !scan.Exists(filepath.Join(root, ".git")) {
		return ""
	}
	switch {
	case scan.Exists(filepath.Join(root, ".github", "workflows")):
		return "git + github-actions"
	case scan.Exists(filepath.Join(root, ".gitlab-ci.yml")):
		return "git + gitlab-ci"
	case scan.Exists(filepath.Join(root, ".circleci")):
		return "git + circleci"
	default:
		return "git"
	}
}

// overallConfidence weighs each discovered facet; facets supplied by
// collaborators (purpose, domain) contribute when present.
func overallConfidence(pc *ProjectContext) float64 {
	c := 0.0
	if len(pc.TechStack.Languages) > 0 {
		c += 0.25
	}
	if pc.Monorepo != nil && pc.Monorepo.IsMonorepo {
		c += 0.15
	}
	if pc.Purpose != "" {
		c += 0.25
	}
	if len(pc.Domain) > 0 {
		c += 0.15
	}
	if pc.GitWorkflow != "" {
		c += 0.2
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}
