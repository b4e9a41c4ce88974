package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/monorepo"
	"github.com/repolens/repolens/internal/techstack"
)

var (
	Version = "dev"

	maxWorkspaces int
	timeout       time.Duration
	noCache       bool
	jsonOutput    bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repolens",
		Short:   "Workspace topology detection for repositories",
		Long:    "repolens detects monorepo layout, tech stack and project context for a repository root.",
		Version: Version,
	}

	cmd.PersistentFlags().IntVar(&maxWorkspaces, "max-workspaces", 0, "cap on enumerated workspaces (0 = default)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-detector timeout (0 = default)")
	cmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the glob result cache")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of a summary")

	cmd.AddCommand(analyzeCmd())
	cmd.AddCommand(workspacesCmd())
	cmd.AddCommand(stackCmd())
	return cmd
}

func buildDetector() (*monorepo.Detector, error) {
	return monorepo.NewDetectorWithOptions(monorepo.Options{
		MaxWorkspaces: maxWorkspaces,
		Timeout:       timeout,
		EnableCache:   !noCache,
	})
}

// argRoot resolves the positional root argument, defaulting to the
// working directory.
func argRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	return filepath.Abs(root)
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a repository root into a project context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := argRoot(args)
			if err != nil {
				return err
			}
			detector, err := buildDetector()
			if err != nil {
				return err
			}
			a := analyzer.New(detector, techstack.NewDetector())
			pc := a.Analyze(cmd.Context(), root)
			if jsonOutput {
				return printJSON(pc)
			}
			fmt.Printf("Purpose:      %s\n", pc.Purpose)
			fmt.Printf("Type:         %s\n", pc.Type)
			if len(pc.TechStack.Languages) > 0 {
				fmt.Printf("Languages:    %v\n", pc.TechStack.Languages)
			}
			if len(pc.TechStack.Frameworks) > 0 {
				fmt.Printf("Frameworks:   %v\n", pc.TechStack.Frameworks)
			}
			fmt.Printf("Git workflow: %s\n", pc.GitWorkflow)
			fmt.Printf("Confidence:   %.2f\n", pc.Confidence)
			return nil
		},
	}
}

func workspacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces [path]",
		Short: "Detect monorepo topology and list member workspaces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := argRoot(args)
			if err != nil {
				return err
			}
			detector, err := buildDetector()
			if err != nil {
				return err
			}
			info := detector.Detect(cmd.Context(), root)
			if jsonOutput {
				return printJSON(info)
			}
			if !info.IsMonorepo {
				fmt.Printf("Not a monorepo (%dms)\n", info.DetectionTimeMs)
				return nil
			}
			fmt.Printf("%s monorepo, %d workspaces (%dms)\n", info.Tool, len(info.Workspaces), info.DetectionTimeMs)
			for _, ws := range info.Workspaces {
				fmt.Printf("  %-30s %-20s %s\n", ws.Name, ws.Type, ws.Path)
			}
			return nil
		},
	}
}

func stackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stack [path]",
		Short: "Detect the tech stack of a project root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := argRoot(args)
			if err != nil {
				return err
			}
			stack := techstack.NewDetector().Detect(cmd.Context(), root)
			if jsonOutput {
				return printJSON(stack)
			}
			fmt.Printf("Languages:  %v\n", stack.Languages)
			fmt.Printf("Frameworks: %v\n", stack.Frameworks)
			fmt.Printf("Tools:      %v\n", stack.Tools)
			fmt.Printf("Confidence: %.2f\n", stack.Confidence)
			return nil
		},
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
