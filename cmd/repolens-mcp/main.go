package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/healthcheck"
	"github.com/repolens/repolens/internal/logging"
	"github.com/repolens/repolens/internal/monorepo"
	"github.com/repolens/repolens/internal/techstack"
	"github.com/repolens/repolens/internal/tools"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// MCPTool is the shape every registered tool satisfies.
type MCPTool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	maxWorkspacesFlag := flag.Int("max-workspaces", 0, "Workspace cap (overrides config/env)")
	timeoutFlag := flag.Duration("timeout", 0, "Per-detector timeout (overrides config/env)")
	watchFlag := flag.Bool("watch", false, "Watch the root and invalidate caches on change")
	rootFlag := flag.String("root", "", "Repository root to preflight and watch (default: cwd)")
	versionFlag := flag.Bool("version", false, "Print version information and exit")
	healthFlag := flag.Bool("health", false, "Run preflight checks and exit")

	flag.Usage = printUsage
	flag.Parse()

	// Keep stdout clean for the MCP stdio protocol.
	log.SetOutput(os.Stderr)

	if *versionFlag {
		fmt.Printf("RepoLens MCP Server\n")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Date: %s\n", Date)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *maxWorkspacesFlag > 0 {
		cfg.Detection.MaxWorkspaces = *maxWorkspacesFlag
	}
	if *timeoutFlag > 0 {
		cfg.Detection.Timeout = config.Duration(*timeoutFlag)
	}
	if *watchFlag {
		cfg.Watch.Enabled = true
	}

	logger := logging.Default()
	logger.SetLevel(cfg.Logging.Level)

	root := *rootFlag
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			log.Fatalf("Failed to determine working directory: %v", err)
		}
	}

	if *healthFlag {
		results := healthcheck.CheckAll(root)
		fmt.Fprint(os.Stderr, healthcheck.FormatResults(results))
		for _, result := range results {
			if result.Status != "ok" {
				os.Exit(1)
			}
		}
		os.Exit(0)
	}

	detector, err := monorepo.NewDetectorWithOptions(monorepo.Options{
		MaxWorkspaces:    cfg.Detection.MaxWorkspaces,
		Timeout:          cfg.Detection.Timeout.Std(),
		EnableCache:      cfg.Detection.EnableCache,
		MaxManifestBytes: cfg.Detection.MaxManifestBytes,
	})
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}
	techDetector := techstack.NewDetector()
	projectAnalyzer := analyzer.New(detector, techDetector)

	if cfg.Watch.Enabled {
		watcher, err := monorepo.NewWatcher(root, detector, cfg.Watch.Debounce.Std())
		if err != nil {
			logger.Warn("Failed to create watcher, continuing without: %v", err)
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "repolens",
		Version: Version,
	}, nil)

	registerAgentTool(server, tools.NewAnalyzeProjectTool(projectAnalyzer))
	registerAgentTool(server, tools.NewDetectMonorepoTool(detector))
	registerAgentTool(server, tools.NewDetectTechStackTool(techDetector))
	registerAgentTool(server, tools.NewListWorkspacesTool(detector))

	logger.Info("RepoLens MCP server started (stdio mode)")
	logger.Info("Detection limits: %d workspaces, %s per detector, cache=%t",
		cfg.Detection.MaxWorkspaces, cfg.Detection.Timeout, cfg.Detection.EnableCache)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server terminated: %v", err)
	}
}

func registerAgentTool(server *mcp.Server, tool MCPTool) {
	server.AddTool(&mcp.Tool{
		Name:        tool.Name(),
		Description: tool.Description(),
		InputSchema: pathToolSchema(),
	}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if req.Params != nil && req.Params.Arguments != nil {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		result, err := tool.Execute(ctx, args)
		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{
					&mcp.TextContent{Text: err.Error()},
				},
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result},
			},
		}, nil
	})
}

// pathToolSchema is shared by every tool; each takes one repository
// root path.
func pathToolSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the repository root to analyze",
			},
		},
		"required": []string{"path"},
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `RepoLens MCP Server - Workspace topology detection for repositories

USAGE:
    repolens-mcp [OPTIONS]

EXAMPLES:
    # Start with default configuration
    repolens-mcp

    # Use custom config file and watch for changes
    repolens-mcp -config my-config.yaml -watch

    # Run preflight checks against a root
    repolens-mcp -root /src/myrepo -health

OPTIONS:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
CONFIGURATION PRECEDENCE:
    CLI flags > Environment variables > config.yaml > defaults

ENVIRONMENT VARIABLES:
    REPOLENS_MAX_WORKSPACES   Workspace cap (default: 1000)
    REPOLENS_TIMEOUT          Per-detector timeout (default: 30s, max 5m)
    REPOLENS_ENABLE_CACHE     Enable the glob cache (default: true)
    REPOLENS_WATCH            Watch the root for changes (default: false)
    REPOLENS_LOG_LEVEL        Log level: debug, info, warn, error (default: info)
    REPOLENS_LOG_FILE         Optional log file path
`)
}
