package monorepo

// WorkspaceInfo describes one member package inside a monorepo.
// Values are immutable once enumeration returns them.
type WorkspaceInfo struct {
	// Name is taken from the workspace's own manifest, falling back
	// to the directory name.
	Name string `json:"name"`

	// Path is relative to the repository root, always confined to it.
	Path string `json:"path"`

	// Type is a human label such as "Go Module" or "Rust Crate".
	Type string `json:"type"`

	// Technologies are the tags detected from the workspace manifest.
	Technologies []string `json:"technologies,omitempty"`

	// HasOwnPackageManager is true when the workspace carries its own
	// lockfile rather than relying on the repository root.
	HasOwnPackageManager bool `json:"has_own_package_manager"`
}

// MonorepoInfo is the detection result for a repository root.
// IsMonorepo=true always implies at least one workspace; a
// tool-declared-but-empty root degrades to IsMonorepo=false.
type MonorepoInfo struct {
	IsMonorepo       bool            `json:"is_monorepo"`
	Tool             string          `json:"tool,omitempty"`
	RootPath         string          `json:"root_path"`
	Workspaces       []WorkspaceInfo `json:"workspaces"`
	RootTechnologies []string        `json:"root_technologies,omitempty"`

	// CrossLanguage is meaningful only when IsMonorepo is true.
	CrossLanguage bool `json:"cross_language"`

	DetectionTimeMs int64 `json:"detection_time_ms"`
}

// Detector tool identifiers, in priority order.
const (
	ToolPnpm               = "pnpm"
	ToolYarnWorkspaces     = "yarn-workspaces"
	ToolNpmWorkspaces      = "npm-workspaces"
	ToolLerna              = "lerna"
	ToolNx                 = "nx"
	ToolCargoWorkspace     = "cargo-workspace"
	ToolGoWorkspace        = "go-workspace"
	ToolMavenMultiModule   = "maven-multi-module"
	ToolGradleMultiProject = "gradle-multi-project"
	ToolDotnetSolution     = "dotnet-solution"
	ToolMelos              = "melos"
	ToolSiblingPackages    = "sibling-packages"
)
