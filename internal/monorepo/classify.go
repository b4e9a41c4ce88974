package monorepo

// languageFamilies groups technology tags so that a TypeScript
// package and a JavaScript package do not count as cross-language
// while a Go module next to a Rust crate does.
var languageFamilies = map[string]string{
	"javascript": "javascript",
	"typescript": "javascript",
	"nodejs":     "javascript",
	"dart":       "dart",
	"flutter":    "dart",
	"go":         "go",
	"rust":       "rust",
	"java":       "jvm",
	"kotlin":     "jvm",
	"scala":      "jvm",
	"python":     "python",
	"php":        "php",
	"ruby":       "ruby",
	"csharp":     "dotnet",
	"fsharp":     "dotnet",
	"swift":      "swift",
	"c":          "native",
	"cpp":        "native",
}

// isCrossLanguage reports whether the workspaces span more than one
// language family. Unrecognized tags are ignored; the result is
// deterministic for a fixed workspace set.
func isCrossLanguage(workspaces []WorkspaceInfo) bool {
	seen := make(map[string]bool)
	for _, ws := range workspaces {
		for _, tech := range ws.Technologies {
			if family, ok := languageFamilies[tech]; ok {
				seen[family] = true
				if len(seen) > 1 {
					return true
				}
			}
		}
	}
	return false
}
