package monorepo

import "testing"

func TestIsCrossLanguage(t *testing.T) {
	ws := func(techs ...string) WorkspaceInfo {
		return WorkspaceInfo{Technologies: techs}
	}

	cases := []struct {
		name       string
		workspaces []WorkspaceInfo
		want       bool
	}{
		{
			name:       "go and rust",
			workspaces: []WorkspaceInfo{ws("go"), ws("rust")},
			want:       true,
		},
		{
			name:       "typescript and javascript share a family",
			workspaces: []WorkspaceInfo{ws("typescript"), ws("javascript")},
			want:       false,
		},
		{
			name:       "java and kotlin share the jvm",
			workspaces: []WorkspaceInfo{ws("java"), ws("kotlin")},
			want:       false,
		},
		{
			name:       "csharp and fsharp share dotnet",
			workspaces: []WorkspaceInfo{ws("csharp"), ws("fsharp")},
			want:       false,
		},
		{
			name:       "kotlin next to go",
			workspaces: []WorkspaceInfo{ws("kotlin"), ws("go")},
			want:       true,
		},
		{
			name:       "unknown tags are ignored",
			workspaces: []WorkspaceInfo{ws("go", "docker"), ws("go")},
			want:       false,
		},
		{
			name:       "single workspace",
			workspaces: []WorkspaceInfo{ws("python")},
			want:       false,
		},
		{
			name:       "empty",
			workspaces: nil,
			want:       false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isCrossLanguage(tc.workspaces); got != tc.want {
				t.Errorf("isCrossLanguage = %v, want %v", got, tc.want)
			}
		})
	}
}
