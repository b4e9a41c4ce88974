package monorepo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePnpmPackages(t *testing.T) {
	got, err := parsePnpmPackages([]byte("packages:\n  - 'packages/*'\n  - apps/web\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"packages/*", "apps/web"}, got)
}

func TestParsePnpmPackagesInvalid(t *testing.T) {
	_, err := parsePnpmPackages([]byte("packages: {not a list"))
	require.Error(t, err)
}

func TestParseMelosPackagesDefault(t *testing.T) {
	got, err := parseMelosPackages([]byte("name: my_workspace\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"packages/**"}, got)
}

func TestParsePackageJSONWorkspaces(t *testing.T) {
	cases := []struct {
		name string
		data string
		want []string
	}{
		{"array", `{"workspaces": ["packages/*", "tools/*"]}`, []string{"packages/*", "tools/*"}},
		{"object", `{"workspaces": {"packages": ["packages/*"]}}`, []string{"packages/*"}},
		{"absent", `{"name": "plain"}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePackageJSONWorkspaces([]byte(tc.data))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParsePackageJSONWorkspacesCorrupt(t *testing.T) {
	_, err := parsePackageJSONWorkspaces([]byte(`{"workspaces": [`))
	require.Error(t, err)
}

func TestParseLernaPackagesDefault(t *testing.T) {
	got, err := parseLernaPackages([]byte(`{"version": "1.0.0"}`))
	require.NoError(t, err)
	require.Equal(t, []string{"packages/*"}, got)
}

func TestParseCargoMembers(t *testing.T) {
	data := []byte(`
[workspace]
members = [
    "crates/core",
    "crates/cli",
]
resolver = "2"
`)
	got, err := parseCargoMembers(data)
	require.NoError(t, err)
	require.Equal(t, []string{"crates/core", "crates/cli"}, got)
}

func TestParseCargoMembersNoWorkspace(t *testing.T) {
	data := []byte("[package]\nname = \"solo\"\nversion = \"0.1.0\"\n")
	require.False(t, hasCargoWorkspaceTable(data))

	got, err := parseCargoMembers(data)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestParseGoWorkUse(t *testing.T) {
	got, err := parseGoWorkUse([]byte("go 1.24\n\nuse (\n\t./service-a\n\t./service-b\n)\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"./service-a", "./service-b"}, got)
}

func TestGoModuleName(t *testing.T) {
	cases := []struct {
		data string
		want string
	}{
		{"module github.com/acme/service-a\n\ngo 1.24\n", "service-a"},
		{"module single\n", "single"},
		{"// no module line\n", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, goModuleName([]byte(tc.data)))
	}
}

func TestParsePomModules(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<project>
  <artifactId>parent</artifactId>
  <packaging>pom</packaging>
  <modules>
    <module>core</module>
    <module>web</module>
  </modules>
</project>`)
	pom, err := parsePomModules(data)
	require.NoError(t, err)
	require.Equal(t, "parent", pom.ArtifactID)
	require.Equal(t, []string{"core", "web"}, pom.Modules)
}

func TestParsePomModulesInvalid(t *testing.T) {
	_, err := parsePomModules([]byte("<project><modules>"))
	require.Error(t, err)
}

func TestParseGradleIncludes(t *testing.T) {
	data := []byte(`
rootProject.name = "demo"
include("app")
include ':lib:core', ':lib:util'
// include("commented-out")
include(":services:api")
includeBuild("composite")
`)
	got := parseGradleIncludes(data)
	require.Equal(t, []string{"app", "lib/core", "lib/util", "services/api"}, got)
}

func TestParseSolutionProjects(t *testing.T) {
	data := []byte(`Microsoft Visual Studio Solution File, Format Version 12.00
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Api", "src\Api\Api.csproj", "{AAAA}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{BBBB}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Core", "src\Core\Core.csproj", "{CCCC}"
EndProject
`)
	got := parseSolutionProjects(data)
	require.Equal(t, []solutionProject{
		{Name: "Api", Dir: "src/Api"},
		{Name: "Core", Dir: "src/Core"},
	}, got)
}

func TestTomlName(t *testing.T) {
	require.Equal(t, "my-crate", tomlName([]byte("[package]\nname = \"my-crate\"\nversion = \"0.1.0\"\n")))
	require.Equal(t, "", tomlName([]byte("version = \"1\"\n")))
}

func TestYamlName(t *testing.T) {
	require.Equal(t, "my_app", yamlName([]byte("name: my_app\ndescription: x\n")))
	require.Equal(t, "", yamlName([]byte(": not yaml {")))
}

func TestJSONField(t *testing.T) {
	require.Equal(t, "pkg", jsonField([]byte(`{"name": "pkg", "version": "1.0"}`), "name"))
	require.Equal(t, "", jsonField([]byte(`not json`), "name"))
}

func FuzzParseGradleIncludes(f *testing.F) {
	f.Add("include(\"app\")\n")
	f.Add("include ':a:b', ':c'\n")
	f.Add("include\n")
	f.Add("")
	f.Fuzz(func(t *testing.T, input string) {
		for _, p := range parseGradleIncludes([]byte(input)) {
			if p == "" {
				t.Error("empty project path emitted")
			}
		}
	})
}

func FuzzParseSolutionProjects(f *testing.F) {
	f.Add(`Project("{X}") = "A", "src\A\A.csproj", "{1}"`)
	f.Add(`Project("{X}") = "Folder", "Folder", "{2}"`)
	f.Add("")
	f.Fuzz(func(t *testing.T, input string) {
		for _, p := range parseSolutionProjects([]byte(input)) {
			if p.Dir == "" {
				t.Error("empty project dir emitted")
			}
		}
	})
}

func FuzzParseCargoMembers(f *testing.F) {
	f.Add("[workspace]\nmembers = [\"a\"]\n")
	f.Add("[workspace]\nmembers = [\n")
	f.Add("members = []")
	f.Fuzz(func(t *testing.T, input string) {
		members, err := parseCargoMembers([]byte(input))
		if err != nil {
			return
		}
		for _, m := range members {
			if m == "" {
				t.Error("empty member emitted")
			}
		}
	})
}
