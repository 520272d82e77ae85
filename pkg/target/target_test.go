package target

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Target
		wantErr bool
	}{
		{input: "claude", want: Claude},
		{input: "opencode", want: OpenCode},
		{input: "gemini", want: Gemini},
		{input: " Claude ", want: Claude},
		{input: "cursor", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseList(t *testing.T) {
	targets, err := ParseList("claude,gemini")
	require.NoError(t, err)
	assert.Equal(t, []Target{Claude, Gemini}, targets)

	targets, err = ParseList("all")
	require.NoError(t, err)
	assert.Equal(t, All(), targets)

	targets, err = ParseList("claude,claude")
	require.NoError(t, err)
	assert.Equal(t, []Target{Claude}, targets)

	_, err = ParseList("claude,nope")
	assert.Error(t, err)

	_, err = ParseList("")
	assert.Error(t, err)
}

func newTestResolver(t *testing.T, home string) *Resolver {
	t.Helper()
	r, err := NewResolver(WithHome(home))
	require.NoError(t, err)
	return r
}

func TestResolverSkillPath(t *testing.T) {
	r := newTestResolver(t, "/home/op")

	tests := []struct {
		name        string
		target      Target
		projectPath string
		want        string
	}{
		{name: "claude user", target: Claude, want: "/home/op/.claude/skills/demo"},
		{name: "claude project", target: Claude, projectPath: "/proj", want: "/proj/.claude/skills/demo"},
		{name: "opencode user", target: OpenCode, want: "/home/op/.config/opencode/skill/demo"},
		{name: "opencode project", target: OpenCode, projectPath: "/proj", want: "/proj/.opencode/skill/demo"},
		{name: "gemini project", target: Gemini, projectPath: "/proj", want: "/proj/GEMINI.md"},
		{name: "gemini defaults to cwd", target: Gemini, want: filepath.Join(".", "GEMINI.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.SkillPath(tt.target, "demo", tt.projectPath)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResolverSkillPathGeminiIgnoresName(t *testing.T) {
	r := newTestResolver(t, "/home/op")

	a, err := r.SkillPath(Gemini, "one", "/proj")
	require.NoError(t, err)
	b, err := r.SkillPath(Gemini, "two", "/proj")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResolverRegistryPath(t *testing.T) {
	r := newTestResolver(t, "/home/op")

	assert.Equal(t, filepath.FromSlash("/home/op/.skillet/links/claude.json"), r.RegistryPath(Claude, ""))
	assert.Equal(t, filepath.FromSlash("/proj/.skillet/links/opencode.json"), r.RegistryPath(OpenCode, "/proj"))
	assert.Equal(t, filepath.FromSlash("/home/op/.skillet/links/gemini.json"), r.RegistryPath(Gemini, ""))
}

func TestResolverBaseDirUnknownTarget(t *testing.T) {
	r := newTestResolver(t, "/home/op")
	_, err := r.BaseDir(Target("cursor"), "")
	assert.Error(t, err)
}
