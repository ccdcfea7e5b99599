package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cslayout/internal/diag"
	"cslayout/internal/layout"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, FileTOML, `
[layout]
indent_size = 2

[rules]
disable = ["LY1008", "throw-separation"]

[rules.severity]
LY2005 = "error"
LY2006 = "off"

[files]
exclude = ["Generated", "*.g.cs"]
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, layout.Options{IndentSize: 2, TabSize: 4}, cfg.Layout)
	require.Equal(t, dir, cfg.Root)
	require.False(t, cfg.Rules.Has("LY1008"))
	require.False(t, cfg.Rules.Has("LY1009"))
	require.False(t, cfg.Rules.Has("LY2006"))
	require.True(t, cfg.Rules.Has("LY1003"))
	require.Equal(t, diag.SevError, cfg.Rules.Severity("LY2005"))
	require.Equal(t, diag.SevWarning, cfg.Rules.Severity("LY1003"))
	require.Equal(t, 20, cfg.Rules.Len())

	require.True(t, cfg.Excluded("src/Generated/Model.cs"))
	require.True(t, cfg.Excluded("src/View.g.cs"))
	require.False(t, cfg.Excluded("src/View.cs"))
	require.False(t, cfg.Excluded("bin/Debug/x.cs"), "explicit exclude replaces the default list")
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, FileYAML, `
layout:
  tab_size: 8
rules:
  enable_only: [LY1003, LY1004]
  severity:
    LY1004: info
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Layout.TabSize)
	require.Equal(t, 4, cfg.Layout.IndentSize)
	require.Equal(t, "LY1003=warning LY1004=info", cfg.Rules.String())
	require.True(t, cfg.Excluded("obj/Debug/a.cs"))
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(write(t, t.TempDir(), FileYML, ""))
	require.NoError(t, err)
	require.Equal(t, 23, cfg.Rules.Len())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		is      error
		msg     string
	}{
		{"unknown rule", FileTOML, "[rules]\ndisable = [\"LY9999\"]\n", ErrUnknownRule, "LY9999"},
		{"unknown severity rule", FileTOML, "[rules.severity]\nnope = \"error\"\n", ErrUnknownRule, "nope"},
		{"bad severity", FileTOML, "[rules.severity]\nLY1001 = \"fatal\"\n", nil, "unknown severity"},
		{"bad indent", FileTOML, "[layout]\nindent_size = 0\n", layout.ErrInvalidOptions, "indent_size"},
		{"unknown key toml", FileTOML, "[layout]\nindent = 2\n", nil, "unknown key"},
		{"unknown key yaml", FileYAML, "layout:\n  indent: 2\n", nil, "field indent not found"},
		{"bad pattern", FileTOML, "[files]\nexclude = [\"[\"]\n", nil, "exclude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), tt.file, tt.content))
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileTOML, "[layout]\nindent_size = 3\n")
	src := write(t, root, "src/App/Program.cs", "class P { }\n")

	p, ok, err := Find(src)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, FileTOML), p)

	cfg, err := Discover(filepath.Dir(src))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Layout.IndentSize)
}

func TestDiscoverPrefersTOML(t *testing.T) {
	root := t.TempDir()
	write(t, root, FileTOML, "")
	write(t, root, FileYAML, "")
	p, ok, err := Find(root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, FileTOML, filepath.Base(p))
}
