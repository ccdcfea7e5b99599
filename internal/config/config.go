// Package config loads cslayout.toml or .cslayout.yaml and turns it into a
// rule set plus layout options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"cslayout/internal/diag"
	"cslayout/internal/layout"
	"cslayout/internal/rules"
)

// Имена файлов в порядке поиска внутри одного каталога.
const (
	FileTOML = "cslayout.toml"
	FileYAML = ".cslayout.yaml"
	FileYML  = ".cslayout.yml"
)

var fileNames = []string{FileTOML, FileYAML, FileYML}

// ErrUnknownRule is rules.ErrUnknownRule; errors.Is matches either.
var ErrUnknownRule = rules.ErrUnknownRule

// SeverityOff in [rules.severity] disables the rule.
const SeverityOff = "off"

// defaultExclude keeps build output out of directory runs.
var defaultExclude = []string{"bin", "obj", ".git"}

type fileConfig struct {
	Layout layoutSection `toml:"layout" yaml:"layout"`
	Rules  rulesSection  `toml:"rules" yaml:"rules"`
	Files  filesSection  `toml:"files" yaml:"files"`
}

type layoutSection struct {
	IndentSize *int `toml:"indent_size" yaml:"indent_size"`
	TabSize    *int `toml:"tab_size" yaml:"tab_size"`
}

type rulesSection struct {
	Disable    []string          `toml:"disable" yaml:"disable"`
	EnableOnly []string          `toml:"enable_only" yaml:"enable_only"`
	Severity   map[string]string `toml:"severity" yaml:"severity"`
}

type filesSection struct {
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

// Config is the resolved configuration. It is not modified after Load.
type Config struct {
	Path    string // пусто, если файл не найден
	Root    string
	Layout  layout.Options
	Rules   *rules.Set
	Exclude []string
}

// Default is used when no configuration file exists.
func Default() *Config {
	return &Config{
		Layout:  layout.Default(),
		Rules:   rules.All(),
		Exclude: slices.Clone(defaultExclude),
	}
}

// Find walks up from startDir and returns the first configuration file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for startDir, falling back to
// Default when there is none.
func Discover(startDir string) (*Config, error) {
	p, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(p)
}

// Load reads one configuration file; the format follows the extension.
func Load(p string) (*Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", p, err)
		}
	default:
		meta, err := toml.Decode(string(data), &fc)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", p, undecoded[0].String())
		}
	}
	cfg, err := fc.resolve()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	cfg.Path = p
	cfg.Root = filepath.Dir(p)
	return cfg, nil
}

func (fc *fileConfig) resolve() (*Config, error) {
	cfg := Default()
	if fc.Layout.IndentSize != nil {
		cfg.Layout.IndentSize = *fc.Layout.IndentSize
	}
	if fc.Layout.TabSize != nil {
		cfg.Layout.TabSize = *fc.Layout.TabSize
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}

	set := rules.All()
	var err error
	if len(fc.Rules.EnableOnly) > 0 {
		if set, err = set.Only(fc.Rules.EnableOnly...); err != nil {
			return nil, err
		}
	}
	if len(fc.Rules.Disable) > 0 {
		if set, err = set.Without(fc.Rules.Disable...); err != nil {
			return nil, err
		}
	}
	// порядок обхода map не важен: каждый ключ трогает только своё правило
	for key, value := range fc.Rules.Severity {
		if strings.EqualFold(strings.TrimSpace(value), SeverityOff) {
			if set, err = set.Without(key); err != nil {
				return nil, err
			}
			continue
		}
		sev, perr := diag.ParseSeverity(value)
		if perr != nil {
			return nil, fmt.Errorf("[rules.severity] %s: %w", key, perr)
		}
		if set, err = set.WithSeverity(key, sev); err != nil {
			return nil, err
		}
	}
	cfg.Rules = set

	if fc.Files.Exclude != nil {
		for _, pattern := range fc.Files.Exclude {
			if _, err := path.Match(pattern, ""); err != nil {
				return nil, fmt.Errorf("[files] exclude %q: %w", pattern, err)
			}
		}
		cfg.Exclude = slices.Clone(fc.Files.Exclude)
	}
	return cfg, nil
}

// Excluded reports whether a slash-separated path relative to the walk root
// matches an exclude pattern, either as a whole or by one of its segments.
func (c *Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		for seg := range strings.SplitSeq(rel, "/") {
			if ok, _ := path.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}
