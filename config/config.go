package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Clones     ClonesConfig     `json:"clones" yaml:"clones"`
	Filters    FilterConfig     `json:"filters" yaml:"filters"`
	Walk       WalkConfig       `json:"walk" yaml:"walk"`
	Counting   CountingConfig   `json:"counting" yaml:"counting"`
	Pipeline   PipelineConfig   `json:"pipeline" yaml:"pipeline"`
	Syntax     SyntaxConfig     `json:"syntax" yaml:"syntax"`
	Stargazers StargazersConfig `json:"stargazers" yaml:"stargazers"`
}

// ClonesConfig holds where remote repositories are cloned.
type ClonesConfig struct {
	Dir string `json:"dir" yaml:"dir"` // Default: "repos"
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// WalkConfig holds commit walking options.
type WalkConfig struct {
	Branch       string `json:"branch" yaml:"branch"`             // Default: "HEAD"
	RenameDetect string `json:"renameDetect" yaml:"renameDetect"` // off|simple|aggressive
	Backend      string `json:"backend" yaml:"backend"`           // go-git|git-cli
}

// CountingConfig controls how sizes are measured.
type CountingConfig struct {
	// AddDeleteMode selects the size unit of added and deleted files: chars or lines.
	AddDeleteMode string `json:"addDeleteMode" yaml:"addDeleteMode"`
}

// PipelineConfig holds repository processing options.
type PipelineConfig struct {
	Workers        int    `json:"workers" yaml:"workers"`
	DedupeByCommit bool   `json:"dedupeByCommit" yaml:"dedupeByCommit"`
	OutDir         string `json:"outDir" yaml:"outDir"`         // Default: "outjsons"
	OutputPath     string `json:"outputPath" yaml:"outputPath"` // Default: "output"
	ListURL        string `json:"listUrl" yaml:"listUrl"`       // repository list file or URL
}

// SyntaxConfig holds syntax extraction options.
type SyntaxConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Languages []string `json:"languages" yaml:"languages"`
}

// StargazersConfig holds stargazer collection options.
type StargazersConfig struct {
	StarsLimit int `json:"starsLimit" yaml:"starsLimit"`
	PerPage    int `json:"perPage" yaml:"perPage"`
	TopCommon  int `json:"topCommon" yaml:"topCommon"`
}

// Valid option values.
const (
	RenameDetectOff        = "off"
	RenameDetectSimple     = "simple"
	RenameDetectAggressive = "aggressive"

	BackendGoGit  = "go-git"
	BackendGitCLI = "git-cli"

	AddDeleteChars = "chars"
	AddDeleteLines = "lines"
)

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Clones: ClonesConfig{
			Dir: "repos",
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Walk: WalkConfig{
			Branch:       "HEAD",
			RenameDetect: RenameDetectOff,
			Backend:      BackendGoGit,
		},
		Counting: CountingConfig{
			AddDeleteMode: AddDeleteChars,
		},
		Pipeline: PipelineConfig{
			Workers:        1,
			DedupeByCommit: true,
			OutDir:         "outjsons",
			OutputPath:     "output",
		},
		Syntax: SyntaxConfig{
			Enabled:   true,
			Languages: []string{"python", "javascript", "java"},
		},
		Stargazers: StargazersConfig{
			StarsLimit: 100,
			PerPage:    100,
			TopCommon:  100,
		},
	}
}

// Validate reports the first invalid option.
func (c *Config) Validate() error {
	switch c.Walk.RenameDetect {
	case RenameDetectOff, RenameDetectSimple, RenameDetectAggressive:
	default:
		return fmt.Errorf("walk.renameDetect: unknown mode %q", c.Walk.RenameDetect)
	}
	switch c.Walk.Backend {
	case BackendGoGit, BackendGitCLI:
	default:
		return fmt.Errorf("walk.backend: unknown backend %q", c.Walk.Backend)
	}
	switch c.Counting.AddDeleteMode {
	case AddDeleteChars, AddDeleteLines:
	default:
		return fmt.Errorf("counting.addDeleteMode: unknown mode %q", c.Counting.AddDeleteMode)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be positive, got %d", c.Pipeline.Workers)
	}
	if c.Stargazers.StarsLimit < 1 {
		return fmt.Errorf("stargazers.starsLimit must be positive, got %d", c.Stargazers.StarsLimit)
	}
	if c.Stargazers.PerPage < 1 || c.Stargazers.PerPage > 100 {
		return fmt.Errorf("stargazers.perPage must be in [1,100], got %d", c.Stargazers.PerPage)
	}
	return nil
}

var configNames = []string{".repomine.json", ".repomine.yaml", ".repomine.yml"}

// LoadConfig loads configuration from a file, merging with defaults.
// With an empty path the working directory and then the home directory are searched.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfig()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func findConfig() string {
	var dirs []string
	dirs = append(dirs, ".")
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}

	for _, dir := range dirs {
		for _, name := range configNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// SaveConfig saves configuration to a file, as YAML for .yaml/.yml paths and JSON otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
