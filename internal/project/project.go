// Package project manages the on-disk project list. Each project is a
// directory under ~/.panedeck/projects/<name>/ holding a config.yaml and any
// saved pane layouts. Projects are cheap: creating one just creates the
// directory and writes the config.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectDirEnv is the env var override for the projects base directory.
	ProjectDirEnv = "PANEDECK_PROJECTS_DIR"
	// DefaultProjectsBase is the default base for project directories under $HOME.
	DefaultProjectsBase = ".panedeck/projects"
	// ConfigFileName is the per-project config file.
	ConfigFileName = "config.yaml"
)

// validName restricts project names to something safe as a directory name.
var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9-_]*$`)

// ResolveProjectsBase returns the projects base directory, using the
// PANEDECK_PROJECTS_DIR env var if set, otherwise ~/.panedeck/projects.
func ResolveProjectsBase() (string, error) {
	if base := os.Getenv(ProjectDirEnv); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultProjectsBase), nil
}

// Config is the per-project config.yaml document.
type Config struct {
	// ServerURL overrides the global settings server for this project.
	ServerURL string `yaml:"server_url,omitempty"`
	// DefaultAgent is the agent type used when spawning without an explicit one.
	DefaultAgent string `yaml:"default_agent,omitempty"`
	// Schedules are cron expressions for recurring spawns, shown on the
	// dashboard calendar.
	Schedules []string `yaml:"schedules,omitempty"`
}

// Info holds minimal project metadata for listing.
type Info struct {
	Name string
	Dir  string
}

// Manager handles project CRUD against the projects base directory.
type Manager struct {
	base string
}

// NewManager creates a manager rooted at the given base directory.
func NewManager(base string) *Manager {
	return &Manager{base: base}
}

// Dir returns the directory for a project by name. The name is normalized:
// lowercase, spaces replaced with hyphens.
func (m *Manager) Dir(name string) string {
	return filepath.Join(m.base, Normalize(name))
}

// Normalize maps a display name to its directory name.
func Normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// List returns projects on disk in name order. A missing base directory is
// an empty list, not an error.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		out = append(out, Info{Name: e.Name(), Dir: filepath.Join(m.base, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Create makes the project directory and writes its config. Fails if the
// name is invalid or the project already exists.
func (m *Manager) Create(name string, cfg Config) (Info, error) {
	normalized := Normalize(name)
	if !validName.MatchString(normalized) {
		return Info{}, fmt.Errorf("invalid project name %q", name)
	}
	dir := filepath.Join(m.base, normalized)
	if _, err := os.Stat(dir); err == nil {
		return Info{}, fmt.Errorf("project %q already exists", normalized)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Info{}, fmt.Errorf("create project dir: %w", err)
	}
	if err := m.SaveConfig(normalized, cfg); err != nil {
		return Info{}, err
	}
	return Info{Name: normalized, Dir: dir}, nil
}

// Delete removes a project directory and everything in it.
func (m *Manager) Delete(name string) error {
	dir := m.Dir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("project %q not found", Normalize(name))
	}
	return os.RemoveAll(dir)
}

// LoadConfig reads a project's config.yaml. A missing file yields the zero
// Config; a malformed one is an error so the user sees their mistake.
func (m *Manager) LoadConfig(name string) (Config, error) {
	data, err := os.ReadFile(filepath.Join(m.Dir(name), ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// SaveConfig writes a project's config.yaml.
func (m *Manager) SaveConfig(name string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.Dir(name), ConfigFileName), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ConfigFileName, err)
	}
	return nil
}
