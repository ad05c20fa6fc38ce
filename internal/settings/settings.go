// Package settings loads and saves the app settings file:
// ~/.config/panedeck/settings.toml. A missing or unreadable file yields
// defaults; saving creates the directory as needed.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigDirEnv is the env var override for the config directory (for testing).
	ConfigDirEnv = "PANEDECK_CONFIG_DIR"
	// DefaultConfigBase is the directory under the user config dir.
	DefaultConfigBase = "panedeck"
	// FileName is the settings file name.
	FileName = "settings.toml"
)

// Appearance selects the color scheme.
type Appearance string

const (
	AppearanceSystem Appearance = "system"
	AppearanceDark   Appearance = "dark"
	AppearanceLight  Appearance = "light"
)

// Label returns the human-readable form for the settings form.
func (a Appearance) Label() string {
	switch a {
	case AppearanceDark:
		return "Dark"
	case AppearanceLight:
		return "Light"
	}
	return "System"
}

// Appearances lists the selectable values in form order.
func Appearances() []Appearance {
	return []Appearance{AppearanceSystem, AppearanceDark, AppearanceLight}
}

// Settings is the on-disk settings document.
type Settings struct {
	ServerURL     string     `toml:"server_url"`
	BearerToken   string     `toml:"bearer_token,omitempty"`
	Appearance    Appearance `toml:"appearance"`
	ShellCommand  string     `toml:"shell_command,omitempty"`
	TraceEndpoint string     `toml:"trace_endpoint,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		ServerURL:  "http://localhost:3000",
		Appearance: AppearanceSystem,
	}
}

// ResolveConfigDir returns the config directory, using PANEDECK_CONFIG_DIR if
// set, otherwise <user config dir>/panedeck.
func ResolveConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DefaultConfigBase), nil
}

// Path returns the full settings file path.
func Path() (string, error) {
	dir, err := ResolveConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads settings from disk. A missing file is not an error: defaults are
// returned. A malformed file also falls back to defaults so a bad edit never
// locks the user out of the app.
func Load() Settings {
	path, err := Path()
	if err != nil {
		return Default()
	}
	s := Default()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Default()
	}
	if s.ServerURL == "" {
		s.ServerURL = Default().ServerURL
	}
	if s.Appearance == "" {
		s.Appearance = AppearanceSystem
	}
	return s
}

// Save writes settings to disk, creating the config directory if needed.
func Save(s Settings) error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("resolve settings path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}
