// internal/config/config.go
//
// This package handles configuration and the .guidelens directory
// structure. Every project that uses guidelens gets a .guidelens/
// folder created in its root: config.yaml for settings, logs/ for the
// session journal and reports/ for exported review reports.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// GuidelensDir is the name of the directory we create in each project.
	GuidelensDir = ".guidelens"

	defaultServerURL  = "http://localhost:8000"
	defaultDebounceMS = 1000
)

const defaultProjectConfigYAML = `# guidelens project configuration
version: 1

server:
  # Base URL of the guideline document store.
  url: http://localhost:8000

reviewer:
  # Email attached to your comments and to every save you make.
  # Leave empty to fall back to the GUIDELENS_REVIEWER environment
  # variable; without either, writes are attributed to "unknown".
  email: ""

# Guidelines offered in the roster. Names are optional display labels;
# the id is what the backend knows.
guidelines:
  # - id: guideline-001
  #   name: Asthma management (adult)

review:
  # Idle milliseconds before a burst of status updates is persisted.
  debounce_ms: 1000
`

// GuidelineRef declares one roster entry inside .guidelens/config.yaml.
type GuidelineRef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// ServerConfig points at the document store.
type ServerConfig struct {
	URL string `yaml:"url"`
}

// ReviewerConfig carries the reviewer identity settings.
type ReviewerConfig struct {
	Email string `yaml:"email,omitempty"`
}

// ReviewConfig captures review-behavior tuning.
type ReviewConfig struct {
	DebounceMS int `yaml:"debounce_ms,omitempty"`
}

// ProjectConfig models .guidelens/config.yaml.
type ProjectConfig struct {
	Version    int            `yaml:"version"`
	Server     ServerConfig   `yaml:"server"`
	Reviewer   ReviewerConfig `yaml:"reviewer"`
	Guidelines []GuidelineRef `yaml:"guidelines"`
	Review     ReviewConfig   `yaml:"review"`
}

// Config holds the runtime configuration for guidelens.
type Config struct {
	// ProjectDir is the directory where the user ran `guidelens` from.
	ProjectDir string

	// GuidelensProjectDir is ProjectDir/.guidelens
	GuidelensProjectDir string

	Project ProjectConfig
}

// InitGuidelensDir creates the .guidelens directory structure in the
// given project directory. Called on startup before the TUI launches.
func InitGuidelensDir(projectDir string) error {
	guidelensDir := filepath.Join(projectDir, GuidelensDir)

	dirs := []string{
		filepath.Join(guidelensDir, "logs"),
		filepath.Join(guidelensDir, "reports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(guidelensDir, "config.yaml"))
}

// NewConfig creates a Config populated from .guidelens/config.yaml,
// falling back to defaults for anything missing.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		GuidelensProjectDir: filepath.Join(projectDir, GuidelensDir),
		Project:             defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.GuidelensProjectDir, "logs")
}

// ReportsDir returns the directory exported review reports land in.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.GuidelensProjectDir, "reports")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.GuidelensProjectDir, "config.yaml")
}

// ServerURL returns the configured document-store base URL.
func (c *Config) ServerURL() string {
	return c.Project.Server.URL
}

// ReviewerEmail returns the configured reviewer email, possibly empty.
func (c *Config) ReviewerEmail() string {
	return c.Project.Reviewer.Email
}

// Guidelines returns the configured roster.
func (c *Config) Guidelines() []GuidelineRef {
	return c.Project.Guidelines
}

// DebounceWindow returns the status-update coalescing window.
func (c *Config) DebounceWindow() time.Duration {
	ms := c.Project.Review.DebounceMS
	if ms <= 0 {
		ms = defaultDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}

// SetServerURL overrides the document-store URL and persists it back to
// .guidelens/config.yaml.
func (c *Config) SetServerURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("config: server url is required")
	}
	c.Project.Server.URL = raw
	return c.saveProjectConfig()
}

// SetReviewerEmail overrides the reviewer email and persists it back to
// .guidelens/config.yaml.
func (c *Config) SetReviewerEmail(email string) error {
	c.Project.Reviewer.Email = strings.TrimSpace(email)
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Server:  ServerConfig{URL: defaultServerURL},
		Review:  ReviewConfig{DebounceMS: defaultDebounceMS},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Server.URL) == "" {
		pc.Server.URL = defaultServerURL
	}
	if pc.Review.DebounceMS <= 0 {
		pc.Review.DebounceMS = defaultDebounceMS
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Server.URL = strings.TrimRight(strings.TrimSpace(pc.Server.URL), "/")
	pc.Reviewer.Email = strings.TrimSpace(pc.Reviewer.Email)
	cleaned := pc.Guidelines[:0]
	for _, ref := range pc.Guidelines {
		ref.ID = strings.TrimSpace(ref.ID)
		ref.Name = strings.TrimSpace(ref.Name)
		if ref.ID == "" {
			continue
		}
		cleaned = append(cleaned, ref)
	}
	pc.Guidelines = cleaned
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, err := url.Parse(pc.Server.URL); err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	seen := map[string]struct{}{}
	for i, ref := range pc.Guidelines {
		if _, dup := seen[ref.ID]; dup {
			return fmt.Errorf("guidelines[%d]: duplicate id %q", i, ref.ID)
		}
		seen[ref.ID] = struct{}{}
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.GuidelensProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure guidelens dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
