// Package config handles configuration loading for deskpilot.
// It supports XDG config paths, a project-level deskpilot.yaml, and
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for deskpilot. The core components consume
// this resolved object; they never read files or environment themselves.
type Config struct {
	Planner   PlannerConfig   `mapstructure:"planner"`
	Producers ProducersConfig `mapstructure:"producers"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Server    ServerConfig    `mapstructure:"server"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PlannerConfig holds LLM collaborator settings. The planner is optional;
// with no API key the producers use their deterministic plans.
type PlannerConfig struct {
	// APIKey is the Anthropic API key. Empty disables assisted planning.
	APIKey string `mapstructure:"api_key"`
	// Model is the model name to plan with.
	Model string `mapstructure:"model"`
	// MaxTokens bounds a single planning response.
	MaxTokens int `mapstructure:"max_tokens"`
	// UseBedrock routes planning through AWS Bedrock instead of the API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// ProducersConfig holds per-producer feature toggles.
type ProducersConfig struct {
	Document      bool `mapstructure:"document"`
	Presentation  bool `mapstructure:"presentation"`
	Spreadsheet   bool `mapstructure:"spreadsheet"`
	Communication bool `mapstructure:"communication"`
	Workflow      bool `mapstructure:"workflow"`
}

// Enabled returns the toggle for a producer name. Unknown names are disabled.
func (p ProducersConfig) Enabled(name string) bool {
	switch strings.ToLower(name) {
	case "document":
		return p.Document
	case "presentation":
		return p.Presentation
	case "spreadsheet":
		return p.Spreadsheet
	case "communication":
		return p.Communication
	case "workflow":
		return p.Workflow
	default:
		return false
	}
}

// AnyEnabled returns true if at least one producer is enabled.
func (p ProducersConfig) AnyEnabled() bool {
	return p.Document || p.Presentation || p.Spreadsheet || p.Communication || p.Workflow
}

// WorkspaceConfig holds artifact workspace settings.
type WorkspaceConfig struct {
	// Dir is the base directory artifacts are written under.
	Dir string `mapstructure:"dir"`
}

// TrackerConfig holds execution tracker settings.
type TrackerConfig struct {
	// RecentRingSize bounds the most-recent executions kept for metrics.
	RecentRingSize int `mapstructure:"recent_ring_size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address.
	Host string `mapstructure:"host"`
	// Port is the listen port.
	Port int `mapstructure:"port"`
}

// Addr returns the host:port bind address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultsConfig holds per-task defaults.
type DefaultsConfig struct {
	// TaskTimeout is the default per-task timeout. Zero means none.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// SlideCount is the slide count used when a task does not name one.
	SlideCount int `mapstructure:"slide_count"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration with the following precedence, highest first:
//  1. Environment variables (DESKPILOT_*, ANTHROPIC_API_KEY)
//  2. Project config (deskpilot.yaml in the current directory)
//  3. User config (~/.config/deskpilot/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if project := findProjectConfig(); project != "" {
		pv := viper.New()
		pv.SetConfigFile(project)
		if err := pv.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("DESKPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("planner.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Planner.APIKey = expandEnv(cfg.Planner.APIKey)
	return cfg, cfg.Validate()
}

// LoadFromPath loads configuration from a specific file. Used by tests and
// the --config flag.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Planner.APIKey = expandEnv(cfg.Planner.APIKey)
	return cfg, cfg.Validate()
}

// Validate checks invariants that would make the process unusable.
func (c *Config) Validate() error {
	if c.Tracker.RecentRingSize <= 0 {
		return fmt.Errorf("tracker.recent_ring_size must be positive, got %d", c.Tracker.RecentRingSize)
	}
	if c.Defaults.SlideCount <= 0 {
		return fmt.Errorf("defaults.slide_count must be positive, got %d", c.Defaults.SlideCount)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("planner.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("planner.max_tokens", 2048)
	v.SetDefault("producers.document", true)
	v.SetDefault("producers.presentation", true)
	v.SetDefault("producers.spreadsheet", true)
	v.SetDefault("producers.communication", true)
	v.SetDefault("producers.workflow", true)
	v.SetDefault("workspace.dir", defaultWorkspaceDir())
	v.SetDefault("tracker.recent_ring_size", 100)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8765)
	v.SetDefault("defaults.task_timeout", 2*time.Minute)
	v.SetDefault("defaults.slide_count", 3)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func defaultWorkspaceDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "deskpilot_files"
	}
	return filepath.Join(home, "deskpilot_files")
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "deskpilot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "deskpilot")
}

func findProjectConfig() string {
	for _, name := range []string{"deskpilot.yaml", "deskpilot.yml"} {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// expandEnv expands ${VAR} references in a config value.
func expandEnv(s string) string {
	if strings.Contains(s, "${") {
		return os.ExpandEnv(s)
	}
	return s
}
