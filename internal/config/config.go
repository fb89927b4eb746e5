package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file inside a project directory.
const FileName = "roster.yaml"

// Config represents the top-level roster.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Database     DatabaseConfig     `yaml:"database"`
	Import       ImportConfig       `yaml:"import"`
	Export       ExportConfig       `yaml:"export"`
	Log          LogConfig          `yaml:"log"`
	Git          GitConfig          `yaml:"git"`
}

// OrganizationConfig identifies the club or business owning the data.
type OrganizationConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
}

// DatabaseConfig locates the SQLite database, relative to the project directory.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"ROSTER_DB_PATH" env-default:"roster.db"`
}

// ImportConfig controls batch imports.
type ImportConfig struct {
	Dir string `yaml:"dir" env:"ROSTER_IMPORT_DIR" env-default:"import"`
}

// ExportConfig controls exports.
type ExportConfig struct {
	Dir           string `yaml:"dir"            env:"ROSTER_EXPORT_DIR"    env-default:"exports"`
	DefaultFormat string `yaml:"default_format" env:"ROSTER_EXPORT_FORMAT" env-default:"csv"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"  env:"ROSTER_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"ROSTER_LOG_FORMAT" env-default:"text"`
}

// GitConfig controls versioning of the project directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"  env:"ROSTER_GIT_AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name"  env:"ROSTER_GIT_AUTHOR_NAME"  env-default:"Roster"`
	AuthorEmail string `yaml:"author_email" env:"ROSTER_GIT_AUTHOR_EMAIL" env-default:"roster@localhost"`
}

// Load reads a roster.yaml file from disk. Environment variables override
// values from the file; unset values fall back to defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(organization string) *Config {
	return &Config{
		Organization: OrganizationConfig{
			Name: organization,
		},
		Database: DatabaseConfig{
			Path: "roster.db",
		},
		Import: ImportConfig{
			Dir: "import",
		},
		Export: ExportConfig{
			Dir:           "exports",
			DefaultFormat: "csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Roster",
			AuthorEmail: "roster@localhost",
		},
	}
}

// Resolve returns p relative to the project directory unless it is absolute.
func Resolve(projectDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectDir, p)
}
