package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-coursemark/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidSchema   = errors.New("invalid table schema")
	ErrInvalidMode     = errors.New("invalid output mode")
)

// MaxInputSize limits config files to prevent memory exhaustion.
const MaxInputSize = 1 << 20

// Field length limits.
const (
	MaxMarkerLength  = 50   // "טבלה", "Table"
	MaxHeaderLength  = 500  // undelimited header line
	MaxColumnLength  = 100  // column title
	MaxKeyLength     = 200  // row label
	MaxContextLength = 500  // context marker text
	MaxPathLength    = 4096 // filesystem path
	MaxStyleLength   = 100  // style name
)

// Output modes accepted in config. They mirror the converter modes.
var validModes = []string{"article", "course", "preparse", "postserialize", "editor"}

// Config holds all configuration for content conversion.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Assets AssetsConfig `yaml:"assets"`
	Tables TablesConfig `yaml:"tables"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Mode       string `yaml:"mode"`       // Default conversion mode (empty = article)
	Style      string `yaml:"style"`      // Style name for standalone documents
	Standalone bool   `yaml:"standalone"` // Wrap HTML output in a full document
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// TablesConfig defines table recognition. Empty lists mean library defaults.
type TablesConfig struct {
	Markers []string            `yaml:"markers"`
	Schemas []TableSchemaConfig `yaml:"schemas"`
}

// TableSchemaConfig declares one known table layout.
type TableSchemaConfig struct {
	Name      string   `yaml:"name"`
	Header    string   `yaml:"header"`
	Columns   []string `yaml:"columns"`
	Keys      []string `yaml:"keys"`
	SplitKeys []string `yaml:"splitKeys"`
	Context   string   `yaml:"context"`
}

// Validate checks field lengths, modes, and table schemas.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.style", c.Output.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if c.Output.Mode != "" && !isValidMode(c.Output.Mode) {
		return fmt.Errorf("%w: output.mode %q (must be one of %s)", ErrInvalidMode, c.Output.Mode, strings.Join(validModes, ", "))
	}

	for i, m := range c.Tables.Markers {
		field := fmt.Sprintf("tables.markers[%d]", i)
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%s: marker cannot be empty", field)
		}
		if err := validateFieldLength(field, m, MaxMarkerLength); err != nil {
			return err
		}
	}

	for i, s := range c.Tables.Schemas {
		if err := s.validate(fmt.Sprintf("tables.schemas[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *TableSchemaConfig) validate(field string) error {
	if strings.TrimSpace(s.Header) == "" {
		return fmt.Errorf("%w: %s.header is required", ErrInvalidSchema, field)
	}
	if err := validateFieldLength(field+".header", s.Header, MaxHeaderLength); err != nil {
		return err
	}
	if len(s.Columns) < 2 || len(s.Columns) > 3 {
		return fmt.Errorf("%w: %s.columns must have 2 or 3 entries, got %d", ErrInvalidSchema, field, len(s.Columns))
	}
	for j, col := range s.Columns {
		if err := validateFieldLength(fmt.Sprintf("%s.columns[%d]", field, j), col, MaxColumnLength); err != nil {
			return err
		}
	}
	if len(s.Keys) == 0 {
		return fmt.Errorf("%w: %s.keys cannot be empty", ErrInvalidSchema, field)
	}
	for j, k := range s.Keys {
		if err := validateFieldLength(fmt.Sprintf("%s.keys[%d]", field, j), k, MaxKeyLength); err != nil {
			return err
		}
	}
	if len(s.SplitKeys) > 0 && len(s.Columns) != 3 {
		return fmt.Errorf("%w: %s.splitKeys requires 3 columns", ErrInvalidSchema, field)
	}
	for j, k := range s.SplitKeys {
		if !contains(s.Keys, k) {
			return fmt.Errorf("%w: %s.splitKeys[%d] %q is not a key", ErrInvalidSchema, field, j, k)
		}
	}
	return validateFieldLength(field+".context", s.Context, MaxContextLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func isValidMode(mode string) bool {
	return contains(validModes, strings.ToLower(mode))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultConfig returns a configuration that uses library defaults everywhere.
func DefaultConfig() *Config {
	return &Config{}
}

// Parse decodes and validates YAML config data. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty config", ErrConfigParse)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxInputSize)
	}

	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-coursemark/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-coursemark", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
