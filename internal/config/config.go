package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// APIKeyVariable is the key looked up in the secrets file
const APIKeyVariable = "CHECKWX_API_KEY"

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	API     APIConfig     `toml:"api"`     // Weather provider settings
	Export  ExportConfig  `toml:"export"`  // File export settings
	UI      UIConfig      `toml:"ui"`      // Interactive menu behaviour
	Logging LoggingConfig `toml:"logging"` // Application logging settings
}

// APIConfig contains weather provider connection settings
type APIConfig struct {
	BaseURL               string `toml:"base_url" validate:"required,url"`                 // Base URL of the CheckWX API
	APIKey                string `toml:"api_key"`                                          // API key sent with every request
	APIKeyHeader          string `toml:"api_key_header" validate:"required"`               // Header carrying the API key
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" validate:"gte=1,lte=300"` // HTTP timeout per request
	SecretsFile           string `toml:"secrets_file"`                                     // Optional dotenv-format file holding CHECKWX_API_KEY
}

// ExportConfig contains file export settings
type ExportConfig struct {
	JSONDir         string `toml:"json_dir"`                              // Directory for JSON exports
	JSONFileName    string `toml:"json_file_name" validate:"required"`    // Default JSON export file name
	PrettyJSON      bool   `toml:"pretty_json"`                           // Indent exported JSON
	OutputDir       string `toml:"output_dir"`                            // Directory for decoded text exports (default ~/Desktop)
	DefaultTextName string `toml:"default_text_name" validate:"required"` // Fallback name for decoded text exports
	OpenViewer      bool   `toml:"open_viewer"`                           // Launch a viewer after JSON export
	ViewerPath      string `toml:"viewer_path"`                           // Viewer executable (empty = platform opener)
}

// UIConfig contains interactive menu settings
type UIConfig struct {
	ClearScreen      bool `toml:"clear_screen"`       // Clear the terminal before showing the menu
	PauseAfterAction bool `toml:"pause_after_action"` // Wait for Enter before returning to the menu
	ShowJSON         bool `toml:"show_json"`          // Print the formatted JSON response before the decoded report
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level       string   `toml:"level" validate:"oneof=debug info warn error"` // Log level
	Format      string   `toml:"format" validate:"oneof=json console"`         // Log format
	OutputPaths []string `toml:"output_paths"`                                 // Log sinks (default: stderr)
}

// Default returns the configuration used when no file overrides a value
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:               "https://api.checkwx.com",
			APIKeyHeader:          "X-API-Key",
			RequestTimeoutSeconds: 10,
			SecretsFile:           ".env",
		},
		Export: ExportConfig{
			JSONDir:         ".",
			JSONFileName:    "WeatherData.json",
			PrettyJSON:      true,
			DefaultTextName: "WeatherReport",
			OpenViewer:      true,
		},
		UI: UIConfig{
			ClearScreen:      true,
			PauseAfterAction: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads the configuration from the specified file path on top of the defaults
func Load(path string) (*Config, error) {
	config := Default()

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := config.loadSecrets(); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	return config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference.
// An explicitly requested path must exist; otherwise the defaults are used when no file is found.
func LoadWithFallback(preferredPath string) (*Config, error) {
	if preferredPath != "" {
		return Load(preferredPath)
	}

	// List of paths to check in order of preference
	searchPaths := []string{
		"configs/config.toml",
		"config.toml",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	config := Default()
	if err := config.loadSecrets(); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return config, nil
}

// loadSecrets reads the API key from the secrets file when the config does not carry one
func (c *Config) loadSecrets() error {
	if c.API.APIKey != "" || c.API.SecretsFile == "" {
		return nil
	}

	values, err := godotenv.Read(c.API.SecretsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", c.API.SecretsFile, err)
	}

	c.API.APIKey = strings.TrimSpace(values[APIKeyVariable])
	return nil
}

// Validate validates the configuration and fills derived defaults
func (c *Config) Validate() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %v (rule %s)", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.API.APIKey == "" {
		return fmt.Errorf("api_key is required (set it in the config file or %s in %s)", APIKeyVariable, c.API.SecretsFile)
	}

	// Set default JSON export directory if not specified
	if c.Export.JSONDir == "" {
		c.Export.JSONDir = "."
	}

	// Set default text export directory if not specified
	if c.Export.OutputDir == "" {
		dir, err := DefaultOutputDir()
		if err != nil {
			return fmt.Errorf("failed to resolve output_dir: %w", err)
		}
		c.Export.OutputDir = dir
	} else {
		dir, err := expandHome(c.Export.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to resolve output_dir: %w", err)
		}
		c.Export.OutputDir = dir
	}

	return nil
}

// DefaultOutputDir returns the user's Desktop folder
func DefaultOutputDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Desktop"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
