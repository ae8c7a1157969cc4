// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/abplay/internal/abtest"
	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is checked when the default path does not exist.
	legacyConfigPath = "config.json"
	// DefaultAlpha is the significance level used when neither flags nor the
	// config file set one.
	DefaultAlpha = 0.05
	// defaultListenAddr is where `serve` binds when the config omits an address.
	defaultListenAddr = ":8080"
	// defaultReadTimeout bounds how long the HTTP server waits for a request.
	defaultReadTimeout = 10 * time.Second
)

// Output formats understood by the report renderers.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config represents the top-level application configuration.
type Config struct {
	Alpha              float64 `json:"alpha,omitempty" mapstructure:"alpha"`
	Alternative        string  `json:"alternative,omitempty" mapstructure:"alternative"`
	Format             string  `json:"format,omitempty" mapstructure:"format"`
	Debug              bool    `json:"debug" mapstructure:"debug"`
	JSONMode           bool    `json:"jsonMode" mapstructure:"jsonMode"`
	LogFile            string  `json:"logFile,omitempty" mapstructure:"logFile"`
	ExportPath         string  `json:"export,omitempty" mapstructure:"export"`
	ExportMarkdownPath string  `json:"exportMarkdown,omitempty" mapstructure:"exportMarkdown"`
	Listen             string  `json:"listen,omitempty" mapstructure:"listen"`
	ReadTimeoutSeconds int     `json:"readTimeout,omitempty" mapstructure:"readTimeout"`
	ConfigPath         string  `json:"-" mapstructure:"-"`
}

// SignificanceLevel returns the configured alpha, or a *abtest.ValidationError
// when it is outside (0, 1).
func (c Config) SignificanceLevel() (float64, error) {
	if err := abtest.ValidateAlpha(c.Alpha); err != nil {
		return 0, err
	}
	return c.Alpha, nil
}

// DefaultAlternative returns the configured alternative, falling back to two-sided.
// A non-empty value that is not recognized is an error.
func (c Config) DefaultAlternative() (abtest.Alternative, error) {
	if strings.TrimSpace(c.Alternative) == "" {
		return abtest.TwoSided, nil
	}
	return abtest.ParseAlternative(c.Alternative)
}

// OutputFormat returns the report format. JSON mode forces json.
func (c Config) OutputFormat() string {
	if c.JSONMode {
		return FormatJSON
	}
	switch f := strings.ToLower(strings.TrimSpace(c.Format)); f {
	case FormatJSON, FormatMarkdown:
		return f
	default:
		return FormatText
	}
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "abplay.log"
}

// ListenAddr returns the HTTP listen address.
func (c Config) ListenAddr() string {
	if addr := strings.TrimSpace(c.Listen); addr != "" {
		return addr
	}
	return defaultListenAddr
}

// ReadTimeoutDuration returns the HTTP read timeout.
func (c Config) ReadTimeoutDuration() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return defaultReadTimeout
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// ResolvePath returns the config file to read for path. An empty path means
// DefaultConfigPath, and a missing DefaultConfigPath falls back to the legacy
// config.json in the working directory. When nothing exists the error wraps
// os.ErrNotExist.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	candidates := []string{path}
	if path == DefaultConfigPath {
		candidates = append(candidates, legacyConfigPath)
	}
	for _, candidate := range candidates {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("could not read config file %q: %w", candidate, err)
		}
	}

	if len(candidates) > 1 {
		return "", fmt.Errorf("no configuration file found (searched %q and %q): %w", DefaultConfigPath, legacyConfigPath, os.ErrNotExist)
	}
	return "", fmt.Errorf("no configuration file found at %q: %w", path, os.ErrNotExist)
}

// Load resolves path with ResolvePath, validates the file against the schema
// and decodes it.
func Load(path string) (Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Config{}, err
	}

	config, err := loadFromPath(resolved)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %q: %w", resolved, err)
	}
	config.ConfigPath = resolved
	return config, nil
}

// loadFromPath validates the file against configSchema and decodes it.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := ValidateDocument(data); err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ValidateDocument checks raw config JSON against the configuration schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("config failed validation: %s", strings.Join(details, "; "))
}
