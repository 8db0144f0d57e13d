package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gosolc/internal/catalog"
	"gosolc/internal/install"
	"gosolc/internal/logging"
	"gosolc/internal/paths"
	"gosolc/internal/solc"
)

// Config represents the complete gosolc configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Compilers CompilersConfig `json:"compilers" mapstructure:"compilers"`
	Catalog   CatalogConfig   `json:"catalog" mapstructure:"catalog"`
	Compile   CompileConfig   `json:"compile" mapstructure:"compile"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// CompilersConfig controls where compiler binaries come from and live.
type CompilersConfig struct {
	InstallDir        string `json:"installDir" mapstructure:"installDir"`
	DownloadURL       string `json:"downloadUrl" mapstructure:"downloadUrl"`
	DownloadTimeoutMs int    `json:"downloadTimeoutMs" mapstructure:"downloadTimeoutMs"`
}

// CatalogConfig controls the release listing fetch and its cache.
type CatalogConfig struct {
	ReleasesURL     string `json:"releasesUrl" mapstructure:"releasesUrl"`
	CacheTtlSeconds int    `json:"cacheTtlSeconds" mapstructure:"cacheTtlSeconds"`
}

// CompileConfig contains compiler invocation settings.
type CompileConfig struct {
	Outputs   []string `json:"outputs" mapstructure:"outputs"`
	TimeoutMs int      `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Compilers: CompilersConfig{
			InstallDir:        "~/.gosolc/compilers",
			DownloadURL:       install.DefaultDownloadURLTemplate,
			DownloadTimeoutMs: 600000,
		},
		Catalog: CatalogConfig{
			ReleasesURL:     catalog.DefaultReleasesURL,
			CacheTtlSeconds: 3600,
		},
		Compile: CompileConfig{
			Outputs:   []string{"abi", "ast", "bin-runtime", "srcmap-runtime"},
			TimeoutMs: 300000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads the tool configuration. An explicit path wins; otherwise
// ~/.gosolc/config.json is consulted, and a missing file yields defaults.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		home, err := paths.Home()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit path a missing config file just means
		// defaults; an explicitly named file must exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && explicitPath == "" {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so partial config files inherit the rest.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("compilers.installDir", def.Compilers.InstallDir)
	v.SetDefault("compilers.downloadUrl", def.Compilers.DownloadURL)
	v.SetDefault("compilers.downloadTimeoutMs", def.Compilers.DownloadTimeoutMs)
	v.SetDefault("catalog.releasesUrl", def.Catalog.ReleasesURL)
	v.SetDefault("catalog.cacheTtlSeconds", def.Catalog.CacheTtlSeconds)
	v.SetDefault("compile.outputs", def.Compile.Outputs)
	v.SetDefault("compile.timeoutMs", def.Compile.TimeoutMs)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)
}

// Save writes the configuration to ~/.gosolc/config.json
func (c *Config) Save() error {
	home, err := paths.Home()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return err
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(home, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Compilers.InstallDir == "" {
		return &ConfigError{Field: "compilers.installDir", Message: "must not be empty"}
	}
	if !strings.Contains(c.Compilers.DownloadURL, "%s") {
		return &ConfigError{Field: "compilers.downloadUrl", Message: "must contain a %s version placeholder"}
	}
	if c.Compilers.DownloadTimeoutMs <= 0 {
		return &ConfigError{Field: "compilers.downloadTimeoutMs", Message: "must be positive"}
	}
	if c.Catalog.ReleasesURL == "" {
		return &ConfigError{Field: "catalog.releasesUrl", Message: "must not be empty"}
	}
	if c.Catalog.CacheTtlSeconds < 0 {
		return &ConfigError{Field: "catalog.cacheTtlSeconds", Message: "must not be negative"}
	}
	if _, err := solc.ParseOutputs(c.Compile.Outputs); err != nil {
		return &ConfigError{Field: "compile.outputs", Message: err.Error()}
	}
	if c.Compile.TimeoutMs <= 0 {
		return &ConfigError{Field: "compile.timeoutMs", Message: "must be positive"}
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return &ConfigError{Field: "logging.format", Message: err.Error()}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	return nil
}

// InstallDir returns the install directory with any leading ~ expanded.
func (c *Config) InstallDir() (string, error) {
	return paths.Expand(c.Compilers.InstallDir)
}

// Outputs returns the configured output kinds, parsed.
func (c *Config) Outputs() ([]solc.Output, error) {
	return solc.ParseOutputs(c.Compile.Outputs)
}

// DownloadTimeout returns the binary download budget.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Compilers.DownloadTimeoutMs) * time.Millisecond
}

// CompileTimeout returns the per-invocation compiler budget.
func (c *Config) CompileTimeout() time.Duration {
	return time.Duration(c.Compile.TimeoutMs) * time.Millisecond
}

// CacheTTL returns how long the catalog cache stays fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Catalog.CacheTtlSeconds) * time.Second
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
