/*
Package config manages the TOML config for FuzzWord services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/fuzzword/internal/utils"
	"github.com/bastiangx/fuzzword/pkg/complete"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Match  MatchConfig  `toml:"match"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
	MinQuery int `toml:"min_query"`
	MaxQuery int `toml:"max_query"`
}

// MatchConfig controls how queries are extracted and results ordered.
type MatchConfig struct {
	SortResults    bool   `toml:"sort_results"`
	WordBoundaries string `toml:"word_boundaries"`
}

// DictConfig holds word list options.
type DictConfig struct {
	Path         string `toml:"path"`
	Alphabetical bool   `toml:"alphabetical"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	NoColor      bool `toml:"no_color"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "fuzzword")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "fuzzword")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/fuzzword/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit: 64,
			MinQuery: 0,
			MaxQuery: 60,
		},
		Match: MatchConfig{
			SortResults:    true,
			WordBoundaries: complete.BoundaryNarrow.String(),
		},
		Dict: DictConfig{
			Path:         "",
			Alphabetical: false,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
			NoColor:      false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// default values; a file that fails to decode is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key of a file whose typed decode failed.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	sections, err := utils.DecodeTOMLSections(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}
	log.Warnf("Config file %s has invalid values, keeping the valid ones", configPath)

	if section, ok := sections["server"]; ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := sections["match"]; ok {
		extractMatchConfig(section, &config.Match)
	}
	if section, ok := sections["dict"]; ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := sections["cli"]; ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(section utils.Section, server *ServerConfig) {
	if val, ok := section.Int("max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := section.Int("min_query"); ok {
		server.MinQuery = val
	}
	if val, ok := section.Int("max_query"); ok {
		server.MaxQuery = val
	}
}

func extractMatchConfig(section utils.Section, match *MatchConfig) {
	if val, ok := section.Bool("sort_results"); ok {
		match.SortResults = val
	}
	if val, ok := section.Text("word_boundaries"); ok {
		match.WordBoundaries = val
	}
}

func extractDictConfig(section utils.Section, dict *DictConfig) {
	if val, ok := section.Text("path"); ok {
		dict.Path = val
	}
	if val, ok := section.Bool("alphabetical"); ok {
		dict.Alphabetical = val
	}
}

func extractCliConfig(section utils.Section, cli *CliConfig) {
	if val, ok := section.Int("default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := section.Bool("no_color"); ok {
		cli.NoColor = val
	}
}

// Validate checks values that would make the server misbehave.
func (c *Config) Validate() error {
	if c.Server.MaxLimit < 1 {
		return fmt.Errorf("server.max_limit must be at least 1, got %d", c.Server.MaxLimit)
	}
	if c.Server.MinQuery < 0 {
		return fmt.Errorf("server.min_query must not be negative, got %d", c.Server.MinQuery)
	}
	if c.Server.MaxQuery < c.Server.MinQuery {
		return fmt.Errorf("server.max_query (%d) is below server.min_query (%d)", c.Server.MaxQuery, c.Server.MinQuery)
	}
	if _, err := complete.ParseBoundary(c.Match.WordBoundaries); err != nil {
		return fmt.Errorf("match.word_boundaries: %w", err)
	}
	return nil
}

// CompleterOptions converts the [match] section into completer options.
func (c *Config) CompleterOptions() (complete.Options, error) {
	boundary, err := complete.ParseBoundary(c.Match.WordBoundaries)
	if err != nil {
		return complete.Options{}, err
	}
	return complete.Options{
		SortResults: c.Match.SortResults,
		Boundary:    boundary,
	}, nil
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.WriteTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOMLFile(config, configPath)
}

// Update saves the given changes to configPath. c only takes the new values
// once the file is written.
func (c *Config) Update(configPath string, maxLimit, minQuery, maxQuery *int, sortResults *bool) error {
	next := *c
	if maxLimit != nil {
		next.Server.MaxLimit = *maxLimit
	}
	if minQuery != nil {
		next.Server.MinQuery = *minQuery
	}
	if maxQuery != nil {
		next.Server.MaxQuery = *maxQuery
	}
	if sortResults != nil {
		next.Match.SortResults = *sortResults
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := SaveConfig(&next, configPath); err != nil {
		return err
	}
	*c = next
	return nil
}

// Overrides hold values set on the command line. Unset fields leave the config
// file in charge. They are applied again every time the file is reloaded.
type Overrides struct {
	SortResults    *bool
	WordBoundaries *string
	Alphabetical   *bool
	DictPath       *string
	DefaultLimit   *int
	NoColor        *bool
}

// Apply writes every set override into c.
func (o Overrides) Apply(c *Config) {
	if o.SortResults != nil {
		c.Match.SortResults = *o.SortResults
	}
	if o.WordBoundaries != nil {
		c.Match.WordBoundaries = *o.WordBoundaries
	}
	if o.Alphabetical != nil {
		c.Dict.Alphabetical = *o.Alphabetical
	}
	if o.DictPath != nil {
		c.Dict.Path = *o.DictPath
	}
	if o.DefaultLimit != nil {
		c.CLI.DefaultLimit = *o.DefaultLimit
	}
	if o.NoColor != nil {
		c.CLI.NoColor = *o.NoColor
	}
}
