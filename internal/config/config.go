// Package config provides configuration management for latex-insight.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"latex-insight/internal/compiler"
	"latex-insight/internal/environment"
	"latex-insight/internal/logger"
	"latex-insight/internal/logtab"
	"latex-insight/internal/syntax"
	"latex-insight/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "config.toml"
	// EnvCompiler overrides the configured compiler
	EnvCompiler = "LATEXINSIGHT_COMPILER"
	// DefaultCompiler is the default LaTeX compiler
	DefaultCompiler = string(compiler.DefaultMode)
	// DefaultConcurrency is the number of files analysed at once
	DefaultConcurrency = 4
	// DefaultLogLevel is used when log_level is empty
	DefaultLogLevel = "warn"
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in the user's config directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			logger.Error("failed to get user config directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user config directory", err)
		}
		configPath = filepath.Join(dir, "latex-insight", DefaultConfigFileName)
	}

	logger.Debug("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		Compiler:    DefaultCompiler,
		Concurrency: DefaultConcurrency,
		LogLevel:    DefaultLogLevel,
	}
}

func (m *ConfigManager) isTOML() bool {
	return strings.EqualFold(filepath.Ext(m.configPath), ".toml")
}

// Load loads configuration from the config file.
// A missing file yields the defaults; a malformed one is an error.
// LATEXINSIGHT_COMPILER takes precedence over the file.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	switch {
	case os.IsNotExist(err):
		logger.Debug("config file not found, using defaults", logger.String("path", m.configPath))
		m.config = defaultConfig()
	case err != nil:
		logger.Error("failed to read config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to read config file", err)
	default:
		config := &types.Config{}
		if m.isTOML() {
			_, err = toml.Decode(string(data), config)
		} else {
			err = json.Unmarshal(data, config)
		}
		if err != nil {
			logger.Error("invalid config file format", err, logger.String("path", m.configPath))
			return types.NewAppErrorWithDetails(types.ErrConfig, "invalid config file format", m.configPath, err)
		}
		m.config = config
	}

	if env := os.Getenv(EnvCompiler); env != "" {
		m.config.Compiler = env
	}

	// Apply defaults for empty fields
	if m.config.Compiler == "" {
		m.config.Compiler = DefaultCompiler
	}
	if m.config.Concurrency <= 0 {
		m.config.Concurrency = DefaultConcurrency
	}
	if m.config.LogLevel == "" {
		m.config.LogLevel = DefaultLogLevel
	}

	if _, err := compiler.ParseMode(m.config.Compiler); err != nil {
		return err
	}

	logger.Info("configuration loaded",
		logger.String("path", m.configPath),
		logger.String("compiler", m.config.Compiler))
	return nil
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	// Ensure the directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	var (
		data []byte
		err  error
	)
	if m.isTOML() {
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(m.GetConfig())
		data = buf.Bytes()
	} else {
		data, err = json.MarshalIndent(m.GetConfig(), "", "  ")
	}
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetCompiler returns the configured compiler mode.
func (m *ConfigManager) GetCompiler() compiler.Mode {
	mode, err := compiler.ParseMode(m.GetConfig().Compiler)
	if err != nil {
		return compiler.DefaultMode
	}
	return mode
}

// GetConcurrency returns how many files are analysed at once.
func (m *ConfigManager) GetConcurrency() int {
	if c := m.GetConfig().Concurrency; c > 0 {
		return c
	}
	return DefaultConcurrency
}

// ResolverOptions returns the environment resolver settings.
func (m *ConfigManager) ResolverOptions() environment.Options {
	c := m.GetConfig()
	return environment.Options{
		LabelCommands:       c.LabelCommands,
		LabelAsParameter:    c.LabelAsParameterEnvironments,
		LabeledEnvironments: c.LabeledEnvironments,
	}
}

// MathContext returns the math-mode settings. Each empty list falls back to
// its default.
func (m *ConfigManager) MathContext() *syntax.MathContext {
	c := m.GetConfig()
	envs, cmds := c.MathEnvironments, c.TextInMathCommands
	if len(envs) == 0 {
		envs = syntax.DefaultMathEnvironments
	}
	if len(cmds) == 0 {
		cmds = syntax.DefaultTextInMathCommands
	}
	return syntax.NewMathContext(envs, cmds)
}

// LogOptions returns the compiler log classifier settings.
func (m *ConfigManager) LogOptions() logtab.Options {
	c := m.GetConfig()
	return logtab.Options{
		MultilineWarnings: c.MultilineWarnings,
		LineWidth:         c.LogLineWidth,
	}
}

// LoggerConfig returns the file logger settings, or nil when no log file is
// configured.
func (m *ConfigManager) LoggerConfig() *logger.Config {
	c := m.GetConfig()
	if c.LogFile == "" {
		return nil
	}
	lc := logger.DefaultConfig()
	lc.LogFilePath = c.LogFile
	if level, ok := logger.ParseLevel(c.LogLevel); ok {
		lc.Level = level
	}
	return lc
}
