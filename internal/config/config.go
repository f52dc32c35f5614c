// Package config loads server configuration from defaults, environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultRenderScale = 1.5
	DefaultStampFont   = "Helvetica"
	DefaultStampSize   = 10

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the FormFiller server.
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Storage configuration
	DocumentsDir string // source PDF documents
	StoreDir     string // form/template/submission records

	// Rendering and fill configuration
	RenderScale float64
	StampFont   string
	StampSize   int
	MaxFileSize int64 // maximum source document size in bytes

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeStdio,
		Host:         DefaultHost,
		Port:         DefaultPort,
		DocumentsDir: filepath.Join(currentDir, "documents"),
		StoreDir:     filepath.Join(currentDir, "store"),
		RenderScale:  DefaultRenderScale,
		StampFont:    DefaultStampFont,
		StampSize:    DefaultStampSize,
		MaxFileSize:  DefaultMaxFileSize,
		Version:      "1.0.0",
		ServerName:   "formfiller",
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, dir := range []*string{&cfg.DocumentsDir, &cfg.StoreDir} {
		if *dir != "" {
			if expandedPath, err := filepath.Abs(*dir); err == nil {
				*dir = expandedPath
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FORMFILLER")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("documents", cfg.DocumentsDir)
	viper.SetDefault("store", cfg.StoreDir)
	viper.SetDefault("scale", cfg.RenderScale)
	viper.SetDefault("stampfont", cfg.StampFont)
	viper.SetDefault("stampsize", cfg.StampSize)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("documents", cfg.DocumentsDir, "Directory containing source PDF documents")
	pflag.String("store", cfg.StoreDir, "Directory for form, template and submission records")
	pflag.Float64("scale", cfg.RenderScale, "Render scale multiplier applied to native page size")
	pflag.String("stampfont", cfg.StampFont, "Font used when stamping values into PDFs")
	pflag.Int("stampsize", cfg.StampSize, "Font size in points used when stamping values")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum source document size in bytes")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("documents", pflag.Lookup("documents"))
	_ = viper.BindPFlag("store", pflag.Lookup("store"))
	_ = viper.BindPFlag("scale", pflag.Lookup("scale"))
	_ = viper.BindPFlag("stampfont", pflag.Lookup("stampfont"))
	_ = viper.BindPFlag("stampsize", pflag.Lookup("stampsize"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFormFiller - map form fields onto PDF templates and fill them with submissions\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                      # stdio mode, ./documents and ./store\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --documents=/srv/pdfs --store=/srv/records\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_DOCUMENTS    Documents directory\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_STORE        Records directory\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_SCALE        Render scale\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_STAMPFONT    Stamp font name\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_STAMPSIZE    Stamp font size\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_MAXFILESIZE  Maximum document size\n")
		fmt.Fprintf(os.Stderr, "  FORMFILLER_LOGLEVEL     Log level\n")
	}
}

func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentsDir = viper.GetString("documents")
	cfg.StoreDir = viper.GetString("store")
	cfg.RenderScale = viper.GetFloat64("scale")
	cfg.StampFont = viper.GetString("stampfont")
	cfg.StampSize = viper.GetInt("stampsize")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	for name, dir := range map[string]string{
		"documents": c.DocumentsDir,
		"store":     c.StoreDir,
	} {
		if dir == "" {
			return fmt.Errorf("%s directory cannot be empty", name)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create %s directory %s: %w", name, dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access %s directory %s: %w", name, dir, err)
		}
	}

	if c.RenderScale <= 0 {
		return errors.New("render scale must be positive")
	}

	if c.StampFont == "" {
		return errors.New("stamp font cannot be empty")
	}

	if c.StampSize <= 0 {
		return errors.New("stamp font size must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentsDir: %s, StoreDir: %s, RenderScale: %g, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentsDir, c.StoreDir, c.RenderScale, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode.
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
