package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.ServerName != "formfiller" {
		t.Errorf("Expected default server name to be 'formfiller', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.RenderScale != 1.5 {
		t.Errorf("Expected default render scale to be 1.5, got %g", cfg.RenderScale)
	}

	if cfg.StampFont != "Helvetica" {
		t.Errorf("Expected default stamp font to be 'Helvetica', got '%s'", cfg.StampFont)
	}

	if cfg.StampSize != 10 {
		t.Errorf("Expected default stamp size to be 10, got %d", cfg.StampSize)
	}

	if !strings.HasSuffix(cfg.DocumentsDir, "documents") {
		t.Errorf("Expected default documents dir to end in 'documents', got '%s'", cfg.DocumentsDir)
	}
}

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DocumentsDir = filepath.Join(dir, "documents")
	cfg.StoreDir = filepath.Join(dir, "store")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid config - server mode",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 8080
			},
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "invalid" },
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "port ignored in stdio mode",
			mutate: func(c *Config) {
				c.Mode = "stdio"
				c.Port = 0
			},
			wantErr: false,
		},
		{
			name:    "empty documents directory",
			mutate:  func(c *Config) { c.DocumentsDir = "" },
			wantErr: true,
		},
		{
			name:    "empty store directory",
			mutate:  func(c *Config) { c.StoreDir = "" },
			wantErr: true,
		},
		{
			name:    "zero render scale",
			mutate:  func(c *Config) { c.RenderScale = 0 },
			wantErr: true,
		},
		{
			name:    "negative render scale",
			mutate:  func(c *Config) { c.RenderScale = -1.5 },
			wantErr: true,
		},
		{
			name:    "empty stamp font",
			mutate:  func(c *Config) { c.StampFont = "" },
			wantErr: true,
		},
		{
			name:    "zero stamp size",
			mutate:  func(c *Config) { c.StampSize = 0 },
			wantErr: true,
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_CreatesMissingDirectories(t *testing.T) {
	cfg := validTestConfig(t)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	for _, dir := range []string{cfg.DocumentsDir, cfg.StoreDir} {
		if !dirExists(dir) {
			t.Errorf("Expected Validate() to create directory %s", dir)
		}
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func TestConfigAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 9090

	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", got)
	}
}

func TestConfigModeHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("Expected default config to report stdio mode")
	}

	cfg.Mode = ModeServer
	if cfg.IsStdioMode() || !cfg.IsServerMode() {
		t.Error("Expected server mode after switching")
	}
}

func TestConfigIsDebug(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IsDebug() {
		t.Error("Expected info level not to report debug")
	}

	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("Expected debug level to report debug")
	}
}
