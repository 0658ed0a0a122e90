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
	ModeGUI   = "gui"
	ModeStdio = "stdio"

	// Default values
	DefaultRenderDPI   = 144.0
	DefaultFontSize    = 12.0
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the PlexiPDF editor
type Config struct {
	// Mode is "gui" for the desktop editor or "stdio" for the MCP automation server
	Mode string

	// PDFDirectory is the default directory for open/save dialogs and automation
	PDFDirectory string

	// Rendering and editing defaults
	RenderDPI float64 // resolution used when rasterizing pages for display
	FontSize  float64 // point size for inserted free-form text

	// Application configuration
	Version     string
	AppName     string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeGUI,
		PDFDirectory: currentDir,
		RenderDPI:    DefaultRenderDPI,
		FontSize:     DefaultFontSize,
		Version:      "1.0.0",
		AppName:      "plexipdf",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand the working directory if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PLEXIPDF")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("dpi", cfg.RenderDPI)
	viper.SetDefault("fontsize", cfg.FontSize)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'gui' for the desktop editor, 'stdio' for the MCP automation server")
	pflag.String("dir", cfg.PDFDirectory, "Default directory for PDF files")
	pflag.Float64("dpi", cfg.RenderDPI, "Resolution used when rendering pages for display")
	pflag.Float64("fontsize", cfg.FontSize, "Point size for inserted free-form text")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("dpi", pflag.Lookup("dpi"))
	_ = viper.BindPFlag("fontsize", pflag.Lookup("fontsize"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPlexiPDF - Edit PDF form fields and overlay text without a subscription\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                             # open the editor window\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s report.pdf                  # open the editor with a file loaded\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=~/docs   # headless MCP automation server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PLEXIPDF_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  PLEXIPDF_DIR          Default PDF directory\n")
		fmt.Fprintf(os.Stderr, "  PLEXIPDF_DPI          Render resolution\n")
		fmt.Fprintf(os.Stderr, "  PLEXIPDF_FONTSIZE     Inserted text point size\n")
		fmt.Fprintf(os.Stderr, "  PLEXIPDF_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  PLEXIPDF_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.RenderDPI = viper.GetFloat64("dpi")
	cfg.FontSize = viper.GetFloat64("fontsize")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeGUI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'gui' or 'stdio'")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.RenderDPI < 36 || c.RenderDPI > 600 {
		return errors.New("dpi must be between 36 and 600")
	}

	if c.FontSize < 4 || c.FontSize > 144 {
		return errors.New("fontsize must be between 4 and 144")
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

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsGUIMode returns true if the application should open the editor window
func (c *Config) IsGUIMode() bool {
	return c.Mode == ModeGUI
}

// IsStdioMode returns true if the application runs as an MCP automation server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, PDFDirectory: %s, RenderDPI: %.0f, FontSize: %.1f, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.PDFDirectory, c.RenderDPI, c.FontSize, c.LogLevel, c.MaxFileSize)
}
