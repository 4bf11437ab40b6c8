package tacc

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/markdownparser"
	"github.com/shibukawa/tacc/translator"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// DefaultConfigFile is the configuration file name looked up by the CLI.
const DefaultConfigFile = "tacc.yaml"

// Config represents the tacc configuration
type Config struct {
	Compiler CompilerConfig `yaml:"compiler"`
	Output   OutputConfig   `yaml:"output"`
	Input    InputConfig    `yaml:"input"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Test     TestConfig     `yaml:"test"`
}

// CompilerConfig represents translation settings
type CompilerConfig struct {
	MaxDepth int  `yaml:"max_depth"`
	Trace    bool `yaml:"trace"`
}

// OutputConfig represents how compiled programs are written
type OutputConfig struct {
	Format        string `yaml:"format"`
	Dir           string `yaml:"dir"` // When set, one file per input is written here
	ShowPositions bool   `yaml:"show_positions"`
	Validate      bool   `yaml:"validate"`
}

// InputConfig represents which files are treated as source
type InputConfig struct {
	Extensions []string `yaml:"extensions"`
}

// MarkdownConfig represents the section headings read from markdown documents
type MarkdownConfig struct {
	SourceSections        []string `yaml:"source_sections"`
	ExpectedSections      []string `yaml:"expected_sections"`
	ExpectedErrorSections []string `yaml:"expected_error_sections"`
}

// TestConfig represents golden document test settings
type TestConfig struct {
	Dir string `yaml:"dir"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data in strict mode, validates it and fills in defaults.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables before validation so ${FORMAT} style values are checked
	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Compiler.MaxDepth < 0 {
		return fmt.Errorf("%w: compiler.max_depth must be non-negative, got %d", ErrConfigValidation, config.Compiler.MaxDepth)
	}

	if config.Output.Format != "" {
		if _, err := intermediate.ParseFormat(config.Output.Format); err != nil {
			return fmt.Errorf("%w: output.format '%s' is invalid: must be one of text, json, yaml, xml", ErrConfigValidation, config.Output.Format)
		}
	}

	for _, ext := range config.Input.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: input.extensions entry '%s' must start with '.'", ErrConfigValidation, ext)
		}
	}

	for _, section := range config.Markdown.SourceSections {
		if strings.TrimSpace(section) == "" {
			return fmt.Errorf("%w: markdown.source_sections must not contain empty headings", ErrConfigValidation)
		}
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Compiler: CompilerConfig{
			MaxDepth: translator.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Format: string(intermediate.FormatText),
		},
		Input: InputConfig{
			Extensions: []string{".tac", ".md"},
		},
		Markdown: MarkdownConfig{
			SourceSections:        []string{"Source"},
			ExpectedSections:      []string{"Expected"},
			ExpectedErrorSections: []string{"Expected Error"},
		},
		Test: TestConfig{
			Dir: "./testdata",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Compiler.MaxDepth == 0 {
		config.Compiler.MaxDepth = defaults.Compiler.MaxDepth
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	if len(config.Input.Extensions) == 0 {
		config.Input.Extensions = defaults.Input.Extensions
	}

	if len(config.Markdown.SourceSections) == 0 {
		config.Markdown.SourceSections = defaults.Markdown.SourceSections
	}

	if len(config.Markdown.ExpectedSections) == 0 {
		config.Markdown.ExpectedSections = defaults.Markdown.ExpectedSections
	}

	if len(config.Markdown.ExpectedErrorSections) == 0 {
		config.Markdown.ExpectedErrorSections = defaults.Markdown.ExpectedErrorSections
	}

	if config.Test.Dir == "" {
		config.Test.Dir = defaults.Test.Dir
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// OutputFormat returns the configured output format.
func (c *Config) OutputFormat() intermediate.Format {
	format, err := intermediate.ParseFormat(c.Output.Format)
	if err != nil {
		return intermediate.FormatText
	}

	return format
}

// CompileOptions returns the compile options selected by the configuration.
func (c *Config) CompileOptions() CompileOptions {
	return CompileOptions{MaxDepth: c.Compiler.MaxDepth}
}

// MarkdownOptions returns the section headings read from markdown documents.
func (c *Config) MarkdownOptions() markdownparser.Options {
	return markdownparser.Options{
		SourceSections:        c.Markdown.SourceSections,
		ExpectedSections:      c.Markdown.ExpectedSections,
		ExpectedErrorSections: c.Markdown.ExpectedErrorSections,
	}
}

// HasSourceExtension reports whether path has one of the configured input extensions.
func (c *Config) HasSourceExtension(path string) bool {
	for _, ext := range c.Input.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvPattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in every path-like field
func expandConfigEnvVars(config *Config) {
	config.Output.Format = expandEnvVars(config.Output.Format)
	config.Output.Dir = expandEnvVars(config.Output.Dir)
	config.Test.Dir = expandEnvVars(config.Test.Dir)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
