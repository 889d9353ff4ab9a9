package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-extractor/internal/normalize"
	"github.com/insightdelivered/statement-extractor/internal/parser"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

// Config represents the statement-extractor.yaml configuration.
type Config struct {
	Patterns parser.PatternSource `yaml:"patterns"`
	Dates    DatesConfig          `yaml:"dates"`
	Report   ReportConfig         `yaml:"report"`
	Server   ServerConfig         `yaml:"server"`
	Log      LogConfig            `yaml:"log"`
}

// DatesConfig controls date parsing and reformatting.
type DatesConfig struct {
	InputLayout  string `yaml:"input_layout"`  // Go layout, e.g. "02-Jan-2006"
	OutputFormat string `yaml:"output_format"` // strftime, e.g. "%d/%m/%Y"
	Fallback     string `yaml:"fallback"`      // "column" or "row"
}

// ReportConfig names the spreadsheet parts.
type ReportConfig struct {
	SheetName  string `yaml:"sheet_name"`
	TableName  string `yaml:"table_name"`
	TableStyle string `yaml:"table_style"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxUploadMiB int    `yaml:"max_upload_mib"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a config file from disk. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration for DD-Mon-YYYY statements.
func Default() *Config {
	return &Config{
		Patterns: parser.PatternSource{
			Date:          parser.DefaultDatePattern,
			AmountBalance: parser.DefaultAmountBalancePattern,
			BalanceOnly:   parser.DefaultBalanceOnlyPattern,
		},
		Dates: DatesConfig{
			InputLayout:  normalize.DefaultInputLayout,
			OutputFormat: normalize.DefaultOutputFormat,
			Fallback:     string(normalize.FallbackColumn),
		},
		Report: ReportConfig{
			SheetName:  writer.DefaultSheetName,
			TableName:  writer.DefaultTableName,
			TableStyle: writer.DefaultTableStyle,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxUploadMiB: 32,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Parser builds a parser from the configured patterns.
func (c *Config) Parser() (*parser.Parser, error) {
	patterns, err := parser.CompilePatterns(c.Patterns)
	if err != nil {
		return nil, err
	}
	return parser.New(patterns), nil
}

// Normalizer builds a normalizer from the date settings.
func (c *Config) Normalizer() (*normalize.Normalizer, error) {
	fallback, err := normalize.ParseFallback(c.Dates.Fallback)
	if err != nil {
		return nil, err
	}
	n := normalize.New(c.Dates.OutputFormat)
	if c.Dates.InputLayout != "" {
		n.InputLayout = c.Dates.InputLayout
	}
	n.Fallback = fallback
	return n, nil
}

// XLSXWriter builds the spreadsheet writer from the report settings.
func (c *Config) XLSXWriter() *writer.XLSXWriter {
	return &writer.XLSXWriter{
		SheetName:  c.Report.SheetName,
		TableName:  c.Report.TableName,
		TableStyle: c.Report.TableStyle,
	}
}
