package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "fxclean/internal/errors"
	"fxclean/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "FXCLEAN"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains input and output locations for batch runs
type PathsConfig struct {
	InputFile    string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	OutputFile   string `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
	OutputFormat string `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"omitempty,oneof=parquet csv"`
	ReportFile   string `yaml:"report_file" envconfig:"REPORT_FILE" validate:"omitempty,endswith=.xlsx"`
}

// PipelineConfig controls the cleaning stages
type PipelineConfig struct {
	DetectOutliers bool     `yaml:"detect_outliers" envconfig:"DETECT_OUTLIERS"`
	OutlierColumns []string `yaml:"outlier_columns" envconfig:"OUTLIER_COLUMNS" validate:"dive,oneof=open high low close average"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" validate:"hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gt=0"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/fxclean.log",
		},
		Paths: PathsConfig{
			InputFile:  "data/FXRates.csv",
			OutputFile: "data/FXRates.parquet",
		},
		Pipeline: PipelineConfig{
			DetectOutliers: true,
			OutlierColumns: []string{"high", "low"},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "fxclean",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    64 << 20, // 64MB
			RateLimitRPS:    10,
			RateLimitBurst:  20,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file (if any),
// then FXCLEAN_* environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFrom(configFilePath())
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", path), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at path onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// configFilePath returns the config file to use, or "" when none exists
func configFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	for _, location := range []string{"config.yaml", filepath.Join("configs", "config.yaml")} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks struct constraints and normalizes case-insensitive values
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Paths.OutputFormat = strings.ToLower(c.Paths.OutputFormat)
	for i, col := range c.Pipeline.OutlierColumns {
		c.Pipeline.OutlierColumns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// OutlierColumns returns the configured outlier columns, falling back to
// domain.DefaultOutlierColumns when none are set.
func (c *Config) OutlierColumns() []domain.Column {
	if len(c.Pipeline.OutlierColumns) == 0 {
		return domain.DefaultOutlierColumns
	}

	columns := make([]domain.Column, 0, len(c.Pipeline.OutlierColumns))
	for _, name := range c.Pipeline.OutlierColumns {
		col, err := domain.ParseColumn(name)
		if err != nil {
			// Validate already rejected unknown names
			continue
		}
		columns = append(columns, col)
	}
	return columns
}

// OutputFormat returns the configured output format, inferred from the
// output file extension when not set explicitly.
func (c *Config) OutputFormat() string {
	if c.Paths.OutputFormat != "" {
		return c.Paths.OutputFormat
	}
	if strings.EqualFold(filepath.Ext(c.Paths.OutputFile), ".csv") {
		return "csv"
	}
	return "parquet"
}
