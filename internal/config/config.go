package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. OLYMPICS_DATA_SOURCE
const EnvPrefix = "OLYMPICS"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains CORS and rate limiting configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"*"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/olympics.log"`
}

// DataConfig locates the source table and tunes the presentation pass
type DataConfig struct {
	Source           string `yaml:"source" envconfig:"SOURCE" default:"data/athlete_events.csv" validate:"required"`
	Sheet            string `yaml:"sheet" envconfig:"SHEET"`
	StripTeamSuffix  bool   `yaml:"strip_team_suffix" envconfig:"STRIP_TEAM_SUFFIX" default:"true"`
	StripEventPrefix bool   `yaml:"strip_event_prefix" envconfig:"STRIP_EVENT_PREFIX" default:"true"`
	ExtractNickname  bool   `yaml:"extract_nickname" envconfig:"EXTRACT_NICKNAME" default:"false"`
}

// ExportConfig controls the report run
type ExportConfig struct {
	OutputDir   string       `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output" validate:"required"`
	Formats     []string     `yaml:"formats" envconfig:"FORMATS" default:"csv,excel,json" validate:"dive,oneof=csv excel json sheets"`
	IncludeBOM  bool         `yaml:"include_bom" envconfig:"INCLUDE_BOM" default:"true"`
	PreviewRows int          `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"50" validate:"gte=0"`
	Workers     int          `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`
	FocusNOC    string       `yaml:"focus_noc" envconfig:"FOCUS_NOC" default:"VIE" validate:"omitempty,len=3,alpha"`
	TopN        int          `yaml:"top_n" envconfig:"TOP_N" default:"0" validate:"gte=0"`
	Sheets      SheetsConfig `yaml:"sheets" envconfig:"SHEETS"`
}

// SheetsConfig configures the optional Google Sheets publish
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE" default:"credentials.json"`
}

// TelemetryConfig configures OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"olympicstats"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0" validate:"gte=0,lte=1"`
}

// Load builds the configuration. Tag defaults and OLYMPICS_* environment
// variables form the base; a YAML file, when one is given or found in a
// well-known location, overrides the keys it sets.
func Load(file string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if file == "" {
		file = getConfigFilePath()
	}
	if file != "" {
		if err := mergeFile(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeFile overlays the keys present in a YAML file onto cfg
func mergeFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct tags and the cross-field rules tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required for output %q", c.Logging.Output)
	}
	if c.Export.HasFormat("sheets") && c.Export.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("export.sheets.spreadsheet_id is required when the sheets format is enabled")
	}

	return nil
}

// HasFormat reports whether an export format is enabled
func (e ExportConfig) HasFormat(format string) bool {
	for _, f := range e.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the first config file found in common locations
func getConfigFilePath() string {
	locations := []string{
		"olympics.yaml",
		"configs/olympics.yaml",
		"../configs/olympics.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/olympics.log",
		},
		Data: DataConfig{
			Source:           "data/athlete_events.csv",
			StripTeamSuffix:  true,
			StripEventPrefix: true,
		},
		Export: ExportConfig{
			OutputDir:   "output",
			Formats:     []string{"csv", "excel", "json"},
			IncludeBOM:  true,
			PreviewRows: 50,
			Workers:     4,
			FocusNOC:    "VIE",
			Sheets: SheetsConfig{
				CredentialsFile: "credentials.json",
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "olympicstats",
			Environment:    "development",
			EnableMetrics:  true,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
