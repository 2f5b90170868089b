// Package projectconfig provides the ProjectConfig struct and loader for
// .gradebook.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/kelseyhightower/envconfig"

	"github.com/gradebook-analyzer/gradebook/internal/validation"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = ".gradebook.yaml"

// EnvPrefix prefixes every environment override, e.g. GRADEBOOK_PASS_THRESHOLD.
const EnvPrefix = "GRADEBOOK"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultDetectHeader = true
	DefaultOnDuplicate  = "warn-and-overwrite"
	DefaultUnknownName  = "<Unknown>"

	DefaultPassThreshold = 40.0

	DefaultReportFormat    = "text"
	DefaultReportPrecision = 2

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// IngestConfig controls how rows become score records.
type IngestConfig struct {
	DetectHeader *bool   `yaml:"detect_header,omitempty" mapstructure:"detect_header"`
	OnDuplicate  string  `yaml:"on_duplicate,omitempty" mapstructure:"on_duplicate" validate:"oneof=overwrite warn-and-overwrite"`
	UnknownName  *string `yaml:"unknown_name,omitempty" mapstructure:"unknown_name"`
	Sheet        string  `yaml:"sheet,omitempty" mapstructure:"sheet"`
}

// GradingConfig holds grading parameters.
type GradingConfig struct {
	PassThreshold *float64 `yaml:"pass_threshold,omitempty" mapstructure:"pass_threshold" validate:"omitempty,gte=0"`
}

// ReportConfig holds report rendering defaults.
type ReportConfig struct {
	Format          string  `yaml:"format,omitempty" mapstructure:"format" validate:"oneof=text json markdown html junit"`
	Precision       *int    `yaml:"precision,omitempty" mapstructure:"precision" validate:"omitempty,gte=0,lte=6"`
	ConfidenceLevel float64 `yaml:"confidence_level,omitempty" mapstructure:"confidence_level" validate:"gte=0,lt=1"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" mapstructure:"format" validate:"oneof=text json"`
}

// ProjectConfig is the top-level configuration loaded from .gradebook.yaml.
type ProjectConfig struct {
	Ingest  IngestConfig  `yaml:"ingest,omitempty" mapstructure:"ingest"`
	Grading GradingConfig `yaml:"grading,omitempty" mapstructure:"grading"`
	Report  ReportConfig  `yaml:"report,omitempty" mapstructure:"report"`
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-" mapstructure:"-"`
}

// SchemaError lists the schema violations found in a config file.
type SchemaError struct {
	Path   string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid %s:\n  %s", e.Path, strings.Join(e.Errors, "\n  "))
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Ingest: IngestConfig{
			DetectHeader: boolPtr(DefaultDetectHeader),
			OnDuplicate:  DefaultOnDuplicate,
			UnknownName:  strPtr(DefaultUnknownName),
		},
		Grading: GradingConfig{
			PassThreshold: floatPtr(DefaultPassThreshold),
		},
		Report: ReportConfig{
			Format:    DefaultReportFormat,
			Precision: intPtr(DefaultReportPrecision),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load finds .gradebook.yaml by walking up from startDir (max 10 levels),
// validates it against the schema, fills in missing fields with defaults and
// applies GRADEBOOK_* environment overrides.
// If no config file is found, defaults (plus env overrides) are returned.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return resolve(path, data)
}

// LoadFile reads the config at path. Unlike Load, a missing file is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return resolve(path, data)
}

// Find returns the path of the nearest .gradebook.yaml at or above startDir.
func Find(startDir string) (string, error) {
	path, _, err := findConfigFile(startDir)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("no %s found from %s: %w", FileName, startDir, err)
	}
	return path, err
}

func resolve(path string, data []byte) (*ProjectConfig, error) {
	cfg := New()

	if path != "" {
		fileCfg, err := decode(path, data)
		if err != nil {
			return nil, err
		}
		mergeConfig(cfg, fileCfg)
		cfg.Source = path
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode validates the raw document against the schema before mapping it
// onto a ProjectConfig.
func decode(path string, data []byte) (*ProjectConfig, error) {
	doc, err := validation.ParseYAMLDoc(data)
	if err != nil {
		return nil, &SchemaError{Path: path, Errors: []string{err.Error()}}
	}
	if errs := validation.ValidateConfigDoc(doc); len(errs) > 0 {
		return nil, &SchemaError{Path: path, Errors: errs}
	}

	var fileCfg ProjectConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &fileCfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fileCfg, nil
}

// findConfigFile walks up from dir looking for .gradebook.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Real I/O errors (e.g.
// permission denied) are propagated.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays values set in src onto dst. Pointer fields may
// carry an explicit zero (precision 0, blank unknown_name).
func mergeConfig(dst, src *ProjectConfig) {
	// Ingest
	if src.Ingest.DetectHeader != nil {
		dst.Ingest.DetectHeader = src.Ingest.DetectHeader
	}
	if src.Ingest.OnDuplicate != "" {
		dst.Ingest.OnDuplicate = src.Ingest.OnDuplicate
	}
	if src.Ingest.UnknownName != nil {
		dst.Ingest.UnknownName = src.Ingest.UnknownName
	}
	if src.Ingest.Sheet != "" {
		dst.Ingest.Sheet = src.Ingest.Sheet
	}

	// Grading
	if src.Grading.PassThreshold != nil {
		dst.Grading.PassThreshold = src.Grading.PassThreshold
	}

	// Report
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
	if src.Report.Precision != nil {
		dst.Report.Precision = src.Report.Precision
	}
	if src.Report.ConfidenceLevel != 0 {
		dst.Report.ConfidenceLevel = src.Report.ConfidenceLevel
	}

	// Logging
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}

// envOverrides mirrors the settings that may come from the environment,
// e.g. PassThreshold ← GRADEBOOK_PASS_THRESHOLD. Fields are strings so that
// an unset variable is distinguishable from a zero value.
type envOverrides struct {
	DetectHeader    string  `split_words:"true"`
	OnDuplicate     string  `split_words:"true"`
	UnknownName     *string `split_words:"true"`
	ReportPrecision string  `split_words:"true"`
	PassThreshold   string  `split_words:"true"`
	ReportFormat    string  `split_words:"true"`
	ConfidenceLevel string  `split_words:"true"`
	LogLevel        string  `split_words:"true"`
	LogFormat       string  `split_words:"true"`
}

func applyEnv(cfg *ProjectConfig) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to load config from env: %w", err)
	}

	if env.DetectHeader != "" {
		v, err := strconv.ParseBool(env.DetectHeader)
		if err != nil {
			return fmt.Errorf("%s_DETECT_HEADER: %w", EnvPrefix, err)
		}
		cfg.Ingest.DetectHeader = &v
	}
	if env.OnDuplicate != "" {
		cfg.Ingest.OnDuplicate = env.OnDuplicate
	}
	if env.UnknownName != nil {
		cfg.Ingest.UnknownName = env.UnknownName
	}
	if env.PassThreshold != "" {
		v, err := strconv.ParseFloat(env.PassThreshold, 64)
		if err != nil {
			return fmt.Errorf("%s_PASS_THRESHOLD: %w", EnvPrefix, err)
		}
		cfg.Grading.PassThreshold = &v
	}
	if env.ReportFormat != "" {
		cfg.Report.Format = env.ReportFormat
	}
	if env.ReportPrecision != "" {
		v, err := strconv.Atoi(env.ReportPrecision)
		if err != nil {
			return fmt.Errorf("%s_REPORT_PRECISION: %w", EnvPrefix, err)
		}
		cfg.Report.Precision = &v
	}
	if env.ConfidenceLevel != "" {
		v, err := strconv.ParseFloat(env.ConfidenceLevel, 64)
		if err != nil {
			return fmt.Errorf("%s_CONFIDENCE_LEVEL: %w", EnvPrefix, err)
		}
		cfg.Report.ConfidenceLevel = v
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(env.LogLevel)
	}
	if env.LogFormat != "" {
		cfg.Logging.Format = strings.ToLower(env.LogFormat)
	}
	return nil
}

var validate = validator.New()

// Validate checks the resolved configuration.
func Validate(cfg *ProjectConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// DetectHeader returns the effective header-detection setting.
func (c *ProjectConfig) DetectHeader() bool {
	if c.Ingest.DetectHeader == nil {
		return DefaultDetectHeader
	}
	return *c.Ingest.DetectHeader
}

// PassThreshold returns the effective pass threshold.
func (c *ProjectConfig) PassThreshold() float64 {
	if c.Grading.PassThreshold == nil {
		return DefaultPassThreshold
	}
	return *c.Grading.PassThreshold
}

// UnknownName returns the placeholder for blank names. Empty keeps them blank.
func (c *ProjectConfig) UnknownName() string {
	if c.Ingest.UnknownName == nil {
		return DefaultUnknownName
	}
	return *c.Ingest.UnknownName
}

// Precision returns the effective number of report decimals.
func (c *ProjectConfig) Precision() int {
	if c.Report.Precision == nil {
		return DefaultReportPrecision
	}
	return *c.Report.Precision
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}
