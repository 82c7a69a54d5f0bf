package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/telco-eda/internal/impute"
	"github.com/KaramelBytes/telco-eda/internal/loader"
	"github.com/KaramelBytes/telco-eda/internal/outlier"
	"github.com/KaramelBytes/telco-eda/internal/pipeline"
)

// Global configuration structure.
type Global struct {
	// Cleaning
	MaxNullFraction float64 `mapstructure:"max_null_fraction" yaml:"max_null_fraction" validate:"gte=0,lte=1"`
	ImputeStrategy  string  `mapstructure:"impute_strategy" yaml:"impute_strategy" validate:"oneof=none mean median mode ffill bfill forward_fill backward_fill"`

	// Outliers
	OutlierMethod string  `mapstructure:"outlier_method" yaml:"outlier_method" validate:"oneof=iqr zscore"`
	ZThreshold    float64 `mapstructure:"z_threshold" yaml:"z_threshold" validate:"gte=0"`
	IQRMultiplier float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier" validate:"gte=0"`
	Treatment     string  `mapstructure:"treatment" yaml:"treatment" validate:"oneof=none log cap mean median percentile"`
	Percentile    float64 `mapstructure:"percentile" yaml:"percentile" validate:"gt=0,lte=1"`

	// Loading
	NullTokens []string `mapstructure:"null_tokens" yaml:"null_tokens"`

	// Output
	LogLevel     string  `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string  `mapstructure:"log_format" yaml:"log_format" validate:"oneof=json text"`
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in" validate:"gt=0"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in" validate:"gt=0"`
	SampleRows   int     `mapstructure:"sample_rows" yaml:"sample_rows" validate:"gte=0"`
}

// Dir returns ~/.telcoeda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".telcoeda"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.telcoeda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TELCOEDA")
	v.AutomaticEnv()

	v.SetDefault("max_null_fraction", 0.3)
	v.SetDefault("impute_strategy", "mean")
	v.SetDefault("outlier_method", "iqr")
	v.SetDefault("z_threshold", 3.0)
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("treatment", "cap")
	v.SetDefault("percentile", 0.95)
	v.SetDefault("null_tokens", []string{})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("plot_width_in", 10.0)
	v.SetDefault("plot_height_in", 6.0)
	v.SetDefault("sample_rows", 5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.ImputeStrategy = strings.ToLower(c.ImputeStrategy)
	c.OutlierMethod = strings.ToLower(c.OutlierMethod)
	c.Treatment = strings.ToLower(c.Treatment)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = validator.New()

// Validate checks every field against its constraints and reports all
// violations at once.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// OutlierConfig converts the outlier settings.
func (c *Global) OutlierConfig() (outlier.Config, error) {
	m, err := outlier.ParseMethod(c.OutlierMethod)
	if err != nil {
		return outlier.Config{}, err
	}
	return outlier.Config{Method: m, ZThreshold: c.ZThreshold, IQRMultiplier: c.IQRMultiplier}, nil
}

// PipelinePlan converts the cleaning and outlier settings into a plan.
func (c *Global) PipelinePlan() (pipeline.Plan, error) {
	p := pipeline.DefaultPlan()
	p.MaxNullFraction = c.MaxNullFraction
	if c.ImputeStrategy == "none" {
		p.Impute = false
	} else {
		s, err := impute.ParseStrategy(c.ImputeStrategy)
		if err != nil {
			return p, err
		}
		p.Strategy = s
	}
	oc, err := c.OutlierConfig()
	if err != nil {
		return p, err
	}
	p.Outlier = oc
	tr, err := outlier.ParseTreatment(c.Treatment)
	if err != nil {
		return p, err
	}
	p.Treatment.Treatment = tr
	p.Treatment.Multiplier = c.IQRMultiplier
	p.Treatment.Percentile = c.Percentile
	return p, nil
}

// LoaderOptions returns loader options carrying the configured null tokens.
func (c *Global) LoaderOptions() loader.Options {
	return loader.Options{NullTokens: c.NullTokens}
}
