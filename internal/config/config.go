// Package config provides configuration loading and validation for the CLI.
//
// Values come from, in increasing priority: defaults, a YAML or JSON config
// file, FIT_* environment variables and explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jonathan/candidate-fit/internal/llm"
)

// EnvPrefix is the prefix of every environment variable read by Load
const EnvPrefix = "FIT"

// Config is the CLI configuration
type Config struct {
	Provider    string        `mapstructure:"provider" validate:"oneof=gemini vertex"`
	APIKey      string        `mapstructure:"api-key"`
	ProjectID   string        `mapstructure:"project-id" validate:"required_if=Provider vertex"`
	Location    string        `mapstructure:"location"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Models      ModelsConfig  `mapstructure:"models"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Retry       RetryConfig   `mapstructure:"retry"`
	Feedback    bool          `mapstructure:"feedback"`

	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

// ModelsConfig names the provider model serving each tier
type ModelsConfig struct {
	Lite     string `mapstructure:"lite" validate:"required"`
	Standard string `mapstructure:"standard" validate:"required"`
	Advanced string `mapstructure:"advanced" validate:"required"`
}

// RetryConfig bounds provider retries per stage
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max-attempts" validate:"gte=1,lte=10"`
	Backoff     time.Duration `mapstructure:"backoff" validate:"gte=0"`
}

// flagKeys are the persistent CLI flags that map one-to-one onto config keys
var flagKeys = []string{"provider", "api-key", "debug", "json", "timeout", "feedback"}

// Load reads configuration from path (optional), the environment and flags.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api-key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if flags != nil {
		for _, key := range flagKeys {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := llm.DefaultGeminiConfig()
	v.SetDefault("provider", string(llm.ProviderGemini))
	v.SetDefault("api-key", "")
	v.SetDefault("project-id", "")
	v.SetDefault("location", "us-central1")
	v.SetDefault("temperature", defaults.Temperature)
	v.SetDefault("models.lite", defaults.Models[llm.TierLite])
	v.SetDefault("models.standard", defaults.Models[llm.TierStandard])
	v.SetDefault("models.advanced", defaults.Models[llm.TierAdvanced])
	v.SetDefault("timeout", 2*time.Minute)
	v.SetDefault("retry.max-attempts", 3)
	v.SetDefault("retry.backoff", 500*time.Millisecond)
	v.SetDefault("feedback", false)
	v.SetDefault("debug", false)
	v.SetDefault("json", false)
}

// Validate checks field ranges and provider-specific requirements
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// LLMConfig converts the provider settings into an llm.Config
func (c *Config) LLMConfig() *llm.Config {
	return &llm.Config{
		Provider: llm.Provider(c.Provider),
		Models: map[llm.ModelTier]string{
			llm.TierLite:     c.Models.Lite,
			llm.TierStandard: c.Models.Standard,
			llm.TierAdvanced: c.Models.Advanced,
		},
		Temperature: c.Temperature,
		ProjectID:   c.ProjectID,
		Location:    c.Location,
	}
}

// HasModel reports whether enough provider settings are present to create a model client
func (c *Config) HasModel() bool {
	if llm.Provider(c.Provider) == llm.ProviderVertex {
		return c.ProjectID != ""
	}
	return c.APIKey != ""
}
