package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/spf13/viper"

	"github.com/MoneNarendra/unibudget/internal/common"
	"github.com/MoneNarendra/unibudget/internal/llm"
	"github.com/MoneNarendra/unibudget/internal/pattern"
	"github.com/MoneNarendra/unibudget/internal/storage"
)

// EnvPrefix is prepended to environment overrides, e.g. UNIBUDGET_DATABASE_PATH.
const EnvPrefix = "UNIBUDGET"

// Config is the resolved application configuration.
type Config struct {
	Location *time.Location
	Database DatabaseConfig
	Currency string
	Advisor  AdvisorConfig
	Logging  LoggingConfig
	Engine   EngineConfig
	Import   ImportConfig
}

// DatabaseConfig selects the store file and SQLite driver.
type DatabaseConfig struct {
	Path   string
	Driver string
}

// AdvisorConfig configures the spending advisor.
type AdvisorConfig struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	RateLimit  int
	MaxRetries int
	CacheTTL   time.Duration
}

// EngineConfig tunes the coordinator.
type EngineConfig struct {
	RollbackOnFailure bool
	AdviceSampleSize  int
}

// ImportConfig holds the category rules applied to OFX statements. User
// rules are checked before the defaults.
type ImportConfig struct {
	Rules        []pattern.Rule
	DefaultRules bool
}

// Matcher compiles the configured rule set.
func (i ImportConfig) Matcher() (*pattern.Matcher, error) {
	rules := append([]pattern.Rule(nil), i.Rules...)
	if i.DefaultRules {
		rules = append(rules, pattern.DefaultRules()...)
	}
	return pattern.NewMatcher(rules)
}

// LoggingConfig is passed to common.SetupLogger.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("database.driver", storage.DriverCGo)
	v.SetDefault("currency", money.INR)
	v.SetDefault("timezone", "Local")
	v.SetDefault("advisor.provider", llm.ProviderGemini)
	v.SetDefault("advisor.rate_limit", 10)
	v.SetDefault("advisor.max_retries", 3)
	v.SetDefault("advisor.cache_ttl", 15*time.Minute)
	v.SetDefault("engine.rollback_on_failure", true)
	v.SetDefault("engine.advice_sample_size", 50)
	v.SetDefault("import.default_rules", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load resolves the configuration from v. Values come from, in order of
// precedence: flags bound to v, UNIBUDGET_* variables, the config file,
// provider specific API key variables, defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Path:   ExpandPath(v.GetString("database.path")),
			Driver: strings.ToLower(v.GetString("database.driver")),
		},
		Currency: strings.ToUpper(v.GetString("currency")),
		Advisor: AdvisorConfig{
			Provider:   strings.ToLower(v.GetString("advisor.provider")),
			APIKey:     v.GetString("advisor.api_key"),
			Model:      v.GetString("advisor.model"),
			BaseURL:    v.GetString("advisor.base_url"),
			RateLimit:  v.GetInt("advisor.rate_limit"),
			MaxRetries: v.GetInt("advisor.max_retries"),
			CacheTTL:   v.GetDuration("advisor.cache_ttl"),
		},
		Engine: EngineConfig{
			RollbackOnFailure: v.GetBool("engine.rollback_on_failure"),
			AdviceSampleSize:  v.GetInt("engine.advice_sample_size"),
		},
		Import: ImportConfig{
			DefaultRules: v.GetBool("import.default_rules"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := v.UnmarshalKey("import.rules", &cfg.Import.Rules); err != nil {
		return nil, fmt.Errorf("%w: import.rules: %w", common.ErrInvalidConfig, err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}
	if cfg.Advisor.APIKey == "" {
		cfg.Advisor.APIKey = providerKeyFromEnv(cfg.Advisor.Provider)
	}

	loc, err := loadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case storage.DriverCGo, storage.DriverPure:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", common.ErrInvalidConfig, c.Database.Driver)
	}

	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("%w: unknown currency %q", common.ErrInvalidConfig, c.Currency)
	}

	switch c.Advisor.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unknown advisor.provider %q", common.ErrInvalidConfig, c.Advisor.Provider)
	}

	if c.Engine.AdviceSampleSize < 0 {
		return fmt.Errorf("%w: engine.advice_sample_size must not be negative", common.ErrInvalidConfig)
	}

	if _, err := c.Import.Matcher(); err != nil {
		return fmt.Errorf("%w: import.rules: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// LLM converts the advisor settings for llm.NewAdvisor.
func (a AdvisorConfig) LLM() llm.Config {
	return llm.Config{
		Provider:   a.Provider,
		APIKey:     a.APIKey,
		Model:      a.Model,
		BaseURL:    a.BaseURL,
		RateLimit:  a.RateLimit,
		MaxRetries: a.MaxRetries,
		CacheTTL:   a.CacheTTL,
	}
}

func providerKeyFromEnv(provider string) string {
	var names []string
	switch provider {
	case llm.ProviderGemini:
		names = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}
	case llm.ProviderOpenAI:
		names = []string{"OPENAI_API_KEY"}
	case llm.ProviderAnthropic:
		names = []string{"ANTHROPIC_API_KEY"}
	}
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone: %w", common.ErrInvalidConfig, err)
	}
	return loc, nil
}

// KeyReplacer maps nested keys to environment names: advisor.api_key
// becomes UNIBUDGET_ADVISOR_API_KEY.
func KeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
