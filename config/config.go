package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	AI       AIConfig       `mapstructure:"ai"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds the MySQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig holds SMTP settings for alert digests.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AlertsConfig tunes the alert evaluation core.
type AlertsConfig struct {
	CronSecret               string  `mapstructure:"cron_secret"`
	TriggerCooldownMinutes   int     `mapstructure:"trigger_cooldown_minutes"`
	SchedulerIntervalMinutes int     `mapstructure:"scheduler_interval_minutes"`
	BudgetWarnPercent        float64 `mapstructure:"budget_warn_percent"`
	RecurringDueDays         int     `mapstructure:"recurring_due_days"`
	AnomalyMultiplier        float64 `mapstructure:"anomaly_multiplier"`
	ActivityWindowDays       int     `mapstructure:"activity_window_days"`
}

// AIConfig points at an OpenAI-compatible chat completions endpoint.
type AIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// ExchangeConfig holds the currency-rate provider settings.
type ExchangeConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

var (
	// GlobalConfig is the loaded configuration instance.
	GlobalConfig *Config
)

// LoadConfig loads the configuration.
// Priority: external config file > embedded defaults, with FINTRACK_* env
// variables overriding both. configPath is an optional explicit file path.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. Embedded defaults first.
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	// 2. Optional external config file merged on top.
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged external config: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/fintrack")
		externalViper.AddConfigPath("$HOME/.fintrack")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("warning: merge external config failed: %v", err)
			} else {
				log.Printf("merged external config: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. Environment variable override.
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	// Fallbacks keep the alert core sane when a section is only partially
	// overridden by an external file.
	if cfg.Alerts.TriggerCooldownMinutes <= 0 {
		cfg.Alerts.TriggerCooldownMinutes = 5
	}
	if cfg.Alerts.SchedulerIntervalMinutes <= 0 {
		cfg.Alerts.SchedulerIntervalMinutes = 60
	}
	if cfg.Alerts.BudgetWarnPercent <= 0 || cfg.Alerts.BudgetWarnPercent > 100 {
		cfg.Alerts.BudgetWarnPercent = 80
	}
	if cfg.Alerts.RecurringDueDays <= 0 {
		cfg.Alerts.RecurringDueDays = 7
	}
	if cfg.Alerts.AnomalyMultiplier <= 1 {
		cfg.Alerts.AnomalyMultiplier = 3
	}
	if cfg.Alerts.ActivityWindowDays <= 0 {
		cfg.Alerts.ActivityWindowDays = 30
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig loads the configuration and panics on failure.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

// GetConfig returns the global configuration.
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config not initialized, call LoadConfig first")
	}
	return GlobalConfig
}

// PrintConfig logs the effective configuration, hiding secrets.
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("configuration:")
	log.Printf("  server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  database: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  email digests: %v", GlobalConfig.Email.Enabled)
	log.Printf("  alert scheduler: every %d min, trigger cooldown %d min",
		GlobalConfig.Alerts.SchedulerIntervalMinutes,
		GlobalConfig.Alerts.TriggerCooldownMinutes)
}
