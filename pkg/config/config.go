package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/security/detection"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Detection DetectionConfig `mapstructure:"detection"`
	Security  SecurityConfig  `mapstructure:"security"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Host        string `mapstructure:"host"`
	SecretKey   string `mapstructure:"secret_key"`
	BodyLimit   int    `mapstructure:"body_limit"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// Enabled reports whether a redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type KafkaConfig struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

func (k KafkaConfig) Enabled() bool {
	return k.Host != "" && k.Topic != ""
}

type DashboardConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RecentLimit       int           `mapstructure:"recent_limit"`
	HighRiskThreshold int           `mapstructure:"high_risk_threshold"`
}

type DetectionConfig struct {
	DisableBuiltin bool             `mapstructure:"disable_builtin"`
	DisabledRules  []string         `mapstructure:"disabled_rules"`
	Rules          []detection.Rule `mapstructure:"rules"`
}

// RuleSet returns the rules the detector should load, in evaluation order.
func (d DetectionConfig) RuleSet() []detection.Rule {
	var base []detection.Rule
	if !d.DisableBuiltin {
		base = detection.DefaultRules()
	}
	return detection.MergeRules(base, d.Rules, d.DisabledRules)
}

type SecurityConfig struct {
	ContentSecurityPolicy []string `mapstructure:"content_security_policy"`
	FrameOptions          string   `mapstructure:"frame_options"`
	ReferrerPolicy        string   `mapstructure:"referrer_policy"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

var DefaultContentSecurityPolicy = []string{
	"default-src 'self'",
	"script-src 'self'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data: https:",
	"font-src 'self'",
	"object-src 'none'",
	"base-uri 'self'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}

var globalConfig *Config

// Load reads config.yaml from configPath (then ./config and .) and applies
// environment overrides. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaultValues(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Database.applyURL(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "xss_prevention.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("dashboard.enabled", true)
	v.SetDefault("dashboard.cache_ttl", 30*time.Second)
	v.SetDefault("dashboard.recent_limit", 10)
	v.SetDefault("dashboard.high_risk_threshold", 8)
	v.SetDefault("security.content_security_policy", DefaultContentSecurityPolicy)
	v.SetDefault("security.frame_options", "SAMEORIGIN")
	v.SetDefault("security.referrer_policy", "strict-origin-when-cross-origin")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "xssguard.log")
	v.SetDefault("log.console", true)
}

// bindLegacyEnv keeps the environment names earlier deployments used.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.secret_key", "SERVER_SECRET_KEY", "SECRET_KEY")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("dashboard.enabled", "DASHBOARD_ENABLED", "ENABLE_DASHBOARD")
}

// applyURL lets a single connection URL override the discrete settings.
// sqlite:///relative.db and sqlite:////abs/path.db select sqlite, postgres:// and
// postgresql:// select postgres.
func (d *DatabaseConfig) applyURL() error {
	if d.URL == "" {
		return nil
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return fmt.Errorf("invalid database url: %w", err)
	}
	switch u.Scheme {
	case "sqlite", "sqlite3":
		d.Driver = "sqlite"
		d.Path = strings.TrimPrefix(u.Path, "/")
		if d.Path == "" {
			return fmt.Errorf("invalid database url: missing sqlite path")
		}
	case "postgres", "postgresql":
		d.Driver = "postgres"
	default:
		return fmt.Errorf("invalid database url: unsupported scheme %q", u.Scheme)
	}
	return nil
}

// DSN returns the postgres connection string, empty for sqlite or when the
// discrete settings should be used.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" && d.URL != "" {
		return d.URL
	}
	return ""
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Metrics.Enabled && (c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535) {
		return fmt.Errorf("invalid server.metrics_port %d", c.Server.MetricsPort)
	}
	if c.Metrics.Enabled && c.Server.MetricsPort == c.Server.Port {
		return errors.New("server.metrics_port must differ from server.port")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Dashboard.RecentLimit <= 0 {
		return fmt.Errorf("invalid dashboard.recent_limit %d", c.Dashboard.RecentLimit)
	}
	return nil
}

func GetConfig() *Config {
	return globalConfig
}
