package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const DefaultJWTSecret = "default-secret-change-in-production"

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Upload    UploadConfig    `mapstructure:"upload"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Mail      MailConfig      `mapstructure:"mail"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory". The memory store keeps records in the
	// state mirror, persisted to MirrorFile or the redis mirror key when set.
	Driver       string `mapstructure:"driver"`
	MirrorFile   string `mapstructure:"mirror_file"`
	URL          string `mapstructure:"url"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type RedisConfig struct {
	URL       string `mapstructure:"url"`
	Channel   string `mapstructure:"channel"`
	MirrorKey string `mapstructure:"mirror_key"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	ReportTo string `mapstructure:"report_to"`
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.ReportTo != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// EnvOverrides are the flat variables older deployments set, e.g. JWT_SECRET or PORT.
// They are read with the HOSPITAL_ prefix first and then without it.
type EnvOverrides struct {
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN"`
	Port         int           `envconfig:"PORT"`
	CORSOrigin   string        `envconfig:"CORS_ORIGIN"`
	AppEnv       string        `envconfig:"APP_ENV"`
	RedisURL     string        `envconfig:"REDIS_URL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hospital")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)

	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.expires_in", 24*time.Hour)

	v.SetDefault("cors.origins", []string{"http://localhost:5173"})
	v.SetDefault("upload.max_bytes", 5<<20)
	v.SetDefault("rate_limit.rps", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("redis.channel", "hospital.events")
	v.SetDefault("redis.mirror_key", "hospital:mirror")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "no-reply@hospital.local")

	v.SetDefault("log.level", "info")
}

// Load reads configuration from path (or config.yaml in . and ./config when empty),
// then the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("HOSPITAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	var o EnvOverrides
	if err := envconfig.Process("", &o); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	var prefixed EnvOverrides
	if err := envconfig.Process("HOSPITAL", &prefixed); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	o.merge(prefixed)

	if o.DatabaseURL != "" {
		c.Database.URL = o.DatabaseURL
	}
	if o.JWTSecret != "" {
		c.JWT.Secret = o.JWTSecret
	}
	if o.JWTExpiresIn > 0 {
		c.JWT.ExpiresIn = o.JWTExpiresIn
	}
	if o.Port > 0 {
		c.Server.Port = o.Port
	}
	if o.CORSOrigin != "" {
		c.CORS.Origins = splitList(o.CORSOrigin)
	}
	if o.AppEnv != "" {
		c.Server.Env = o.AppEnv
	}
	if o.RedisURL != "" {
		c.Redis.URL = o.RedisURL
	}
	return nil
}

// merge lets prefixed values win over bare ones.
func (o *EnvOverrides) merge(p EnvOverrides) {
	if p.DatabaseURL != "" {
		o.DatabaseURL = p.DatabaseURL
	}
	if p.JWTSecret != "" {
		o.JWTSecret = p.JWTSecret
	}
	if p.JWTExpiresIn > 0 {
		o.JWTExpiresIn = p.JWTExpiresIn
	}
	if p.Port > 0 {
		o.Port = p.Port
	}
	if p.CORSOrigin != "" {
		o.CORSOrigin = p.CORSOrigin
	}
	if p.AppEnv != "" {
		o.AppEnv = p.AppEnv
	}
	if p.RedisURL != "" {
		o.RedisURL = p.RedisURL
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("jwt expires_in must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("upload max_bytes must be positive")
	}
	switch c.Database.Driver {
	case "", DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == "development" || c.Server.Env == "test"
}

// UsesDefaultSecret reports whether the signing secret was never changed.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWT.Secret == DefaultJWTSecret
}
