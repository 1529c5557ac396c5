package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the bot
type Config struct {
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Bot         BotConfig         `mapstructure:"bot"`
	PriceLookup PriceLookupConfig `mapstructure:"price_lookup"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
}

type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	Debug   bool   `mapstructure:"debug"`
	Timeout int    `mapstructure:"timeout"`
}

// DatabaseConfig selects the storage driver. Driver "memory" keeps the
// catalog in process memory and is meant for local runs.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	ConnectRetries uint64 `mapstructure:"connect_retries"`
}

type BotConfig struct {
	AdminIds       []int64       `mapstructure:"admin_ids"`
	Workers        int           `mapstructure:"workers"`
	HandleTimeout  time.Duration `mapstructure:"handle_timeout"`
	ManagerContact string        `mapstructure:"manager_contact"`
	ChannelURL     string        `mapstructure:"channel_url"`
}

type PriceLookupConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	BaseURL           string        `mapstructure:"base_url"`
	Pages             int           `mapstructure:"pages"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	DiscountPercent   float64       `mapstructure:"discount_percent"`
	Cache             string        `mapstructure:"cache"`
	CacheFile         string        `mapstructure:"cache_file"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads .env and config.yaml (both optional) with environment overrides,
// e.g. TELEGRAM_TOKEN or DATABASE_DSN.
func Load() (*Config, error) {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./cmd/app")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		adminIdsHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram.token is required")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Bot.Workers <= 0 {
		return errors.New("bot.workers must be positive")
	}
	if c.PriceLookup.DiscountPercent < 0 || c.PriceLookup.DiscountPercent >= 100 {
		return errors.New("price_lookup.discount_percent must be in [0, 100)")
	}
	return nil
}

// IsAdmin reports whether the user id is on the configured admin list.
func (b BotConfig) IsAdmin(userId int64) bool {
	for _, id := range b.AdminIds {
		if id == userId {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.timeout", 60)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.connect_retries", 5)

	v.SetDefault("bot.admin_ids", []int64{})
	v.SetDefault("bot.workers", 8)
	v.SetDefault("bot.handle_timeout", 30*time.Second)
	v.SetDefault("bot.manager_contact", "@manager")
	v.SetDefault("bot.channel_url", "https://t.me/")

	v.SetDefault("price_lookup.enabled", false)
	v.SetDefault("price_lookup.base_url", "https://poizonshop.ru")
	v.SetDefault("price_lookup.pages", 9)
	v.SetDefault("price_lookup.timeout", 15*time.Second)
	v.SetDefault("price_lookup.requests_per_second", 20)
	v.SetDefault("price_lookup.discount_percent", 0)
	v.SetDefault("price_lookup.cache", "file")
	v.SetDefault("price_lookup.cache_file", "./price_cache.json")
	v.SetDefault("price_lookup.cache_ttl", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
}
