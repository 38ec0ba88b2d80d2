package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
		UserID int64  `yaml:"user_id"`
	} `yaml:"telegram"`
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"redis"`
	Reports struct {
		WeeklyCron string `yaml:"weekly_cron"`
	} `yaml:"reports"`
	Score struct {
		DelayFrequencyCap    float64 `yaml:"delay_frequency_cap"`
		SeverityCap          float64 `yaml:"severity_cap"`
		SeverityScaleMinutes float64 `yaml:"severity_scale_minutes"`
	} `yaml:"score"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Database.Path = "/data/procrastination.db"
	cfg.Redis.CacheTTL = 10 * time.Minute
	cfg.Reports.WeeklyCron = "0 18 * * 0"
	cfg.Score.DelayFrequencyCap = 30
	cfg.Score.SeverityCap = 40
	cfg.Score.SeverityScaleMinutes = 120
	return cfg
}

// Load reads .env, then the optional YAML file named by CONFIG_PATH, then
// applies environment overrides on top.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ .env not loaded: %v", err)
	}

	cfg := Default()

	if path := getEnv("CONFIG_PATH", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Config loaded: port=%s, db=%s, telegram=%t, redis=%t",
		cfg.Server.Port, cfg.Database.Path, cfg.TelegramEnabled(), cfg.RedisEnabled())

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Telegram.Token = getEnv("TG_TOKEN", c.Telegram.Token)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Reports.WeeklyCron = getEnv("WEEKLY_REPORT_CRON", c.Reports.WeeklyCron)

	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	var err error
	if c.Telegram.ChatID, err = envInt64("TG_CHAT_ID", c.Telegram.ChatID); err != nil {
		return err
	}
	if c.Telegram.UserID, err = envInt64("TG_USER_ID", c.Telegram.UserID); err != nil {
		return err
	}

	db, err := envInt64("REDIS_DB", int64(c.Redis.DB))
	if err != nil {
		return err
	}
	c.Redis.DB = int(db)

	if raw := getEnv("CACHE_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", raw, err)
		}
		c.Redis.CacheTTL = ttl
	}

	if c.Score.DelayFrequencyCap, err = envFloat("SCORE_DELAY_FREQUENCY_CAP", c.Score.DelayFrequencyCap); err != nil {
		return err
	}
	if c.Score.SeverityCap, err = envFloat("SCORE_SEVERITY_CAP", c.Score.SeverityCap); err != nil {
		return err
	}
	if c.Score.SeverityScaleMinutes, err = envFloat("SCORE_SEVERITY_SCALE", c.Score.SeverityScaleMinutes); err != nil {
		return err
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is empty")
	}
	if c.Score.DelayFrequencyCap < 0 || c.Score.SeverityCap < 0 {
		return fmt.Errorf("score caps must not be negative")
	}
	if c.Score.DelayFrequencyCap+c.Score.SeverityCap > 100 {
		return fmt.Errorf("score caps add up to more than 100")
	}
	if c.Score.SeverityScaleMinutes <= 0 {
		return fmt.Errorf("score severity scale must be positive")
	}
	if c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	return nil
}

func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// ReportUserID is the tracker user whose reports the bot delivers.
func (c *Config) ReportUserID() int64 {
	if c.Telegram.UserID > 0 {
		return c.Telegram.UserID
	}
	return 1
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func envInt64(key string, defaultValue int64) (int64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
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
