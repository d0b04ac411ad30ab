package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL        string  `yaml:"base_url"`
		APIKey         string  `yaml:"api_key"`
		// RequestsPerSec <= 0 disables throttling.
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Mock           bool    `yaml:"mock"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string        `yaml:"sqlite_path"`
		Lookback   time.Duration `yaml:"lookback"`
		// TopLimit caps the /top ranking.
		TopLimit int `yaml:"top_limit"`
	} `yaml:"database"`
	Chart struct {
		TrendWindow int    `yaml:"trend_window"`
		Timezone    string `yaml:"timezone"`
		LabelLayout string `yaml:"label_layout"`
	} `yaml:"chart"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Log       struct {
		Level string `yaml:"level"`
		Env   string `yaml:"env"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load starts from Default, then layers .env, the YAML file at path and
// environment variable overrides on top. Missing files are not an error.
// Values set explicitly, zero included, are kept as given.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SENTIMENT_API_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("SENTIMENT_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("TREND_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TREND_WINDOW: %w", err)
		}
		c.Chart.TrendWindow = n
	}
	if v := os.Getenv("SENTIMENT_API_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SENTIMENT_API_RPS: %w", err)
		}
		c.DataSource.RequestsPerSec = rps
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Log.Env = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	return nil
}

// Default returns the configuration used for every field the YAML file and
// the environment leave unset.
func Default() *Config {
	c := &Config{}
	c.Chart.TrendWindow = 3
	c.Chart.Timezone = "UTC"
	c.Chart.LabelLayout = "2006-01-02 15:00"
	c.Schedule.RefreshCron = "0 */10 * * * *"
	c.Database.Lookback = 24 * time.Hour
	c.Database.TopLimit = 10
	c.DataSource.RequestsPerSec = 2
	c.Log.Level = "info"
	c.Log.Env = "development"
	return c
}

// normalize fills blank strings that would otherwise break start-up and
// canonicalises the watchlist. Numbers are left alone so Validate sees them.
func (c *Config) normalize() {
	if c.Chart.Timezone == "" {
		c.Chart.Timezone = "UTC"
	}
	if c.Chart.LabelLayout == "" {
		c.Chart.LabelLayout = "2006-01-02 15:00"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */10 * * * *"
	}
	watchlist := c.Watchlist[:0]
	for _, coin := range c.Watchlist {
		if coin = strings.ToUpper(strings.TrimSpace(coin)); coin != "" {
			watchlist = append(watchlist, coin)
		}
	}
	c.Watchlist = watchlist
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Chart.TrendWindow < 1 {
		return fmt.Errorf("chart.trend_window must be >= 1, got %d", c.Chart.TrendWindow)
	}
	if c.Database.Lookback < 0 {
		return fmt.Errorf("database.lookback must not be negative, got %s", c.Database.Lookback)
	}
	if c.Database.TopLimit < 1 {
		return fmt.Errorf("database.top_limit must be >= 1, got %d", c.Database.TopLimit)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("chart.timezone: %w", err)
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must name at least one coin")
	}
	if c.Database.SQLitePath == "" && c.DataSource.BaseURL == "" && !c.DataSource.Mock {
		return fmt.Errorf("one of database.sqlite_path, data_source.base_url or data_source.mock is required")
	}
	return nil
}

// TelegramEnabled reports whether both bot credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Location resolves the chart timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Chart.Timezone)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
