// Package config loads the application configuration from defaults, an
// optional YAML file, SCHEDULE_OCR_* environment variables and the OS
// keyring.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: SCHEDULE_OCR_OCR_ENGINE sets ocr.engine.
const EnvPrefix = "SCHEDULE_OCR"

// OCR engine names.
const (
	EngineTesseract = "tesseract"
	EngineOCRSpace  = "ocrspace"
	EngineGemini    = "gemini"
)

// Config holds all configuration values.
type Config struct {
	Env      string         `mapstructure:"env"`
	Log      LogConfig      `mapstructure:"log"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	OCRSpace OCRSpaceConfig `mapstructure:"ocrspace"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OCRConfig struct {
	Engine         string  `mapstructure:"engine"`
	Language       string  `mapstructure:"language"`
	TessdataPrefix string  `mapstructure:"tessdata_prefix"`
	Scale          float64 `mapstructure:"scale"`
	Preprocess     bool    `mapstructure:"preprocess"`

	// RatePerSecond throttles remote engines. 0 disables throttling.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

type OCRSpaceConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// RedisConfig configures the recognition cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ExtractConfig struct {
	Attempts     int      `mapstructure:"attempts"`
	ExpandFactor float64  `mapstructure:"expand_factor"`
	Columns      []string `mapstructure:"columns"`
}

type CalendarConfig struct {
	Title  string `mapstructure:"title"`
	DBPath string `mapstructure:"db_path"`
	ICSDir string `mapstructure:"ics_dir"`
}

type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("ocr.engine", EngineTesseract)
	v.SetDefault("ocr.language", "fra")
	v.SetDefault("ocr.tessdata_prefix", "")
	v.SetDefault("ocr.scale", 2.0)
	v.SetDefault("ocr.preprocess", true)
	v.SetDefault("ocr.rate_per_second", 0.0)
	v.SetDefault("ocr.burst", 1)

	v.SetDefault("ocrspace.endpoint", "https://api.ocr.space/parse/image")
	v.SetDefault("ocrspace.api_key", "")
	v.SetDefault("ocrspace.language", "fre")
	v.SetDefault("ocrspace.timeout", 30*time.Second)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("extract.attempts", 5)
	v.SetDefault("extract.expand_factor", 0.03)
	v.SetDefault("extract.columns", dayNames(schedule.DefaultColumnOrder()))

	v.SetDefault("calendar.title", "Travail")
	v.SetDefault("calendar.db_path", DefaultDBPath())
	v.SetDefault("calendar.ics_dir", DefaultICSDir())

	v.SetDefault("http.addr", "127.0.0.1:8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000"})
}

// Load reads the configuration. When path is empty, schedule-ocr.yaml is
// looked up in ".", "./config" and DefaultConfigDir; a missing file is not
// an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate clamps numeric settings to safe values and rejects settings that
// cannot be fixed.
func (c *Config) Validate() error {
	switch c.OCR.Engine {
	case EngineTesseract, EngineOCRSpace, EngineGemini:
	default:
		return fmt.Errorf("unknown ocr.engine %q", c.OCR.Engine)
	}
	if c.OCR.Scale <= 0 || c.OCR.Scale > 8 {
		c.OCR.Scale = 2.0
	}
	if c.OCR.RatePerSecond < 0 {
		c.OCR.RatePerSecond = 0
	}
	if c.OCR.Burst < 1 {
		c.OCR.Burst = 1
	}
	if c.OCRSpace.Timeout <= 0 {
		c.OCRSpace.Timeout = 30 * time.Second
	}
	if c.Extract.Attempts < 1 {
		c.Extract.Attempts = 5
	}
	if c.Extract.ExpandFactor <= 0 || c.Extract.ExpandFactor > 0.5 {
		c.Extract.ExpandFactor = 0.03
	}
	if len(c.Extract.Columns) == 0 {
		c.Extract.Columns = dayNames(schedule.DefaultColumnOrder())
	}
	if _, err := schedule.ParseColumnOrder(c.Extract.Columns); err != nil {
		return fmt.Errorf("invalid extract.columns: %w", err)
	}
	if c.Calendar.Title == "" {
		c.Calendar.Title = "Travail"
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	return nil
}

// ColumnOrder returns the validated column-to-day mapping.
func (c *Config) ColumnOrder() []schedule.Day {
	order, err := schedule.ParseColumnOrder(c.Extract.Columns)
	if err != nil {
		return schedule.DefaultColumnOrder()
	}
	return order
}

// IsProduction reports whether Env is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func dayNames(days []schedule.Day) []string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = string(d)
	}
	return names
}
