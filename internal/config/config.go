package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Centrifugo CentrifugoConfig `mapstructure:"centrifugo"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Realtime   RealtimeConfig   `mapstructure:"realtime"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Port     int    `mapstructure:"port"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=Asia/Ho_Chi_Minh",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// CentrifugoConfig để trống URL thì không đẩy thông báo qua Centrifugo
type CentrifugoConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// Enabled có cấu hình Centrifugo hay không
func (c *CentrifugoConfig) Enabled() bool {
	return c.URL != ""
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessDuration  time.Duration `mapstructure:"access_duration"`
	RefreshDuration time.Duration `mapstructure:"refresh_duration"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RealtimeConfig cấu hình websocket hub
type RealtimeConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SchedulerConfig cấu hình job chạy định kỳ
type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// PromotionExpiryAt giờ chạy job tắt khuyến mãi hết hạn (HH:MM)
	PromotionExpiryAt string `mapstructure:"promotion_expiry_at"`
}

// IsProduction checks if app is in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment checks if app is in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Location trả về múi giờ của phòng khám
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// envBindings biến môi trường ghi đè từng key của file config
var envBindings = map[string]string{
	"app.name":                      "APP_NAME",
	"app.env":                       "APP_ENV",
	"app.port":                      "APP_PORT",
	"app.timezone":                  "APP_TIMEZONE",
	"database.host":                 "DB_HOST",
	"database.port":                 "DB_PORT",
	"database.user":                 "DB_USER",
	"database.password":             "DB_PASSWORD",
	"database.name":                 "DB_NAME",
	"database.ssl_mode":             "DB_SSL_MODE",
	"centrifugo.url":                "CENTRIFUGO_URL",
	"centrifugo.api_key":            "CENTRIFUGO_API_KEY",
	"jwt.secret":                    "JWT_SECRET",
	"logging.level":                 "LOG_LEVEL",
	"logging.format":                "LOG_FORMAT",
	"cors.allowed_origins":          "CORS_ALLOWED_ORIGINS",
	"realtime.enabled":              "REALTIME_ENABLED",
	"scheduler.enabled":             "SCHEDULER_ENABLED",
	"scheduler.promotion_expiry_at": "SCHEDULER_PROMOTION_EXPIRY_AT",
}

// Load đọc file YAML rồi ghi đè bằng biến môi trường (.env được nạp trước nếu có)
// Trong file có thể viết ${VAR:mặc_định}
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewReader([]byte(expandEnv(string(raw))))); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// expandEnv thay ${VAR} và ${VAR:default}
func expandEnv(s string) string {
	return os.Expand(s, func(token string) string {
		name, def, _ := strings.Cut(token, ":")
		if val, ok := os.LookupEnv(name); ok && val != "" {
			return val
		}
		return def
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("realtime.enabled", true)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.promotion_expiry_at", "00:05")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if cfg.JWT.AccessDuration == 0 {
		cfg.JWT.AccessDuration = 15 * time.Minute
	}
	if cfg.JWT.RefreshDuration == 0 {
		cfg.JWT.RefreshDuration = 168 * time.Hour
	}
	if cfg.Realtime.SendBuffer == 0 {
		cfg.Realtime.SendBuffer = 16
	}
	if cfg.Realtime.PingInterval == 0 {
		cfg.Realtime.PingInterval = 30 * time.Second
	}
	if cfg.Realtime.WriteTimeout == 0 {
		cfg.Realtime.WriteTimeout = 10 * time.Second
	}
}

// Validate kiểm tra các giá trị bắt buộc
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.App.Port)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}

	if c.Scheduler.Enabled {
		if _, err := time.Parse("15:04", c.Scheduler.PromotionExpiryAt); err != nil {
			return fmt.Errorf("invalid scheduler.promotion_expiry_at %q", c.Scheduler.PromotionExpiryAt)
		}
	}

	return nil
}
