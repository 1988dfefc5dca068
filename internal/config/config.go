package config

import (
	"fmt"
	"strings"

	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/sheet"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Order    OrderConfig    `mapstructure:"order"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Stdout     bool   `mapstructure:"stdout"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Stdout:     c.Stdout,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver         string             `mapstructure:"driver"`          // sqlite / postgres / mysql
	DSN            string             `mapstructure:"dsn"`             // 数据库连接串
	EnsureDatabase bool               `mapstructure:"ensure_database"` // postgres 目标库不存在时自动创建
	Pool           DatabasePoolConfig `mapstructure:"pool"`
}

// 会话模式
const (
	SessionModeStatic = "static"
	SessionModeSigned = "signed"
)

// AdminConfig 管理员凭据与会话配置
type AdminConfig struct {
	Login                string `mapstructure:"login"`
	Password             string `mapstructure:"password"`
	PasswordHash         string `mapstructure:"password_hash"` // 设置后优先使用 bcrypt 校验
	SessionCookie        string `mapstructure:"session_cookie"`
	SessionMaxAgeSeconds int    `mapstructure:"session_max_age_seconds"`
	SessionMode          string `mapstructure:"session_mode"` // static / signed
}

// JWTConfig JWT 配置（signed 会话模式使用）
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// CaptchaConfig 登录图片验证码配置
type CaptchaConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Length        int  `mapstructure:"length"`
	Width         int  `mapstructure:"width"`
	Height        int  `mapstructure:"height"`
	NoiseCount    int  `mapstructure:"noise_count"`
	ShowLine      int  `mapstructure:"show_line"`
	ExpireSeconds int  `mapstructure:"expire_seconds"`
	MaxStore      int  `mapstructure:"max_store"`
}

// OrderConfig 订单默认值
type OrderConfig struct {
	DefaultRows          int    `mapstructure:"default_rows"`
	MaxRows              int    `mapstructure:"max_rows"`
	UnitPcsLabel         string `mapstructure:"unit_pcs_label"`
	UnitCurrencyLabel    string `mapstructure:"unit_currency_label"`
	OrderCacheTTLSeconds int    `mapstructure:"order_cache_ttl_seconds"`
}

// PricingConfig 默认单价（十进制字符串）
type PricingConfig struct {
	Jersey            string `mapstructure:"jersey"`
	JerseySublimated  string `mapstructure:"jersey_sublimated"`
	JerseyEmbroidered string `mapstructure:"jersey_embroidered"`
	JerseyComplex     string `mapstructure:"jersey_complex"`
	Shorts            string `mapstructure:"shorts"`
	Socks             string `mapstructure:"socks"`
	Caps              string `mapstructure:"caps"`
}

// PriceBook 转换为价格表，无法解析的项保留内置默认值
func (c PricingConfig) PriceBook() sheet.PriceBook {
	book := sheet.DefaultPriceBook()
	assign := func(raw string, target *decimal.Decimal) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			*target = d
		}
	}
	assign(c.Jersey, &book.Jersey)
	assign(c.JerseySublimated, &book.JerseySublimated)
	assign(c.JerseyEmbroidered, &book.JerseyEmbroidered)
	assign(c.JerseyComplex, &book.JerseyComplex)
	assign(c.Shorts, &book.Shorts)
	assign(c.Socks, &book.Socks)
	assign(c.Caps, &book.Caps)
	return book
}

// ExportConfig 导出配置
type ExportConfig struct {
	ArchiveDir string `mapstructure:"archive_dir"`
	Brand      string `mapstructure:"brand"`
	LogoURL    string `mapstructure:"logo_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.stdout", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "orders.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/orders.db")
	v.SetDefault("database.ensure_database", false)
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("admin.login", "admin")
	v.SetDefault("admin.password", "admin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.session_cookie", "nt_admin")
	v.SetDefault("admin.session_max_age_seconds", 86400)
	v.SetDefault("admin.session_mode", SessionModeStatic)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "nt")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"default": 10,
		"export":  5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 10)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("captcha.enabled", false)
	v.SetDefault("captcha.length", 5)
	v.SetDefault("captcha.width", 240)
	v.SetDefault("captcha.height", 80)
	v.SetDefault("captcha.noise_count", 2)
	v.SetDefault("captcha.show_line", 2)
	v.SetDefault("captcha.expire_seconds", 300)
	v.SetDefault("captcha.max_store", 10240)
	v.SetDefault("order.default_rows", 20)
	v.SetDefault("order.max_rows", 500)
	v.SetDefault("order.unit_pcs_label", "pcs")
	v.SetDefault("order.unit_currency_label", "EUR")
	v.SetDefault("order.order_cache_ttl_seconds", 600)
	v.SetDefault("pricing.jersey", "21.90")
	v.SetDefault("pricing.jersey_sublimated", "35")
	v.SetDefault("pricing.jersey_embroidered", "72")
	v.SetDefault("pricing.jersey_complex", "82")
	v.SetDefault("pricing.shorts", "7.70")
	v.SetDefault("pricing.socks", "0")
	v.SetDefault("pricing.caps", "0")
	v.SetDefault("export.archive_dir", "./exports")
	v.SetDefault("export.brand", "NinetyTwo")
	v.SetDefault("export.logo_url", "")
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // 从当前目录查找
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	setDefaults(v)

	// 环境变量支持
	v.AutomaticEnv()                                   // 自动读取环境变量
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := decode(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// Defaults 仅含默认值与环境变量的配置（命令行工具与测试使用）
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Admin.SessionMode = strings.ToLower(strings.TrimSpace(cfg.Admin.SessionMode))
	if cfg.Admin.SessionMode != SessionModeSigned {
		cfg.Admin.SessionMode = SessionModeStatic
	}
	if strings.TrimSpace(cfg.Admin.SessionCookie) == "" {
		cfg.Admin.SessionCookie = "nt_admin"
	}
	if cfg.Admin.SessionMaxAgeSeconds <= 0 {
		cfg.Admin.SessionMaxAgeSeconds = 86400
	}
	return &cfg, nil
}
