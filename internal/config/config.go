package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 用于管理应用配置。配置只在启动时加载一次，之后以 *Config 的形式显式传递给各组件。

const (
	defaultSessionSecret = "picvote_session_secret"
	defaultJWTSecret     = "picvote_jwt_secret"
	envPrefix            = "PICVOTE"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Upload   UploadConfig   `mapstructure:"upload"`
	S3       S3Config       `mapstructure:"s3"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	// Dir 为实际使用的配置目录
	Dir string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type SessionConfig struct {
	Secret        string `mapstructure:"secret"`
	Name          string `mapstructure:"name"`
	MaxAgeSeconds int    `mapstructure:"max_age_seconds"`
	Secure        bool   `mapstructure:"secure"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type UploadConfig struct {
	Driver    string `mapstructure:"driver"` // local, s3
	Path      string `mapstructure:"path"`
	URLPrefix string `mapstructure:"url_prefix"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicURL       string `mapstructure:"public_url"`
	KeyPrefix       string `mapstructure:"key_prefix"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsRelease 是否运行在生产模式
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

// Load 读取配置文件与环境变量并返回配置快照。
// 找不到配置文件时仅使用环境变量和默认值。
func Load(customConfigDir string) (*Config, error) {
	v, dir, err := initViper(customConfigDir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	// 将配置映射到结构体
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}
	cfg.Dir = dir

	if err := applySecretSafety(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func initViper(customConfigDir string) (*viper.Viper, string, error) {
	v := viper.New()

	configDir := strings.TrimSpace(customConfigDir)
	if configDir == "" {
		configDir = "config"
	}

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, "", fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 配置环境变量覆盖
	// 规则：所有环境变量必须以 PICVOTE_ 开头
	// 例如：yaml 中的 server.port 对应环境变量 PICVOTE_SERVER_PORT
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// 将 key 中的 "." 替换为 "_"，这样 server.port 才能匹配 SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v, configDir, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/picvote.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "picvote")
	v.SetDefault("database.ssl", false)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.name", "picvote_session")
	v.SetDefault("session.max_age_seconds", 14*24*3600)
	v.SetDefault("session.secure", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.path", "uploads/media")
	v.SetDefault("upload.url_prefix", "/media/")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.public_url", "")
	v.SetDefault("s3.key_prefix", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "picvote")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// applySecretSafety 生产模式下拒绝空的或默认的密钥；开发模式下补上默认密钥。
func applySecretSafety(cfg *Config) error {
	if cfg.IsRelease() {
		if cfg.Session.Secret == "" || cfg.Session.Secret == defaultSessionSecret {
			return errors.New("生产模式(release)下必须设置安全的 session secret (PICVOTE_SESSION_SECRET)")
		}
		if cfg.JWT.Secret == "" || cfg.JWT.Secret == defaultJWTSecret {
			return errors.New("生产模式(release)下必须设置安全的 JWT secret (PICVOTE_JWT_SECRET)")
		}
		return nil
	}

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = defaultSessionSecret
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = defaultJWTSecret
	}
	return nil
}
