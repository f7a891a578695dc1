package config

import (
	"errors"
	"strings"
	"time"

	"github.com/donorhub/dhs/internal/logger"
	"github.com/spf13/viper"
)

// DefaultJWTSecret 仅供本地开发的默认签名密钥
const DefaultJWTSecret = "change-me"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Events    EventsConfig    `mapstructure:"events"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	Export    ExportConfig    `mapstructure:"export"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres, sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite 文件路径或 DSN
	LogLevel string `mapstructure:"log_level"`
}

// AuthConfig 令牌签发配置
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// EventsConfig 捐赠后置钩子的协程池配置
type EventsConfig struct {
	Workers int `mapstructure:"workers"`
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// ExportConfig 捐赠导出配置
type ExportConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Prefix   string `mapstructure:"prefix"`
	Endpoint string `mapstructure:"endpoint"` // 兼容 S3 的自定义端点，可为空
	Interval int    `mapstructure:"interval"` // 秒
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// InsecureSecret 是否仍在使用默认或空的签名密钥
func (a AuthConfig) InsecureSecret() bool {
	return a.JWTSecret == "" || a.JWTSecret == DefaultJWTSecret
}

// Validate 启动前检查配置，release 模式下拒绝默认签名密钥
func (c *Config) Validate() error {
	if c.Auth.InsecureSecret() {
		if strings.EqualFold(c.Server.Mode, "release") {
			return errors.New("auth.jwt_secret must be set in release mode")
		}
		logger.Warn("auth.jwt_secret is not set, tokens are signed with the development default")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "donorhub")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "donorhub.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("events.workers", 16)
	v.SetDefault("scheduler.interval", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("export.enabled", false)
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.region", "us-east-1")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.prefix", "exports")
	v.SetDefault("export.interval", 86400)
}

// Load 从配置文件和环境变量加载配置，configFile 为空时按默认路径查找
func Load(configFile string) *Config {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/donorhub")
	}

	// 设置默认值
	setDefaults(v)

	// 自动读取环境变量，例如 DONORHUB_DATABASE_HOST
	v.SetEnvPrefix("donorhub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Could not read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
