package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	ServerPort string
	AppEnv     string

	// 数据库
	DBDriver string // postgres | sqlite
	DBDSN    string

	// JWT
	JWTSecret string
	JWTIssuer string

	// 存储
	StorageProvider  string // s3 | local
	AWSBucket        string
	AWSRegion        string
	AWSAccessKey     string
	AWSSecretKey     string
	AWSCDNDomain     string
	StorageBasePath  string
	StoragePublicURL string

	// 远程 Seek API（为空时使用内嵌服务）
	RemoteURL   string
	RemoteToken string

	// 地理编码 & 通知
	GeocodeURL       string
	GeocodeCountry   string
	NotifyWebhookURL string

	// 会话 & 任务
	SessionTTL   time.Duration
	ReminderCron string
}

// Load 加载配置
// dotenvPath 不存在时仅读取环境变量
func Load(dotenvPath string) *Config {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil {
			log.Printf("[Config] 未加载 %s，使用环境变量: %v", dotenvPath, err)
		}
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),

		DBDriver: getEnv("DB_DRIVER", "postgres"),
		DBDSN:    getEnv("DB_DSN", "host=localhost user=seek password=seek dbname=seek port=5432 sslmode=disable"),

		JWTSecret: getEnv("JWT_SECRET", "seek-secret-key-change-in-production"),
		JWTIssuer: getEnv("JWT_ISSUER", "seek"),

		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		AWSBucket:        getEnv("AWS_BUCKET", ""),
		AWSRegion:        getEnv("AWS_REGION", ""),
		AWSAccessKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSCDNDomain:     getEnv("AWS_CDN_DOMAIN", ""),
		StorageBasePath:  getEnv("STORAGE_BASE_PATH", "seek"),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/uploads"),

		RemoteURL:   getEnv("SEEK_REMOTE_URL", ""),
		RemoteToken: getEnv("SEEK_REMOTE_TOKEN", ""),

		GeocodeURL:       getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeCountry:   getEnv("GEOCODE_COUNTRY", "sn"),
		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		SessionTTL:   getDuration("SESSION_TTL", 2*time.Hour),
		ReminderCron: getEnv("REMINDER_CRON", "0 0 8 * * *"),
	}
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RemoteMode 是否通过远程 API 访问数据
func (c *Config) RemoteMode() bool {
	return c.RemoteURL != ""
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// 兼容纯数字（秒）
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("[Config] %s 格式错误 (%s)，使用默认值 %v", key, value, defaultValue)
	return defaultValue
}
