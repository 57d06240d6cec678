package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	NATS      NATSConfig  // fan-out ของ task events ระหว่าง instances
	Redis     RedisConfig // cache task lists + revoked tokens (optional)
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	WebSocket WebSocketConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig ว่าง URL = ปิด cache
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
	TaskTTL  time.Duration
}

// NATSConfig ถ้าต่อไม่ได้จะ fallback เป็น in-process event bus
type NATSConfig struct {
	URL string // nats://localhost:4222
}

type JWTConfig struct {
	Secret         string
	ValidTime      int    // seconds, ใช้ทั้ง token expiry และ cookie max-age
	CookieName     string
	CookieSecure   bool
	CookieSameSite string // Lax, Strict, None
}

// TTL returns the token lifetime as a duration.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ValidTime) * time.Second
}

type CORSConfig struct {
	Origins string // comma-separated
	Methods string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type WebSocketConfig struct {
	EventsPerSecond float64 // rate limit ต่อ connection
	Burst           int
	PingInterval    time.Duration
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	maxOpen, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	maxIdle, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "5"))
	connLifetime := parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute)

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	taskTTL := parseDuration(getEnv("REDIS_TASK_TTL", "5m"), 5*time.Minute)

	validTime, err := strconv.Atoi(getEnv("JWT_VALID_TIME", "3600"))
	if err != nil {
		return nil, errors.New("JWT_VALID_TIME must be an integer number of seconds")
	}

	wsRate, err := strconv.ParseFloat(getEnv("WS_EVENTS_PER_SECOND", "10"), 64)
	if err != nil {
		wsRate = 10
	}
	wsBurst, err := strconv.Atoi(getEnv("WS_BURST", "20"))
	if err != nil {
		return nil, errors.New("WS_BURST must be an integer")
	}

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Task Tracker API"),
			Port: getEnv("APP_PORT", getEnv("PORT", "3001")),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "task_tracker"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: connLifetime,
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TaskTTL:  taskTTL,
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "your-secret-key"),
			ValidTime:      validTime,
			CookieName:     getEnv("JWT_COOKIE_NAME", "authentication"),
			CookieSecure:   getEnv("JWT_COOKIE_SECURE", "false") == "true",
			CookieSameSite: getEnv("JWT_COOKIE_SAMESITE", "Lax"),
		},
		CORS: CORSConfig{
			Origins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
			Methods: getEnv("CORS_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		WebSocket: WebSocketConfig{
			EventsPerSecond: wsRate,
			Burst:           wsBurst,
			PingInterval:    parseDuration(getEnv("WS_PING_INTERVAL", "30s"), 30*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate ตรวจค่าที่ขาดไม่ได้
func (c *Config) Validate() error {
	if c.JWT.ValidTime <= 0 {
		return errors.New("JWT_VALID_TIME must be positive")
	}
	if c.JWT.CookieName == "" {
		return errors.New("JWT_COOKIE_NAME must not be empty")
	}
	if c.WebSocket.EventsPerSecond > 0 && c.WebSocket.Burst < 1 {
		return errors.New("WS_BURST must be at least 1 when WS_EVENTS_PER_SECOND is set")
	}
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == "your-secret-key") {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
