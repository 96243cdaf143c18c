package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAuthEmailDomain = "nutricarewellness.in"
	defaultOTPTTL          = 5 * time.Minute
)

// Config holds everything the API reads from the environment.
type Config struct {
	AppEnv             string
	Port               string
	MongoURI           string
	MongoDatabase      string
	RedisURL           string
	JWTSecret          string
	TokenTTL           time.Duration
	AuthEmailDomain    string
	OTPTTL             time.Duration
	OTPCooldown        time.Duration
	OTPWindow          time.Duration
	OTPMaxPerWindow    int
	FCMProjectID       string
	FCMCredentialsFile string
	SentryDSN          string
	SentryEnvironment  string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// Load reads the configuration. Call godotenv before it if a .env file should be honoured.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("API_PORT", "8080"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDatabase:      os.Getenv("MONGO_DATABASE"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getDuration("TOKEN_TTL", 24*time.Hour),
		AuthEmailDomain:    getEnv("AUTH_EMAIL_DOMAIN", defaultAuthEmailDomain),
		OTPTTL:             getDuration("OTP_TTL", defaultOTPTTL),
		OTPCooldown:        getDuration("OTP_COOLDOWN", 30*time.Second),
		OTPWindow:          getDuration("OTP_WINDOW", 15*time.Minute),
		OTPMaxPerWindow:    getInt("OTP_MAX_PER_WINDOW", 5),
		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),
		FCMCredentialsFile: os.Getenv("FCM_CREDENTIALS_FILE"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		SentryEnvironment:  getEnv("SENTRY_ENVIRONMENT", "development"),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI must be set")
	}
	if cfg.MongoDatabase == "" {
		return Config{}, fmt.Errorf("MONGO_DATABASE must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.OTPTTL <= 0 {
		return Config{}, fmt.Errorf("OTP_TTL must be positive")
	}

	return cfg, nil
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsDevelopment reports whether the service runs with development defaults.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		var cleaned []string
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
