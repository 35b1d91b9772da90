package config

import (
	"errors"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and passed to the components that need it.
type Config struct {
	ServerPort string
	Env        string

	MongoURL  string
	MongoDB   string
	UserStore string
	MySQLDSN  string

	RedisAddr string
	RedisDB   int
	RedisPass string

	TokenSecret string
	CodeSecret  string
	HashWorkers int

	MailProvider   string
	MailFrom       string
	MailTimeout    time.Duration
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SendGridAPIKey string

	CORSOrigins []string
	LogFormat   string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("PORT", "8000"),
		Env:        getEnv("APP_ENV", getEnv("NODE_ENV", "development")),

		MongoURL:  getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "gursha"),
		UserStore: getEnv("USER_STORE", "mongo"),
		MySQLDSN:  os.Getenv("MYSQL_DSN"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		TokenSecret: os.Getenv("TOKEN_SECRET"),
		CodeSecret:  os.Getenv("HMAC_VERIFICATION_CODE_SECRET"),
		HashWorkers: getEnvInt("HASH_WORKERS", runtime.GOMAXPROCS(0)),

		MailProvider:   getEnv("MAIL_PROVIDER", "smtp"),
		MailFrom:       getEnv("MAIL_FROM", os.Getenv("NODE_CODE_SENDING_EMAIL_ADDRESS")),
		MailTimeout:    getEnvDuration("MAIL_TIMEOUT", 10*time.Second),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUsername:   getEnv("SMTP_USERNAME", os.Getenv("NODE_CODE_SENDING_EMAIL_ADDRESS")),
		SMTPPassword:   getEnv("SMTP_PASSWORD", os.Getenv("NODE_CODE_SENDING_EMAIL_PASSWORD")),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether cookies must be marked secure and httpOnly.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the secrets and backend choices are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.TokenSecret == "" {
		errs = append(errs, errors.New("TOKEN_SECRET is required"))
	}
	if c.CodeSecret == "" {
		errs = append(errs, errors.New("HMAC_VERIFICATION_CODE_SECRET is required"))
	}
	switch c.UserStore {
	case "mongo":
	case "mysql":
		if c.MySQLDSN == "" {
			errs = append(errs, errors.New("MYSQL_DSN is required when USER_STORE=mysql"))
		}
	default:
		errs = append(errs, errors.New("USER_STORE must be mongo or mysql"))
	}
	switch c.MailProvider {
	case "smtp", "sendgrid":
	default:
		errs = append(errs, errors.New("MAIL_PROVIDER must be smtp or sendgrid"))
	}
	if c.HashWorkers < 1 {
		errs = append(errs, errors.New("HASH_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
