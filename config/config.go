package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/models"
)

const devJWTSecret = "dev-secret-change-in-production"

// Config holds the project config values
type Config struct {
	URL             string
	DatabaseName    string
	BaseURL         string
	Port            string
	Environment     string
	JWTSecret       string
	TokenTTL        time.Duration
	CloudinaryURL   string
	SendgridAPIKey  string
	MailFrom        string
	RedisURL        string
	RateLimitRPM    int
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	UseTransactions bool
}

// New sets up all config related services
func New() *Config {
	// a missing .env is fine, the platform sets real env vars
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:             os.Getenv("DB_URI"),
		DatabaseName:    getEnv("DB_NAME", "crime_reports"),
		BaseURL:         os.Getenv("BASE_URL"),
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		JWTSecret:       getEnv("JWT_SECRET", devJWTSecret),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFrom:        getEnv("MAIL_FROM", "no-reply@crimereport.local"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RateLimitRPM:    getEnvInt("RATE_LIMIT_RPM", 120),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		UseTransactions: getEnv("DB_TRANSACTIONS", "false") == "true",
	}
}

// Validate checks the values that must be set before serving production traffic
func (c *Config) Validate() error {
	if c.Environment != "production" {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("DB_URI is required in production")
	}
	if c.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

type errorResponse struct {
	Response string           `json:"response"`
	Code     models.ErrorCode `json:"code,omitempty"`
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)

	resp := errorResponse{Response: fmt.Sprintf("%s, %v", message, err)}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		resp.Code = appErr.Code
	}
	b, _ := json.Marshal(resp)

	w.WriteHeader(httpStatusCode)
	w.Write(b)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
