package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	AllowOrigins []string

	// JWTSecret is deliberately not required at startup: a missing key is
	// reported as an internal error by the first operation that needs to
	// sign a token.
	JWTSecret      string
	GoogleAudience string

	LogstashTCPAddr string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOBucketProducts string
	MinIOPublicURL      string

	OTPTTL               time.Duration
	OTPResendCooldown    time.Duration
	ProductImageMaxBytes int64
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	otpTTL := 5 * time.Minute
	if v, err := time.ParseDuration(getenv("OTP_TTL", "5m")); err == nil && v > 0 {
		otpTTL = v
	}
	otpCooldown := time.Minute
	if v, err := time.ParseDuration(getenv("OTP_RESEND_COOLDOWN", "1m")); err == nil && v > 0 {
		otpCooldown = v
	}
	imageMax := int64(5 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("PRODUCT_IMAGE_MAX_BYTES", "5242880"), 10, 64); err == nil && v > 0 {
		imageMax = v
	}

	return Config{
		Port:                 getenv("PORT", "3000"),
		DatabaseURL:          must("DATABASE_URL"),
		AllowOrigins:         splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		JWTSecret:            getenv("JWT_SECRET", ""),
		GoogleAudience:       getenv("GOOGLE_AUDIENCE", ""),
		LogstashTCPAddr:      getenv("LOGSTASH_TCP_ADDR", ""),
		SMTPHost:             getenv("SMTP_HOST", ""),
		SMTPPort:             getenv("SMTP_PORT", ""),
		SMTPUsername:         getenv("SMTP_USERNAME", ""),
		SMTPPassword:         getenv("SMTP_PASSWORD", ""),
		SMTPFrom:             getenv("SMTP_FROM", ""),
		MinIOEndpoint:        getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketProducts:  getenv("MINIO_BUCKET_PRODUCTS", "truestyle-products"),
		MinIOPublicURL:       getenv("MINIO_PUBLIC_URL", ""),
		OTPTTL:               otpTTL,
		OTPResendCooldown:    otpCooldown,
		ProductImageMaxBytes: imageMax,
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
