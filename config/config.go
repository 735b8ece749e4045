package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me"

type Config struct {
	Environment  string // ENV: production, development, test
	Port         string
	MongoURI     string
	DatabaseName string
	RedisURI     string // empty disables the geocode cache

	JWTSecret       string
	JWTExpire       time.Duration
	JWTCookieExpire time.Duration

	MailgunDomain string
	MailgunAPIKey string
	FromEmail     string
	FromName      string

	GeocoderProvider string
	GeocoderAPIKey   string

	StorageDriver  string // local, gcs, r2, cloudinary
	FileUploadPath string
	MaxFileUpload  int64

	GCSBucket               string
	CredentialsFileLocation string

	R2Bucket          string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Endpoint        string
	R2PublicDomain    string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	AdminName     string // defaults to the local part of AdminEmail
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		Environment:  strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		Port:         getEnv("PORT", "5000"),
		MongoURI:     getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017")),
		DatabaseName: getEnv("DATABASE_NAME", "devcamper"),
		RedisURI:     getEnv("REDIS_URI", ""),

		JWTSecret:       getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpire:       ParseDuration(getEnv("JWT_EXPIRE", "30d"), 30*24*time.Hour),
		JWTCookieExpire: time.Duration(getEnvInt("JWT_COOKIE_EXPIRE", 30)) * 24 * time.Hour,

		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		FromEmail:     getEnv("FROM_EMAIL", "noreply@devcamper.io"),
		FromName:      getEnv("FROM_NAME", "DevCamper"),

		GeocoderProvider: getEnv("GEOCODER_PROVIDER", "mapquest"),
		GeocoderAPIKey:   getEnv("GEOCODER_API_KEY", ""),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		FileUploadPath: getEnv("FILE_UPLOAD_PATH", "./public/uploads"),
		MaxFileUpload:  int64(getEnvInt("MAX_FILE_UPLOAD", 1000000)),

		GCSBucket:               getEnv("GCS_BUCKET", ""),
		CredentialsFileLocation: getEnv("CREDENTIALS_FILE_LOCATION", ""),

		R2Bucket:          getEnv("R2_BUCKET", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Endpoint:        getEnv("R2_ENDPOINT", ""),
		R2PublicDomain:    getEnv("R2_PUBLIC_DOMAIN", ""),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		AllowedOrigins:    parseList(getEnv("ALLOWED_ORIGINS", "")),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   ParseDuration(getEnv("RATE_LIMIT_WINDOW", "10m"), 10*time.Minute),

		AdminName:     strings.TrimSpace(getEnv("ADMIN_NAME", "")),
		AdminEmail:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects settings that are unsafe to run with.
func (c *Config) Validate() error {
	if c.IsProduction() && (strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// ParseDuration accepts Go durations plus a "d" suffix for days ("30d").
// Unparseable or non-positive values fall back to def.
func ParseDuration(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return def
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
