package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Validation ValidationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds AWS S3 settings. An empty Bucket disables object storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	ReportPrefix  string `mapstructure:"report_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether a bucket is configured.
func (s *S3Config) Enabled() bool { return s.Bucket != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ValidationConfig holds the defaults for validation runs. Requests may
// override the per-run options.
type ValidationConfig struct {
	CountryCode    string   `mapstructure:"country_code"`
	Date           string   `mapstructure:"date"`
	VendorRules    bool     `mapstructure:"vendor_rules"`
	Thorough       bool     `mapstructure:"thorough"`
	Parallelism    int      `mapstructure:"parallelism"`
	MaxArchiveMB   int64    `mapstructure:"max_archive_mb"`
	SkipValidators []string `mapstructure:"skip_validators"`
}

// MaxArchiveBytes is the archive size limit in bytes.
func (v *ValidationConfig) MaxArchiveBytes() int64 {
	return v.MaxArchiveMB << 20
}

// RunConfig builds the read-only run configuration. Date, when set, replaces
// now as the current date.
func (v *ValidationConfig) RunConfig(now time.Time) (*validator.Config, error) {
	cfg := validator.DefaultConfig(now)
	if v.Date != "" {
		d, ok := table.ParseDate(v.Date)
		if !ok {
			return nil, fmt.Errorf("%w: date %q is not YYYYMMDD", domain.ErrInvalidOption, v.Date)
		}
		cfg.CurrentDate = d.Time()
	}
	if v.CountryCode != "" {
		region, err := language.ParseRegion(v.CountryCode)
		if err != nil || !region.IsCountry() {
			return nil, fmt.Errorf("%w: country code %q", domain.ErrInvalidOption, v.CountryCode)
		}
		cfg.CountryCode = region.String()
	}
	cfg.VendorRules = v.VendorRules
	cfg.Thorough = v.Thorough
	cfg.Skip = append([]string(nil), v.SkipValidators...)
	return cfg, nil
}

// Load reads configuration from environment variables with the GTFS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GTFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.report_prefix", "reports/")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Validation defaults
	v.SetDefault("validation.country_code", "")
	v.SetDefault("validation.date", "")
	v.SetDefault("validation.vendor_rules", false)
	v.SetDefault("validation.thorough", false)
	v.SetDefault("validation.parallelism", 4)
	v.SetDefault("validation.max_archive_mb", 512)
	v.SetDefault("validation.skip_validators", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "GTFS_SERVER_PORT",
		"server.read_timeout":        "GTFS_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "GTFS_SERVER_WRITE_TIMEOUT",
		"server.environment":         "GTFS_SERVER_ENVIRONMENT",
		"s3.region":                  "GTFS_S3_REGION",
		"s3.bucket":                  "GTFS_S3_BUCKET",
		"s3.endpoint":                "GTFS_S3_ENDPOINT",
		"s3.access_key":              "GTFS_S3_ACCESS_KEY",
		"s3.secret_key":              "GTFS_S3_SECRET_KEY",
		"s3.report_prefix":           "GTFS_S3_REPORT_PREFIX",
		"s3.presign_expiry":          "GTFS_S3_PRESIGN_EXPIRY",
		"log.level":                  "GTFS_LOG_LEVEL",
		"log.format":                 "GTFS_LOG_FORMAT",
		"cors.allowed_origins":       "GTFS_CORS_ALLOWED_ORIGINS",
		"validation.country_code":    "GTFS_VALIDATION_COUNTRY_CODE",
		"validation.date":            "GTFS_VALIDATION_DATE",
		"validation.vendor_rules":    "GTFS_VALIDATION_VENDOR_RULES",
		"validation.thorough":        "GTFS_VALIDATION_THOROUGH",
		"validation.parallelism":     "GTFS_VALIDATION_PARALLELISM",
		"validation.max_archive_mb":  "GTFS_VALIDATION_MAX_ARCHIVE_MB",
		"validation.skip_validators": "GTFS_VALIDATION_SKIP_VALIDATORS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set PORT. Use it if GTFS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GTFS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		ReportPrefix:  v.GetString("s3.report_prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Validation = ValidationConfig{
		CountryCode:    v.GetString("validation.country_code"),
		Date:           v.GetString("validation.date"),
		VendorRules:    v.GetBool("validation.vendor_rules"),
		Thorough:       v.GetBool("validation.thorough"),
		Parallelism:    v.GetInt("validation.parallelism"),
		MaxArchiveMB:   v.GetInt64("validation.max_archive_mb"),
		SkipValidators: splitList(v.GetString("validation.skip_validators")),
	}

	if cfg.Validation.MaxArchiveMB <= 0 {
		return nil, fmt.Errorf("validation.max_archive_mb must be positive, got %d", cfg.Validation.MaxArchiveMB)
	}
	if _, err := cfg.Validation.RunConfig(time.Now()); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
