package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Academic    AcademicConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Transcripts TranscriptConfig
	Auth        AuthConfig
}

// AcademicConfig carries the institutional enrollment policy. The values
// are passed into the rule engine at construction time; nothing reads
// them globally.
type AcademicConfig struct {
	MaxCreditsPerSemester int
	MinCreditsPerSemester int
	DropDeadline          time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TranscriptConfig tunes transcript rendering, caching and archival.
// An empty ArchiveDir disables the official-transcript archive.
type TranscriptConfig struct {
	CacheTTL         time.Duration
	Institution      string
	ArchiveDir       string
	ArchiveRetention time.Duration
}

// AuthConfig seeds the registrar accounts allowed to mutate records.
// Format: email:bcrypt-hash pairs separated by commas.
type AuthConfig struct {
	Users []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Academic = AcademicConfig{
		MaxCreditsPerSemester: v.GetInt("MAX_CREDITS_PER_SEMESTER"),
		MinCreditsPerSemester: v.GetInt("MIN_CREDITS_PER_SEMESTER"),
		DropDeadline:          parseDuration(v.GetString("DROP_DEADLINE"), 168*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		Enabled:  v.GetBool("REDIS_ENABLED"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Transcripts = TranscriptConfig{
		CacheTTL:         parseDuration(v.GetString("TRANSCRIPT_CACHE_TTL"), 5*time.Minute),
		Institution:      v.GetString("INSTITUTION_NAME"),
		ArchiveDir:       v.GetString("TRANSCRIPT_ARCHIVE_DIR"),
		ArchiveRetention: parseDuration(v.GetString("TRANSCRIPT_ARCHIVE_RETENTION"), 0),
	}

	cfg.Auth = AuthConfig{
		Users: splitAndTrim(v.GetString("REGISTRAR_USERS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("MAX_CREDITS_PER_SEMESTER", 18)
	v.SetDefault("MIN_CREDITS_PER_SEMESTER", 12)
	v.SetDefault("DROP_DEADLINE", "168h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_ENABLED", false)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "ccrm-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TRANSCRIPT_CACHE_TTL", "5m")
	v.SetDefault("INSTITUTION_NAME", "Campus Course & Records Manager")
	v.SetDefault("TRANSCRIPT_ARCHIVE_DIR", "")
	v.SetDefault("TRANSCRIPT_ARCHIVE_RETENTION", "0s")

	v.SetDefault("REGISTRAR_USERS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
