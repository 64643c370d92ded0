package config

import (
	"errors"
	"io/fs"
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
	Env             string
	Port            int
	APIPrefix       string
	LegacyAPIPrefix string
	PublicBaseURL   string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scoring   ScoringConfig
	Messaging MessagingConfig
	Identity  IdentityConfig
	Photos    PhotosConfig
	Jobs      JobsConfig
	Alerts    AlertsConfig
	Cache     CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	// SessionRole is switched to (SET LOCAL ROLE) for caller-scoped statements when non-empty.
	SessionRole string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ScoringConfig configures the generative-language scoring client.
type ScoringConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// AutoScore enqueues a scoring job for every newly created registration.
	AutoScore bool
}

// MessagingConfig holds the UltraMsg instance credentials.
type MessagingConfig struct {
	InstanceID string
	Token      string
	BaseURL    string
	Timeout    time.Duration
	Message    string
	GuardTTL   time.Duration
}

// Configured reports whether both instance id and token are present.
func (m MessagingConfig) Configured() bool {
	return m.InstanceID != "" && m.Token != ""
}

// IdentityConfig configures access-token resolution and the admin allow-list.
type IdentityConfig struct {
	URL         string
	AnonKey     string
	JWTSecret   string
	Timeout     time.Duration
	AdminEmails []string
	CacheTTL    time.Duration
}

// PhotosConfig controls applicant photo storage and signed access.
type PhotosConfig struct {
	StorageDir       string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
}

// JobsConfig sizes the background scoring worker pool.
type JobsConfig struct {
	ScoringWorkers int
	ScoringBuffer  int
}

// AlertsConfig enables Telegram alerts for administrators.
type AlertsConfig struct {
	TelegramToken   string
	TelegramChatIDs []string
}

// CacheConfig tunes Redis cache TTLs.
type CacheConfig struct {
	StatsTTL time.Duration
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.LegacyAPIPrefix = v.GetString("LEGACY_API_PREFIX")
	cfg.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		SessionRole:  v.GetString("DB_SESSION_ROLE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scoring = ScoringConfig{
		APIKey:    v.GetString("GEMINI_API_KEY"),
		Model:     v.GetString("GEMINI_MODEL"),
		BaseURL:   v.GetString("GEMINI_BASE_URL"),
		Timeout:   parseDuration(v.GetString("SCORING_TIMEOUT"), 30*time.Second),
		AutoScore: v.GetBool("ENABLE_AUTO_SCORING"),
	}

	cfg.Messaging = MessagingConfig{
		InstanceID: v.GetString("ULTRAMSG_INSTANCE_ID"),
		Token:      v.GetString("ULTRAMSG_TOKEN"),
		BaseURL:    strings.TrimRight(v.GetString("ULTRAMSG_BASE_URL"), "/"),
		Timeout:    parseDuration(v.GetString("ULTRAMSG_TIMEOUT"), 15*time.Second),
		Message:    v.GetString("APPROVAL_MESSAGE"),
		GuardTTL:   parseDuration(v.GetString("NOTIFY_GUARD_TTL"), time.Minute),
	}

	cfg.Identity = IdentityConfig{
		URL:         strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		AnonKey:     v.GetString("SUPABASE_ANON_KEY"),
		JWTSecret:   v.GetString("SUPABASE_JWT_SECRET"),
		Timeout:     parseDuration(v.GetString("IDENTITY_TIMEOUT"), 10*time.Second),
		AdminEmails: splitAndTrim(v.GetString("ADMIN_EMAILS")),
		CacheTTL:    parseDuration(v.GetString("IDENTITY_CACHE_TTL"), 30*time.Second),
	}

	maxPhotoSize := v.GetInt64("PHOTOS_MAX_FILE_SIZE")
	if maxPhotoSize <= 0 {
		maxPhotoSize = 5 * 1024 * 1024
	}
	cfg.Photos = PhotosConfig{
		StorageDir:       v.GetString("PHOTOS_STORAGE_DIR"),
		MaxFileSizeBytes: maxPhotoSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("PHOTOS_ALLOWED_MIME_TYPES")),
		SignedURLSecret:  v.GetString("PHOTOS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("PHOTOS_SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.Jobs = JobsConfig{
		ScoringWorkers: v.GetInt("SCORING_WORKERS"),
		ScoringBuffer:  v.GetInt("SCORING_QUEUE_BUFFER"),
	}

	cfg.Alerts = AlertsConfig{
		TelegramToken:   v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatIDs: splitAndTrim(v.GetString("TELEGRAM_ALERT_CHAT_IDS")),
	}

	cfg.Cache = CacheConfig{
		StatsTTL: parseDuration(v.GetString("STATS_CACHE_TTL"), 2*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("LEGACY_API_PREFIX", "/api")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "orema_camp")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_SESSION_ROLE", "")

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "")
	v.SetDefault("SCORING_TIMEOUT", "30s")
	v.SetDefault("ENABLE_AUTO_SCORING", true)

	v.SetDefault("ULTRAMSG_INSTANCE_ID", "")
	v.SetDefault("ULTRAMSG_TOKEN", "")
	v.SetDefault("ULTRAMSG_BASE_URL", "https://api.ultramsg.com")
	v.SetDefault("ULTRAMSG_TIMEOUT", "15s")
	v.SetDefault("APPROVAL_MESSAGE", "🎉 Congratulations! You have been approved for the event. See you at OREMA Camping Tanger!")
	v.SetDefault("NOTIFY_GUARD_TTL", "1m")

	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("SUPABASE_JWT_SECRET", "")
	v.SetDefault("IDENTITY_TIMEOUT", "10s")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("IDENTITY_CACHE_TTL", "30s")

	v.SetDefault("PHOTOS_STORAGE_DIR", "./photos")
	v.SetDefault("PHOTOS_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("PHOTOS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/gif,image/webp")
	v.SetDefault("PHOTOS_SIGNED_URL_SECRET", "dev_photos_secret")
	v.SetDefault("PHOTOS_SIGNED_URL_TTL", "30m")

	v.SetDefault("SCORING_WORKERS", 2)
	v.SetDefault("SCORING_QUEUE_BUFFER", 32)

	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_ALERT_CHAT_IDS", "")

	v.SetDefault("STATS_CACHE_TTL", "2m")
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
