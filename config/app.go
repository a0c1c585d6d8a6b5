package config

import "time"

// App is the typed view of the environment used to wire the service.
// Every collaborator block is optional; an empty block leaves that feature inert.
type App struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string
	TrustedProxies  []string // peers allowed to set X-Forwarded-For
	PublicDir       string

	Store     StoreConfig
	Auth      AuthConfig
	Email     EmailConfig
	SMS       SMSConfig
	Media     MediaConfig
	RateLimit RateLimitConfig
}

type StoreConfig struct {
	Driver string // mongo, postgres or memory

	MongoURI      string
	MongoDatabase string

	PostgresDSN      string
	PostgresReplicas []string
}

type AuthConfig struct {
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration
	SecureCookies     bool
}

type EmailConfig struct {
	ResendAPIKey  string
	FromEmail     string
	AutoReplyFrom string
	AdminEmail    string
	OwnerName     string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	AdminPhone string
}

type MediaConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type RateLimitConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Requests      int
	Window        time.Duration
}

// Configured reports whether a media host has been set up.
func (m MediaConfig) Configured() bool {
	return m.Bucket != "" && m.AccessKey != "" && m.SecretKey != ""
}

// Configured reports whether email delivery is possible.
func (e EmailConfig) Configured() bool {
	return e.ResendAPIKey != "" && e.FromEmail != ""
}

// Configured reports whether SMS delivery is possible.
func (s SMSConfig) Configured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != "" && s.AdminPhone != ""
}

// Load builds the typed configuration from an environment map.
func Load(c map[string]string) App {
	return App{
		Port:            GetString(c, "PORT", "8080"),
		ReadTimeout:     GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout:    GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:     GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS", []string{"http://localhost:3000"}),
		TrustedProxies:  GetList(c, "TRUSTED_PROXIES", nil),
		PublicDir:       GetString(c, "PUBLIC_DIR", "public"),
		Store: StoreConfig{
			Driver:           GetString(c, "STORE_DRIVER", "mongo"),
			MongoURI:         GetString(c, "MONGODB_URI", ""),
			MongoDatabase:    GetString(c, "MONGODB_DATABASE", "portfolio"),
			PostgresDSN:      GetString(c, "POSTGRES_DSN", ""),
			PostgresReplicas: GetList(c, "POSTGRES_REPLICA_DSNS", nil),
		},
		Auth: AuthConfig{
			AdminPassword:     GetString(c, "ADMIN_PASSWORD", ""),
			AdminPasswordHash: GetString(c, "ADMIN_PASSWORD_HASH", ""),
			SessionSecret:     GetString(c, "SESSION_SECRET", ""),
			SessionTTL:        GetSeconds(c, "SESSION_TTL_SECONDS", 24*60*60),
			SecureCookies:     GetBool(c, "SECURE_COOKIES", true),
		},
		Email: EmailConfig{
			ResendAPIKey:  GetString(c, "RESEND_API_KEY", ""),
			FromEmail:     GetString(c, "RESEND_FROM_EMAIL", ""),
			AutoReplyFrom: GetString(c, "RESEND_AUTOREPLY_FROM", GetString(c, "RESEND_FROM_EMAIL", "")),
			AdminEmail:    GetString(c, "ADMIN_EMAIL", ""),
			OwnerName:     GetString(c, "OWNER_NAME", "Garali Abdesslem"),
		},
		SMS: SMSConfig{
			AccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
			FromNumber: GetString(c, "TWILIO_FROM_NUMBER", ""),
			AdminPhone: GetString(c, "ADMIN_PHONE", ""),
		},
		Media: MediaConfig{
			Bucket:        GetString(c, "MEDIA_S3_BUCKET", ""),
			Region:        GetString(c, "MEDIA_S3_REGION", "auto"),
			Endpoint:      GetString(c, "MEDIA_S3_ENDPOINT", ""),
			AccessKey:     GetString(c, "MEDIA_S3_ACCESS_KEY", ""),
			SecretKey:     GetString(c, "MEDIA_S3_SECRET_KEY", ""),
			PublicBaseURL: GetString(c, "MEDIA_PUBLIC_BASE_URL", ""),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:     GetString(c, "REDIS_ADDR", ""),
			RedisPassword: GetString(c, "REDIS_PASSWORD", ""),
			RedisDB:       GetInt(c, "REDIS_DB", 0),
			Requests:      GetInt(c, "RATE_LIMIT_REQUESTS", 10),
			Window:        GetSeconds(c, "RATE_LIMIT_WINDOW_SECONDS", 60),
		},
	}
}
