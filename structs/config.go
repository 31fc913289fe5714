package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Database *DatabaseConfig
	Auth     *AuthConfig
	Email    *EmailConfig
	PayPal   *PayPalConfig
	Storage  *StorageConfig
	Cache    *CacheConfig
}

type ServerConfig struct {
	AppName        string        // Abadas
	Environment    string        // development, production
	Port           string        // :8082
	ServerURL      string        // public base URL, used for payment return/cancel URLs
	FrontendURL    string        // storefront base URL
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration // in seconds
	MaxIdleTime  time.Duration // in seconds
	ReadTimeout  time.Duration // in seconds
	WriteTimeout time.Duration // in seconds
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

type EmailConfig struct {
	ApiKey string
	From   string
	// AdminAddress receives the back-office notification for every new order.
	AdminAddress string
}

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Mode         string // sandbox or live
	Currency     string
}

type StorageConfig struct {
	UploadDir string // local directory for product images and payment proofs
	BaseURL   string // public URL prefix the stored files are served under
}

type CacheConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TrendingTTL  time.Duration // how long the trending product ranking is cached
}
