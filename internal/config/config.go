package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server       ServerConfig       `env:",prefix=SERVER_"`
	Postgres     PostgresConfig     `env:",prefix=POSTGRES_"`
	Redis        RedisConfig        `env:",prefix=REDIS_"`
	JWT          JWTConfig          `env:",prefix=JWT_"`
	Cookie       CookieConfig       `env:",prefix=COOKIE_"`
	Security     SecurityConfig     `env:",prefix="`
	CORS         CORSConfig         `env:",prefix=CORS_"`
	AI           AIConfig           `env:",prefix=AI_"`
	Conversation ConversationConfig `env:",prefix=CONVERSATION_"`
	Env          string             `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=neuralfit"`
	Password string `env:"PASSWORD,default=neuralfit_password"`
	DBName   string `env:"DB,default=neuralfit_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	// AccessSecret signs access tokens. RefreshSecret keys the HMAC under
	// which refresh tokens are stored; the two must stay independent so a
	// database leak never yields usable bearer credentials.
	AccessSecret       string   `env:"ACCESS_SECRET,required"`
	RefreshSecret      string   `env:"REFRESH_SECRET,required"`
	AccessTokenExpiry  Duration `env:"ACCESS_TOKEN_EXPIRY,default=15m"`
	RefreshTokenExpiry Duration `env:"REFRESH_TOKEN_EXPIRY,default=7d"`
}

type CookieConfig struct {
	Secure   bool   `env:"SECURE,default=false"`
	SameSite string `env:"SAME_SITE,default=strict"`
	Domain   string `env:"DOMAIN,default="`
}

type SecurityConfig struct {
	BCryptCost        int      `env:"BCRYPT_COST,default=12"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization,X-Requested-With,Accept"`
}

type AIConfig struct {
	ServerURL         string   `env:"SERVER_URL,default=http://localhost:8008"`
	RequestTimeout    Duration `env:"REQUEST_TIMEOUT,default=30s"`
	MaxNewTokens      int      `env:"MAX_NEW_TOKENS,default=200"`
	Temperature       float64  `env:"TEMPERATURE,default=0.7"`
	TopP              float64  `env:"TOP_P,default=0.9"`
	RepetitionPenalty float64  `env:"REPETITION_PENALTY,default=1.2"`
	SystemPrompt      string   `env:"SYSTEM_PROMPT,default="`
}

type ConversationConfig struct {
	TTL           Duration `env:"TTL,default=24h"`
	SweepInterval Duration `env:"SWEEP_INTERVAL,default=1h"`
}

// DefaultSystemPrompt frames the assistant persona sent ahead of every
// conversation history.
const DefaultSystemPrompt = "You are a compassionate and professional AI therapist named NeuralFit. " +
	"Your role is to provide supportive, non-judgmental, and evidence-based responses to help users " +
	"with their mental well-being. Be empathetic, validate their feelings, and provide practical " +
	"guidance when appropriate. Always maintain professional boundaries and know when to recommend " +
	"seeking help from a licensed professional."

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// GenerateURL returns the inference endpoint URL
func (a AIConfig) GenerateURL() string {
	return a.ServerURL + "/generate"
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.JWT.AccessSecret) < 32 {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET must be at least 32 characters long")
	}
	if len(config.JWT.RefreshSecret) < 32 {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET must be at least 32 characters long")
	}

	if config.AI.SystemPrompt == "" {
		config.AI.SystemPrompt = DefaultSystemPrompt
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
