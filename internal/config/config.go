package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins []string

	JWT      JWTConfig
	Redis    RedisConfig
	Scylla   ScyllaConfig
	Stores   StoreConfig
	Checkout CheckoutConfig
	Stripe   StripeConfig
	SMTP     SMTPConfig
	Kafka    KafkaConfig
	UPI      UPIConfig
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
	Timeout  time.Duration
}

// StoreConfig selects the backend of each store: "redis"/"scylla" or "memory".
type StoreConfig struct {
	Users string
	Cart  string
}

type CheckoutConfig struct {
	PricingPolicy   string
	PaymentTimeout  time.Duration
	SimulatedDelay  time.Duration
	InFlightLockTTL time.Duration
}

type StripeConfig struct {
	SecretKey string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s SMTPConfig) Enabled() bool { return s.Host != "" }

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type UPIConfig struct {
	PayeeVPA  string
	PayeeName string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("REDIS_HOST", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCYLLA_HOSTS", "localhost")
	v.SetDefault("SCYLLA_KEYSPACE", "jaggery")
	v.SetDefault("SCYLLA_TIMEOUT", "5s")
	v.SetDefault("USER_STORE", "memory")
	v.SetDefault("CART_STORE", "redis")
	v.SetDefault("PRICING_POLICY", "threshold")
	v.SetDefault("CHECKOUT_PAYMENT_TIMEOUT", "10s")
	v.SetDefault("PAYMENT_SIMULATED_DELAY", "3s")
	v.SetDefault("CHECKOUT_LOCK_TTL", "30s")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "noreply@jaggery.shop")
	v.SetDefault("KAFKA_ORDER_TOPIC", "order.placed")
	v.SetDefault("UPI_PAYEE_VPA", "jaggerystore@upi")
	v.SetDefault("UPI_PAYEE_NAME", "Jaggery Store")
}

// Load reads .env (if present) then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using system environment")
	} else {
		log.Println("✅ .env loaded")
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from v with defaults and environment binding applied.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_HOST"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(v.GetString("SCYLLA_HOSTS")),
			Keyspace: v.GetString("SCYLLA_KEYSPACE"),
			Username: v.GetString("SCYLLA_USERNAME"),
			Password: v.GetString("SCYLLA_PASSWORD"),
			Timeout:  v.GetDuration("SCYLLA_TIMEOUT"),
		},
		Stores: StoreConfig{
			Users: strings.ToLower(v.GetString("USER_STORE")),
			Cart:  strings.ToLower(v.GetString("CART_STORE")),
		},
		Checkout: CheckoutConfig{
			PricingPolicy:   strings.ToLower(v.GetString("PRICING_POLICY")),
			PaymentTimeout:  v.GetDuration("CHECKOUT_PAYMENT_TIMEOUT"),
			SimulatedDelay:  v.GetDuration("PAYMENT_SIMULATED_DELAY"),
			InFlightLockTTL: v.GetDuration("CHECKOUT_LOCK_TTL"),
		},
		Stripe: StripeConfig{SecretKey: v.GetString("STRIPE_SECRET_KEY")},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetString("KAFKA_BROKERS")),
			OrderTopic: v.GetString("KAFKA_ORDER_TOPIC"),
		},
		UPI: UPIConfig{
			PayeeVPA:  v.GetString("UPI_PAYEE_VPA"),
			PayeeName: v.GetString("UPI_PAYEE_NAME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

func (c *Config) Validate() error {
	if c.IsProduction() && c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	switch c.Stores.Users {
	case "memory", "scylla":
	default:
		return errors.New("USER_STORE must be memory or scylla")
	}
	switch c.Stores.Cart {
	case "memory", "redis":
	default:
		return errors.New("CART_STORE must be memory or redis")
	}
	switch c.Checkout.PricingPolicy {
	case "threshold", "delivery_speed":
	default:
		return errors.New("PRICING_POLICY must be threshold or delivery_speed")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
