package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	AMQP     AMQPConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type GatewayConfig struct {
	Port            int
	JWTSecret       string
	AuthServiceURL  string
	RequestTimeout  time.Duration
	VerifyTimeout   time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// ServiceEndpoints maps a logical service name from the request path to
	// its internal base URL.
	ServiceEndpoints map[string]string
	// PublicEndpoints require no bearer token (exact match).
	PublicEndpoints []string
	// PublicPrefixes require no bearer token (prefix match).
	PublicPrefixes []string
}

type AMQPConfig struct {
	// URL enables status-change event publishing when non-empty.
	URL string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 9109)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "radagast")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "order_service")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("GATEWAY_PORT", 9102)
	viper.SetDefault("JWT_SECRET_KEY", "your-super-secret-jwt-key-change-in-production")
	viper.SetDefault("AUTH_SERVICE_INTERNAL_URL", "http://auth-service:9101")
	viper.SetDefault("GATEWAY_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("GATEWAY_VERIFY_TIMEOUT", "5s")
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("JWT_REFRESH_TOKEN_TTL", "168h")
	viper.SetDefault("GATEWAY_SERVICE_ENDPOINTS", strings.Join([]string{
		"auth-service=http://auth-service:9101/api/v1/rest",
		"user-service=http://user-service:9111/api/v1/rest",
		"restaurant-service=http://restaurant-service:9112/api/v1/rest",
		"menu-service=http://menu-service:9110/api/v1/rest",
		"cart-service=http://cart-service:9115/api/v1/rest",
		"order-service=http://order-service:9109/api/v1/rest",
		"review-service=http://review-service:9117/api/v1/rest",
		"customer-support-service=http://customer-support-service:9105/api/v1/rest",
	}, ","))
	viper.SetDefault("GATEWAY_PUBLIC_ENDPOINTS", strings.Join([]string{
		"/api/v1/rest/health",
		"/api/v1/rest/auth-service/login",
		"/api/v1/rest/auth-service/signup",
		"/api/v1/rest/auth-service/refresh",
		"/api/v1/rest/restaurant-service/restaurants",
		"/api/v1/rest/menu-service/restaurants",
		"/api/v1/rest/user-service/exists",
	}, ","))
	viper.SetDefault("GATEWAY_PUBLIC_PREFIXES", strings.Join([]string{
		"/api/v1/rest/health",
		"/api/v1/rest/auth-service/",
		"/api/v1/rest/restaurant-service/restaurants",
		"/api/v1/rest/menu-service/restaurants",
		// Cart endpoints stay open until the mobile client ships login.
		"/api/v1/rest/cart-service/",
	}, ","))
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}
	requestTimeout, err := time.ParseDuration(viper.GetString("GATEWAY_REQUEST_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	verifyTimeout, err := time.ParseDuration(viper.GetString("GATEWAY_VERIFY_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	accessTTL, err := time.ParseDuration(viper.GetString("JWT_ACCESS_TOKEN_TTL"))
	if err != nil {
		return nil, err
	}
	refreshTTL, err := time.ParseDuration(viper.GetString("JWT_REFRESH_TOKEN_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Gateway: GatewayConfig{
			Port:             viper.GetInt("GATEWAY_PORT"),
			JWTSecret:        viper.GetString("JWT_SECRET_KEY"),
			AuthServiceURL:   viper.GetString("AUTH_SERVICE_INTERNAL_URL"),
			RequestTimeout:   requestTimeout,
			VerifyTimeout:    verifyTimeout,
			AccessTokenTTL:   accessTTL,
			RefreshTokenTTL:  refreshTTL,
			ServiceEndpoints: parseEndpoints(viper.GetString("GATEWAY_SERVICE_ENDPOINTS")),
			PublicEndpoints:  splitList(viper.GetString("GATEWAY_PUBLIC_ENDPOINTS")),
			PublicPrefixes:   splitList(viper.GetString("GATEWAY_PUBLIC_PREFIXES")),
		},
		AMQP: AMQPConfig{
			URL: viper.GetString("AMQP_URL"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}

// parseEndpoints parses "name=url,name=url" pairs.
func parseEndpoints(s string) map[string]string {
	endpoints := make(map[string]string)
	for _, pair := range splitList(s) {
		name, url, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		endpoints[strings.TrimSpace(name)] = strings.TrimSpace(url)
	}
	return endpoints
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
