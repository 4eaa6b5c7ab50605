package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr        string
	PostgresDSN     string
	RedisAddr       string
	JWTSecret       string
	AdminEmail      string
	SubscriptionFee int64
}

// Load reads configuration from the environment. An empty POSTGRES_DSN
// selects the in-memory store (dev mode); an empty REDIS_ADDR disables the
// email alert queue.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		JWTSecret:       getenv("JWT_SECRET", "supersecret"),
		AdminEmail:      getenv("ADMIN_EMAIL", "igwt.help.team@gmail.com"),
		SubscriptionFee: getenvInt64("SUBSCRIPTION_FEE", 3),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt64(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
