package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"MARKET_APP_NAME":          os.Getenv("MARKET_APP_NAME"),
		"MARKET_APP_ENV":           os.Getenv("MARKET_APP_ENV"),
		"MARKET_APP_PORT":          os.Getenv("MARKET_APP_PORT"),
		"MARKET_DATABASE_DRIVER":   os.Getenv("MARKET_DATABASE_DRIVER"),
		"MARKET_DATABASE_HOST":     os.Getenv("MARKET_DATABASE_HOST"),
		"MARKET_DATABASE_PORT":     os.Getenv("MARKET_DATABASE_PORT"),
		"MARKET_DATABASE_PASSWORD": os.Getenv("MARKET_DATABASE_PASSWORD"),
		"MARKET_DATABASE_SSLMODE":  os.Getenv("MARKET_DATABASE_SSLMODE"),
		"MARKET_SESSION_STORE":     os.Getenv("MARKET_SESSION_STORE"),
		"MARKET_SESSION_TTL":       os.Getenv("MARKET_SESSION_TTL"),
		"MARKET_JWT_SECRET":        os.Getenv("MARKET_JWT_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "verdantmarket-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "verdantmarket", cfg.Database.DBName)
		assert.Equal(t, "redis", cfg.Session.Store)
		assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
		assert.Equal(t, "INR", cfg.Orders.DefaultCurrency)
		assert.False(t, cfg.Orders.RefundForcesCancel)
	})

	t.Run("loads values from environment variables with MARKET prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_APP_PORT", "9000")
		os.Setenv("MARKET_DATABASE_DRIVER", "sqlite")
		os.Setenv("MARKET_SESSION_STORE", "memory")
		os.Setenv("MARKET_SESSION_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "memory", cfg.Session.Store)
		assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	})

	t.Run("rejects an unknown database driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_DATABASE_DRIVER", "oracle")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects an unknown session store", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_SESSION_STORE", "memcached")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.store")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_APP_ENV", "production")
		os.Setenv("MARKET_JWT_SECRET", "short")
		os.Setenv("MARKET_DATABASE_PASSWORD", "secret")
		os.Setenv("MARKET_DATABASE_SSLMODE", "require")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production rejects the memory session store", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_APP_ENV", "production")
		os.Setenv("MARKET_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("MARKET_DATABASE_PASSWORD", "secret")
		os.Setenv("MARKET_DATABASE_SSLMODE", "require")
		os.Setenv("MARKET_SESSION_STORE", "memory")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.store")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "market",
		Password: "p@ss/word",
		DBName:   "verdantmarket",
		SSLMode:  "require",
	}

	dsn := d.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
