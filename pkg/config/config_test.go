package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("storefront")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.Board.PollInterval)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "padoca_session", cfg.Session.CookieName)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOARD_POLL_INTERVAL", "5s")
	t.Setenv("BACKEND_BASE_URL", "http://padoca.local/api")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_LOG_LEVEL", "silent")

	cfg, err := Load("storefront")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Board.PollInterval)
	assert.Equal(t, "http://padoca.local/api", cfg.Backend.BaseURL)
	assert.Equal(t, 3, cfg.DB.MaxIdleConns)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load("storefront")
		assert.Error(t, err)
	})

	t.Run("zero poll interval", func(t *testing.T) {
		t.Setenv("BOARD_POLL_INTERVAL", "0s")
		_, err := Load("storefront")
		assert.Error(t, err)
	})
}

func TestGetDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.GetDSN())
}
