package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DELIVERY_FEE", "FREE_DELIVERY_ABOVE", "TAX_RATE", "CHANNEL_POOL_SIZE", "ORDER_API_URL", "SESSION_STORE", "MONGO_DATABASE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 40.0, cfg.DeliveryFee)
	assert.Equal(t, 500.0, cfg.FreeDeliveryAbove)
	assert.Equal(t, 0.05, cfg.TaxRate)
	assert.Equal(t, 4, cfg.ChannelPoolSize)
	assert.Equal(t, "db", cfg.SessionStore)
	assert.Equal(t, "foodiehub", cfg.MongoDatabase)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DELIVERY_FEE", "55.5")
	t.Setenv("TAX_RATE", "not-a-number")
	t.Setenv("CHANNEL_POOL_SIZE", "-3")
	t.Setenv("ORDER_API_URL", "http://orders.local/")

	cfg := Load()
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 55.5, cfg.DeliveryFee)
	assert.Equal(t, 0.05, cfg.TaxRate)
	assert.Equal(t, 4, cfg.ChannelPoolSize)
	assert.Equal(t, "http://orders.local", cfg.OrderAPIURL)
}

func TestInitDBSqlite(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: "sqlite", DBDSN: "file::memory:"})
	require.NoError(t, err)
	require.NotNil(t, db)

	_, err = InitDB(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
