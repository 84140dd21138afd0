package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.RequestTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 10, cfg.Inventory.StockMinimumDefault)
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("REDIS_DB", "2")
	v.Set("STOCK_MINIMUM_DEFAULT", "5")
	v.Set("HTTP_PORT", 9090)
	v.Set("DB_PORT", "no-es-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 5, cfg.Inventory.StockMinimumDefault)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.DB.Port, "valor inválido usa el default")
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("STOCK_MINIMUM_DEFAULT", "-1")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "autopartes", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/autopartes?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
