package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cf.AppEnv)
	assert.Equal(t, 8082, cf.HTTPPort)
	assert.Equal(t, "enchanted", cf.DbName)
	assert.Equal(t, 10*time.Second, cf.ShutdownTimeout)
	assert.True(t, cf.RunMigrations)
	assert.Equal(t, DriverPostgres, cf.StoreDriver)
	assert.Equal(t, ":8082", cf.Addr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	content := "HTTP_PORT=9000\nPOSTGRES_DB=fromfile\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("POSTGRES_DB", "fromenv")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cf.HTTPPort)
	assert.Equal(t, "debug", cf.LogLevel)
	assert.Equal(t, "fromenv", cf.DbName)
	assert.Equal(t, DriverMemory, cf.StoreDriver)
	assert.Equal(t, 3*time.Second, cf.ShutdownTimeout)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cf, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, 8082, cf.HTTPPort)
	assert.Equal(t, "enchanted", cf.DbName)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=not-a-port\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{HTTPPort: 8082, DbPort: 5432, DbName: "x", ShutdownTimeout: time.Second, StoreDriver: DriverPostgres}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.HTTPPort = 0 }},
		{"port too large", func(c *Config) { c.HTTPPort = 70000 }},
		{"no shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
		{"no db name", func(c *Config) { c.DbName = "" }},
		{"bad db port", func(c *Config) { c.DbPort = -1 }},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mysql" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	memory := valid
	memory.StoreDriver = DriverMemory
	memory.DbName = ""
	assert.NoError(t, memory.Validate(), "memory driver needs no database")
}

func TestDSN(t *testing.T) {
	c := Config{DbHost: "db", DbPort: 5433, DbUser: "shop", DbPass: "p@ss", DbName: "enchanted", DbSSLMode: "disable"}
	assert.Equal(t, "postgres://shop:p%40ss@db:5433/enchanted?sslmode=disable", c.DSN())
}
