package cmd

import (
	"testing"

	"github.com/nsyszr/rcm/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	out := new(config.Config)
	require.NoError(t, v.Unmarshal(out))
	return out
}

func TestDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "MONGODB_URI", "NATS_URL", "APP_ENV", "NODE_ENV", "DB_MIGRATE"} {
		t.Setenv(key, "")
	}

	out := loadConfig(t)
	assert.Equal(t, 5000, out.BindPort)
	assert.Equal(t, config.StorageMongoDB, out.StorageDriver)
	assert.Equal(t, "mongodb://localhost:27017/railway_db", out.MongoDBURI)
	assert.Equal(t, "production", out.Environment)
	assert.False(t, out.DBMigrate)
	assert.NoError(t, out.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_MIGRATE", "true")
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "development")

	out := loadConfig(t)
	assert.Equal(t, 8080, out.BindPort)
	assert.Equal(t, config.StorageMemory, out.StorageDriver)
	assert.True(t, out.DBMigrate)
	assert.True(t, out.IsDevelopment())
}

func TestCommands(t *testing.T) {
	for _, path := range [][]string{{"serve", "api"}, {"migrate", "sql"}, {"config"}, {"version"}} {
		cmd, _, err := RootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
