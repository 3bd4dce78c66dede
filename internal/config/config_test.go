package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, 10*time.Second, cfg.Webserver.RequestTimeout)
	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
	assert.Equal(t, 24*time.Hour, cfg.Session.ExpiryTime)
	assert.Equal(t, "presence-chat", cfg.Realtime.ChannelPrefix)
	assert.Equal(t, []string{"admin"}, cfg.Realtime.PrivilegedUserTypes)
	assert.Len(t, cfg.Seed.AuthorityTypes, 3)
	assert.Equal(t, "info", cfg.Log.LogLevel)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, "access.log", cfg.Log.File.AccessLog)
}

func TestReadConfigPusherFromEnv(t *testing.T) {
	t.Setenv("PUSHER_APP_ID", "123")
	t.Setenv("PUSHER_APP_KEY", "key")
	t.Setenv("PUSHER_APP_SECRET", "secret")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "123", cfg.Pusher.AppID)
	assert.Equal(t, "key", cfg.Pusher.AppKey)
	assert.Equal(t, "secret", cfg.Pusher.AppSecret)
	assert.Equal(t, "eu", cfg.Pusher.Cluster)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	// untouched keys survive the merge
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	_, err := ReadConfig(projectConfigPath(t))
	require.Error(t, err)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{Port: 0, URL: "http://localhost:8080"},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{Port: 8080},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "unknown engine",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				DB:        DB{Engine: "oracle"},
			},
			wantErr: ErrUnknownDBEngine,
		},
		{
			name: "unknown session storage",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Session:   Session{Storage: "etcd"},
			},
			wantErr: ErrUnknownSessionStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, EngineSQLite, tt.config.DB.Engine)
			assert.Equal(t, "memory", tt.config.Session.Storage)
			assert.Equal(t, defaultShutDownTime, tt.config.Webserver.ShutDownTime)
		})
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title:     "Test",
		DevMode:   true,
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		DB:        DB{Password: "db-secret"},
		Pusher:    Pusher{AppKey: "key", AppSecret: "pusher-secret"},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)

	assert.True(t, strings.Contains(jsonStr, "Test"))
	assert.NotContains(t, jsonStr, "db-secret")
	assert.NotContains(t, jsonStr, "pusher-secret")
	assert.Contains(t, jsonStr, masked)
	// the caller's value stays untouched
	assert.Equal(t, "pusher-secret", cfg.Pusher.AppSecret)
}
