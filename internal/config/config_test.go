package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient credentials in the
// test environment cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "USER_ID",
		"REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET", "REDDIT_USERNAME",
		"REDDIT_PASSWORD", "REDDIT_USER_AGENT", "COLLECTOR_MODE",
		"GOOGLE_API_KEY", "GEMINI_MODEL",
		"OUTPUT_DIR", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadMockModeDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("COLLECTOR_MODE", "mock")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "snooscrape", cfg.App.Name)
	assert.Equal(t, "default_user", cfg.App.UserID)
	assert.Equal(t, "gemini-2.0-flash", cfg.Agent.Model)
	assert.Equal(t, "reddit_data", cfg.Output.Dir)
	assert.Equal(t, 8080, cfg.Dashboard.Port)
	assert.Equal(t, ModeMock, cfg.Reddit.CollectorMode)
}

func TestLoadRequiresGoogleAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("COLLECTOR_MODE", "mock")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestLoadAPIModeRequiresRedditCredentials(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing client id",
			env:     map[string]string{},
			wantErr: "REDDIT_CLIENT_ID",
		},
		{
			name:    "missing client secret",
			env:     map[string]string{"REDDIT_CLIENT_ID": "id"},
			wantErr: "REDDIT_CLIENT_SECRET",
		},
		{
			name:    "missing user agent",
			env:     map[string]string{"REDDIT_CLIENT_ID": "id", "REDDIT_CLIENT_SECRET": "secret"},
			wantErr: "REDDIT_USER_AGENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GOOGLE_API_KEY", "test-key")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("does-not-exist.env")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAPIModeComplete(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USER_AGENT", "snooscrape test agent")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("PORT", "9000")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ModeAPI, cfg.Reddit.CollectorMode)
	assert.Equal(t, "gemini-2.5-pro", cfg.Agent.Model)
	assert.Equal(t, 9000, cfg.Dashboard.Port)
}

func TestLoadRejectsUnknownCollectorMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("COLLECTOR_MODE", "public")

	_, err := Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COLLECTOR_MODE")
}
