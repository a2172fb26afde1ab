package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PAPERCLIP_HOME", dir)
	for _, k := range []string{"PAPERCLIP_LOG_LEVEL", "PAPERCLIP_LOG_FILE", "PAPERCLIP_LOG_CONSOLE", "PAPERCLIP_LOG_FORMAT", "PAPERCLIP_HISTORY_SIZE"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefaults(t *testing.T) {
	dir := withHome(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.ConfirmDelete)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 50, cfg.HistorySize)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "logs", "paperclip.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(dir, "paperclip.db"), cfg.DataPath())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path())
}

func TestEnvOverrides(t *testing.T) {
	withHome(t)
	t.Setenv("PAPERCLIP_LOG_LEVEL", "DEBUG")
	t.Setenv("PAPERCLIP_LOG_CONSOLE", "true")
	t.Setenv("PAPERCLIP_HISTORY_SIZE", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.True(t, cfg.LogConsole)
	assert.Equal(t, 7, cfg.HistorySize)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `storage: json
history_size: 20
default_workspace: Work
confirm_delete: false
log_format: json
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `storage = "json"
history_size = 20
default_workspace = "Work"
confirm_delete = false
log_format = "json"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := withHome(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0644))

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, StorageJSON, cfg.Storage)
			assert.Equal(t, 20, cfg.HistorySize)
			assert.Equal(t, "Work", cfg.DefaultWorkspace)
			assert.False(t, cfg.ConfirmDelete)
			assert.Equal(t, "json", cfg.LogFormat)
			assert.Equal(t, filepath.Join(dir, "workspaces.json"), cfg.DataPath())
			assert.Equal(t, filepath.Join(dir, tt.file), cfg.Path())
		})
	}
}

func TestYAMLWinsOverTOML(t *testing.T) {
	dir := withHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("history_size: 3\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("history_size = 9\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.HistorySize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown storage", content: "storage: postgres\n"},
		{name: "zero history", content: "history_size: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := withHome(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.content), 0644))
			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	dir := withHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("storage: [\n"), 0644))
	_, err := Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, file := range []string{"config.yaml", "config.toml"} {
		t.Run(file, func(t *testing.T) {
			dir := withHome(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(""), 0644))

			cfg, err := Load()
			require.NoError(t, err)
			cfg.LogLevel = "WARN"
			cfg.DefaultWorkspace = "Home"
			require.NoError(t, cfg.Save())

			again, err := Load()
			require.NoError(t, err)
			assert.Equal(t, "WARN", again.LogLevel)
			assert.Equal(t, "Home", again.DefaultWorkspace)
			assert.Equal(t, filepath.Join(dir, file), again.Path())
		})
	}
}
