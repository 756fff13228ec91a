package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"api_key": "test-key",
		"history_path": "/tmp/history.json",
		"coarse_model": "gemini-custom",
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "/tmp/history.json", cfg.HistoryPath)
	assert.Equal(t, "gemini-custom", cfg.CoarseModel)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 8080}
	assert.NoError(t, cfg.Validate())

	cfg.Port = -1
	assert.Error(t, cfg.Validate())

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults_FillsEmptyFields(t *testing.T) {
	cfg := Config{APIKey: "from-file"}
	defaults := Config{
		APIKey:      "from-env",
		HistoryPath: "/home/user/.ats/history.json",
		Port:        8080,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "from-file", merged.APIKey)
	assert.Equal(t, "/home/user/.ats/history.json", merged.HistoryPath)
	assert.Equal(t, 8080, merged.Port)
}

func TestMergeWithDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := Config{
		APIKey:        "mine",
		HistoryPath:   "/custom/history.json",
		CoarseModel:   "gemini-custom",
		FragmentModel: "gemini-custom-lite",
		Port:          9000,
	}

	merged := cfg.MergeWithDefaults(Config{APIKey: "other", Port: 8080})

	assert.Equal(t, "mine", merged.APIKey)
	assert.Equal(t, "/custom/history.json", merged.HistoryPath)
	assert.Equal(t, "gemini-custom", merged.CoarseModel)
	assert.Equal(t, 9000, merged.Port)
}
