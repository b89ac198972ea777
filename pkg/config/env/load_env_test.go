package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("IIW_TEST_VALUE=42\n"), 0644))
	t.Setenv("ENV_PATH", path)
	t.Setenv("IIW_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("IIW_TEST_VALUE"))

	require.NoError(t, LoadDotEnv("local", "unused"))
	assert.Equal(t, "42", os.Getenv("IIW_TEST_VALUE"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, LoadDotEnv("local", ""))
	assert.NoError(t, LoadDotEnv("docker", ""))
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", in)
			assert.Equal(t, want, LogLevel())
		})
	}
}
