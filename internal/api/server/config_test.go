package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "docker")
	t.Setenv("ENV_PATH", "testdata/missing.env")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("CORS_ORIGINS", "")
		t.Setenv("BODY_LIMIT", "")
		t.Setenv("BENCH_SPEC", "bench.yaml")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
		assert.False(t, cfg.UseHttp2)
		assert.Equal(t, "bench.yaml", cfg.BenchSpec)
		assert.Equal(t, DefaultBodyLimit, cfg.BodyLimit)
	})

	t.Run("origins are trimmed", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
		t.Setenv("USE_HTTP2", "true")
		t.Setenv("BENCH_SPEC", "bench.yaml")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
		assert.True(t, cfg.UseHttp2)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		t.Setenv("BENCH_SPEC", "bench.yaml")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid port")
	})

	t.Run("body limit", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("BENCH_SPEC", "bench.yaml")

		t.Setenv("BODY_LIMIT", "2M")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "2M", cfg.BodyLimit)

		t.Setenv("BODY_LIMIT", "lots")
		_, err = LoadConfig()
		assert.ErrorContains(t, err, "BODY_LIMIT")
	})

	t.Run("missing bench spec", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("BENCH_SPEC", "")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "BENCH_SPEC")
	})
}
