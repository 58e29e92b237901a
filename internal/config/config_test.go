package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FCSTRAT_API_BASE_URL", "http://stats.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://stats.local", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.RankingTTL())
	assert.Equal(t, 24*time.Hour, cfg.MatchTTL())
	assert.Equal(t, 10*time.Minute, cfg.PlayerTTL())
	assert.Equal(t, 45*time.Second, cfg.LockTTL())
	assert.Equal(t, 3*time.Second, cfg.MaxLockWait())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("FCSTRAT_API_BASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "FCSTRAT_API_BASE_URL")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FCSTRAT_API_BASE_URL", "http://stats.local")
	t.Setenv("FCSTRAT_LISTEN_ADDR", ":9000")
	t.Setenv("FCSTRAT_RANKING_TTL_SECONDS", "60")
	t.Setenv("FCSTRAT_REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, time.Minute, cfg.RankingTTL())
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestLoadRejectsPartialS3(t *testing.T) {
	t.Setenv("FCSTRAT_API_BASE_URL", "http://stats.local")
	t.Setenv("FCSTRAT_S3_BUCKET", "fcstrat-cache")

	_, err := Load()
	assert.ErrorContains(t, err, "S3")
}

func TestLoadCompleteS3(t *testing.T) {
	t.Setenv("FCSTRAT_API_BASE_URL", "http://stats.local")
	t.Setenv("FCSTRAT_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("FCSTRAT_S3_REGION", "us-east-1")
	t.Setenv("FCSTRAT_S3_BUCKET", "fcstrat-cache")
	t.Setenv("FCSTRAT_S3_ACCESS_KEY", "ak")
	t.Setenv("FCSTRAT_S3_SECRET_KEY", "sk")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.S3Enabled())
}

func TestGetenvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("FCSTRAT_API_BASE_URL", "http://stats.local")
	t.Setenv("FCSTRAT_RANKING_TTL_SECONDS", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1800, cfg.RankingTTLSeconds)
}
