package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr         string
	APIBaseURL         string
	APIKey             string
	RedisAddr          string
	RedisDB            int
	RedisPassword      string
	S3Endpoint         string
	S3Region           string
	S3Bucket           string
	S3AccessKey        string
	S3SecretKey        string
	MatchTTLSeconds    int
	RankingTTLSeconds  int
	PlayerTTLSeconds   int
	LockTTLSeconds     int
	MaxLockWaitSeconds int
}

func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         getenv("FCSTRAT_LISTEN_ADDR", ":8080"),
		APIBaseURL:         getenv("FCSTRAT_API_BASE_URL", ""),
		APIKey:             os.Getenv("FCSTRAT_API_KEY"),
		RedisAddr:          getenv("FCSTRAT_REDIS_ADDR", ""),
		RedisDB:            getenvInt("FCSTRAT_REDIS_DB", 0),
		RedisPassword:      os.Getenv("FCSTRAT_REDIS_PASSWORD"),
		S3Endpoint:         getenv("FCSTRAT_S3_ENDPOINT", ""),
		S3Region:           getenv("FCSTRAT_S3_REGION", ""),
		S3Bucket:           getenv("FCSTRAT_S3_BUCKET", ""),
		S3AccessKey:        os.Getenv("FCSTRAT_S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("FCSTRAT_S3_SECRET_KEY"),
		MatchTTLSeconds:    getenvInt("FCSTRAT_MATCH_TTL_SECONDS", 86400),
		RankingTTLSeconds:  getenvInt("FCSTRAT_RANKING_TTL_SECONDS", 1800),
		PlayerTTLSeconds:   getenvInt("FCSTRAT_PLAYER_TTL_SECONDS", 600),
		LockTTLSeconds:     getenvInt("FCSTRAT_LOCK_TTL_SECONDS", 45),
		MaxLockWaitSeconds: getenvInt("FCSTRAT_MAX_LOCK_WAIT_SECONDS", 3),
	}

	if cfg.APIBaseURL == "" {
		return cfg, errors.New("FCSTRAT_API_BASE_URL is required")
	}
	if cfg.s3Partial() {
		return cfg, errors.New("S3 endpoint/region/bucket/access/secret must be set together")
	}
	return cfg, nil
}

// S3Enabled reports whether the shared S3 cache tier is configured.
func (c Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3Region != "" && c.S3Bucket != "" &&
		c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c Config) s3Partial() bool {
	any := c.S3Endpoint != "" || c.S3Region != "" || c.S3Bucket != "" ||
		c.S3AccessKey != "" || c.S3SecretKey != ""
	return any && !c.S3Enabled()
}

func (c Config) MatchTTL() time.Duration {
	return time.Duration(c.MatchTTLSeconds) * time.Second
}

func (c Config) RankingTTL() time.Duration {
	return time.Duration(c.RankingTTLSeconds) * time.Second
}

func (c Config) PlayerTTL() time.Duration {
	return time.Duration(c.PlayerTTLSeconds) * time.Second
}

func (c Config) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

func (c Config) MaxLockWait() time.Duration {
	return time.Duration(c.MaxLockWaitSeconds) * time.Second
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
