package main

import (
	"context"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/mingj7235/fc-strategy-sub001/internal/cache"
	"github.com/mingj7235/fc-strategy-sub001/internal/config"
	"github.com/mingj7235/fc-strategy-sub001/internal/fcapi"
	"github.com/mingj7235/fc-strategy-sub001/internal/lock"
	"github.com/mingj7235/fc-strategy-sub001/internal/logx"
	"github.com/mingj7235/fc-strategy-sub001/internal/server"
)

func main() {
	logx.Init()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	var store cache.Store = cache.NewMemoryStore()
	var redisClient *redis.Client

	if cfg.S3Enabled() {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		)
		if err != nil {
			log.WithError(err).Fatal("aws configuration failed")
		}
		s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		})
		store = cache.NewS3Store(cfg.S3Bucket, s3Client)

		// the cross-replica refresh lock only pays off with a shared store
		if cfg.RedisAddr != "" {
			redisClient = lock.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		log.Infof("cache store: s3 bucket %s", cfg.S3Bucket)
	} else {
		log.Info("cache store: in-memory")
	}

	fetcher := cache.NewFetcher(store, cache.FetcherConfig{
		Redis:       redisClient,
		LockTTL:     cfg.LockTTL(),
		MaxLockWait: cfg.MaxLockWait(),
	})
	api := fcapi.NewClient(cfg.APIBaseURL, cfg.APIKey)
	srv := server.New(cfg, fetcher, store, api)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Infof("listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}
