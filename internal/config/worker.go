package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type QueueConfig struct {
	ClaimInterval time.Duration
	BatchSize     int64
	Block         time.Duration
}

type LoggingConfig struct {
	Level string
}

type WorkerConfig struct {
	Environment string
	Postgres    PostgresConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Queues      QueueConfig
	Logging     LoggingConfig
}

func LoadWorker() (*WorkerConfig, error) {
	v := newViper("worker")
	setWorkerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg, decodeHooks); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required (DATABASE_URL)")
	}

	return &cfg, nil
}

func setWorkerDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("postgres.maxopen", 4)
	v.SetDefault("postgres.maxidle", 1)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	setRedisDefaults(v)
	setStorageDefaults(v)

	v.SetDefault("queues.claiminterval", "30s")
	v.SetDefault("queues.batchsize", 10)
	v.SetDefault("queues.block", "5s")

	v.SetDefault("logging.level", "info")
}
