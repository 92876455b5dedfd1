package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

func InitRedis() error {
	val := os.Getenv("REDIS_ADDR")
	if val == "" {
		val = os.Getenv("REDIS_URI")
	}
	if val == "" {
		val = os.Getenv("REDIS_URL")
	}
	if val == "" {
		return errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")
	}

	var opt *redis.Options
	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		parsed, err := redis.ParseURL(val)
		if err != nil {
			return err
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: val}
	}

	// Stream consumers hold a connection each while blocked on XREADGROUP;
	// size the pool past the worker count so pub/sub and the API never
	// wait behind them.
	if opt.PoolSize == 0 {
		opt.PoolSize = envInt("REDIS_POOL_SIZE", envInt("PROCESS_WORKERS", 5)*2+10)
	}

	RedisClient = redis.NewClient(opt)
	_, err := RedisClient.Ping(context.Background()).Result()
	return err
}
