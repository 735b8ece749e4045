package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZacIsrael/dev-camper-api/log"
)

// ConnectRedis returns nil, nil when uri is empty; callers treat a nil
// client as "no cache".
func ConnectRedis(ctx context.Context, uri string) (*redis.Client, error) {
	if uri == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Logger.Info("connected to Redis")
	return client, nil
}
