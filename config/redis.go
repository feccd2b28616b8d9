package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// ConnectRedis establishes a connection to the Redis instance that backs
// session carts
func ConnectRedis(redisURL string) error {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	redisClient = client
	log.Println("Redis connection established successfully")
	return nil
}

// GetRedis returns the redis client instance
func GetRedis() *redis.Client {
	return redisClient
}

// SetRedis sets the redis client instance (primarily for testing)
func SetRedis(client *redis.Client) {
	redisClient = client
}
