package cache

import (
	"context"
	"encoding/json"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCache fronts the car catalog. Reads tolerate a cold or unreachable
// cache; the fleet service falls through to Postgres.
type RedisCache struct {
	client  *redis.Client
	carsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		carsTTL: time.Duration(cfg.TTLSeconds) * time.Second,
	}
}

func (c *RedisCache) GetCars(ctx context.Context) ([]domain.Car, error) {
	data, err := c.client.Get(ctx, carsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cars []domain.Car
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *RedisCache) SetCars(ctx context.Context, cars []domain.Car) error {
	payload, err := json.Marshal(cars)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, carsKey(), payload, c.carsTTL).Err()
}

// InvalidateCars drops the catalog entry after any fleet mutation.
func (c *RedisCache) InvalidateCars(ctx context.Context) error {
	return c.client.Del(ctx, carsKey()).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func carsKey() string {
	return "cache:cars"
}
