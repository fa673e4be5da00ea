// Package redis cache de lectura del ledger de materiales.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Costeo-api/pkg/config"
)

// Client envuelve el cliente Redis con un prefijo de llaves.
type Client struct {
	client *redis.Client
	prefix string
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}

	return &Client{client: client, prefix: "costeo:"}, nil
}

// Close cierra el cliente.
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifica que Redis responda.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get lee el valor crudo. redis.Nil si no existe.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, c.prefix+key).Bytes()
}

// Set guarda el valor con TTL.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete elimina llaves.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}
	return c.client.Del(ctx, prefixed...).Err()
}

// GetInt64 lee un contador; 0 si la llave no existe.
func (c *Client) GetInt64(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, c.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// DeleteAndIncr borra key e incrementa counter en una sola transacción.
func (c *Client) DeleteAndIncr(ctx context.Context, key, counter string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.prefix+key)
		pipe.Incr(ctx, c.prefix+counter)
		return nil
	})
	return err
}

// SetIfCounter guarda value solo si counter sigue valiendo expected (WATCH/MULTI).
// Devuelve false si el contador cambió entre la lectura y la escritura.
func (c *Client) SetIfCounter(ctx context.Context, key string, value []byte, ttl time.Duration, counter string, expected int64) (bool, error) {
	counterKey := c.prefix + counter
	stored := false
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Get(ctx, counterKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if n != expected {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.prefix+key, value, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, counterKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}
