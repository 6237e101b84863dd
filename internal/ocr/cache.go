package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"image"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

// Store is a string key/value store with expiry.
type Store interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore keeps recognition results in Redis.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{Client: client, Prefix: "schedule-ocr:"}, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.Client.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, s.Prefix+key, value, ttl).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}

// Cached remembers recognized text per crop. Re-running a day on the same
// image hits the cache instead of the engine.
//
// Store failures are logged and bypassed; they never fail a recognition.
type Cached struct {
	Engine Engine
	Store  Store
	TTL    time.Duration
	Logger *zap.Logger
}

// Name implements Engine.
func (c *Cached) Name() string { return c.Engine.Name() }

// Recognize implements Engine.
func (c *Cached) Recognize(ctx context.Context, img image.Image) (string, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	key, err := c.key(img)
	if err != nil {
		return "", err
	}

	if v, ok, err := c.Store.Get(ctx, key); err != nil {
		log.Warn("ocr cache read failed", zap.Error(err))
	} else if ok {
		log.Debug("ocr cache hit", zap.String("key", key))
		return v, nil
	}

	text, err := c.Engine.Recognize(ctx, img)
	if err != nil {
		return "", err
	}

	if err := c.Store.Set(ctx, key, text, c.TTL); err != nil {
		log.Warn("ocr cache write failed", zap.Error(err))
	}
	return text, nil
}

func (c *Cached) key(img image.Image) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}
	sum := sha256.New()
	sum.Write([]byte(c.Engine.Name()))
	sum.Write([]byte{0})
	sum.Write(data)
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// Probe describes the wrapped engine.
func (c *Cached) Probe(ctx context.Context) Info {
	info := Describe(ctx, c.Engine)
	info.Cached = true
	return info
}
