package templates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sharewatch/sharewatch/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a named template does not exist.
var ErrNotFound = errors.New("template not found")

// Store keeps named templates in Redis. It holds only user-authored
// template bodies; scanned text never passes through it.
type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewStore creates a Redis-backed template store
func NewStore(cfg config.TemplateStoreConfig, logger *zap.Logger) (*Store, error) {
	// Parse Redis URL
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Configure connection pool
	opts.PoolSize = cfg.MaxConnections
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "sharewatch:templates:"
	}

	store := &Store{
		client: client,
		prefix: prefix,
		logger: logger,
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Template store initialized",
		zap.String("redis_url", maskRedisURL(cfg.RedisURL)),
		zap.String("key_prefix", prefix),
		zap.Int("max_connections", cfg.MaxConnections))

	return store, nil
}

// Save stores a template body under the given name
func (s *Store) Save(ctx context.Context, name, body string) error {
	if name == "" {
		return fmt.Errorf("template name must not be empty")
	}

	if err := s.client.Set(ctx, s.key(name), body, 0).Err(); err != nil {
		return fmt.Errorf("failed to save template %q: %w", name, err)
	}

	s.logger.Debug("Template saved",
		zap.String("name", name),
		zap.Int("size", len(body)))
	return nil
}

// Get fetches a template body by name
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	body, err := s.client.Get(ctx, s.key(name)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to fetch template %q: %w", name, err)
	}
	return body, nil
}

// List returns the names of all stored templates
func (s *Store) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return names, nil
}

// Delete removes a named template
func (s *Store) Delete(ctx context.Context, name string) error {
	deleted, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete template %q: %w", name, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	s.logger.Debug("Template deleted", zap.String("name", name))
	return nil
}

// Close releases the Redis connection pool
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// maskRedisURL hides credentials before the URL reaches a log line
func maskRedisURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "redis://***"
	}
	if u.User != nil {
		u.User = url.UserPassword("***", "***")
	}
	return u.String()
}
