// ABOUTME: Factories that turn a Config into the storage, cache, source, notifier, and identity.
// ABOUTME: Each factory validates its kind and reports unknown values.
package config

import (
	"fmt"

	"github.com/harperreed/bandwidth/internal/biometrics"
	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/charm"
	"github.com/harperreed/bandwidth/internal/identity"
	"github.com/harperreed/bandwidth/internal/notify"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenStorage opens the SQLite repository in the data directory.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.DBPath())
}

// RedisClient builds a client from the redis section.
func (c *Config) RedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}

// MetricStore is a cache.Store plus whatever must be closed with it.
type MetricStore struct {
	cache.Store
	Identity identity.Provider
	closers  []func() error
}

// Close releases backend resources.
func (m *MetricStore) Close() error {
	var first error
	for _, fn := range m.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenMetricStore builds the configured metric store. The charm backend also
// supplies the identity from the linked account; other backends use user_id.
func (c *Config) OpenMetricStore(repo *storage.DB, logger *zap.Logger) (*MetricStore, error) {
	switch c.GetBackend() {
	case BackendSQLite:
		return &MetricStore{Store: cache.NewDocumentStore(repo), Identity: identity.Static(c.UserID)}, nil

	case BackendCharm:
		client, err := charm.Open(charm.DefaultDBName)
		if err != nil {
			return nil, err
		}
		var id identity.Provider = identity.NewAccount(client)
		if c.UserID != "" {
			id = identity.Static(c.UserID)
		}
		return &MetricStore{
			Store:    charm.NewMetricStore(client, logger),
			Identity: id,
			closers:  []func() error{client.Close},
		}, nil

	case BackendRedis:
		client := c.RedisClient()
		return &MetricStore{
			Store:    cache.NewRedisStore(client, logger),
			Identity: identity.Static(c.UserID),
			closers:  []func() error{client.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// OpenSource builds the configured biometric source.
func (c *Config) OpenSource(repo *storage.DB, logger *zap.Logger) (biometrics.Source, error) {
	switch c.Source.Kind {
	case "", SourceLocal:
		return biometrics.NewLocalSource(repo), nil
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			return nil, fmt.Errorf("source.base_url is required for the http source")
		}
		return biometrics.NewHTTPSource(biometrics.HTTPConfig{
			BaseURL: c.Source.BaseURL,
			Token:   c.Source.Token,
			Timeout: c.Source.Timeout,
			Retries: c.Source.Retries,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown source kind: %q", c.Source.Kind)
	}
}

// Notifier is a notify.Sender plus whatever must be closed with it.
type Notifier struct {
	notify.Sender
	closers []func() error
}

// Close releases the sender's connections.
func (n *Notifier) Close() error {
	var first error
	for _, fn := range n.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenSender builds the configured notification sender.
func (c *Config) OpenSender(logger *zap.Logger) (*Notifier, error) {
	switch c.Notify.Kind {
	case "", NotifyLog:
		return &Notifier{Sender: notify.NewLogSender(logger)}, nil
	case NotifyWebhook:
		if c.Notify.URL == "" {
			return nil, fmt.Errorf("notify.url is required for the webhook notifier")
		}
		return &Notifier{Sender: notify.NewWebhookSender(c.Notify.URL, c.Notify.Token, c.Source.Timeout, logger)}, nil
	case NotifyRedis:
		client := c.RedisClient()
		return &Notifier{
			Sender:  notify.NewRedisSender(client, c.Redis.Channel),
			closers: []func() error{client.Close},
		}, nil
	default:
		return nil, fmt.Errorf("unknown notify kind: %q", c.Notify.Kind)
	}
}
