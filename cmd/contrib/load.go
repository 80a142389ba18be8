package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/contrib/internal/config"
	"github.com/aretw0/contrib/pkg/adapters/memory"
	"github.com/aretw0/contrib/pkg/adapters/redis"
	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/persistence/middleware"
	"github.com/aretw0/contrib/pkg/ports"
	"github.com/aretw0/contrib/pkg/schema"
)

// loadContributions reads and validates the configured contributions file.
func loadContributions() (*schema.File, *domain.Manifest, error) {
	f, err := schema.Load(app.cfg.Contributions)
	if err != nil {
		return nil, nil, err
	}
	m, err := f.Manifest()
	if err != nil {
		return nil, nil, err
	}
	return f, m, nil
}

// newContextStore returns the redis store when one is configured, an in-memory one otherwise.
func newContextStore() (ports.ContextStore, io.Closer, error) {
	rc := app.cfg.Redis
	if rc.Addr == "" {
		return memory.NewStore(), nopCloser{}, nil
	}

	var opts []redis.Option
	if rc.Prefix != "" {
		opts = append(opts, redis.WithPrefix(rc.Prefix))
	}
	if rc.TTL != "" {
		ttl, err := time.ParseDuration(rc.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis ttl: %w", err)
		}
		opts = append(opts, redis.WithTTL(ttl))
	}
	store := redis.New(rc.Addr, rc.Password, rc.DB, opts...)

	mws, err := storeMiddlewares(rc)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	app.logger.Info("using redis context store", "addr", rc.Addr, "middlewares", len(mws))
	return middleware.Chain(store, mws...), store, nil
}

// storeMiddlewares builds the at-rest protections configured for the redis store.
func storeMiddlewares(rc config.RedisConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(rc.Mask) > 0 {
		for _, p := range rc.Mask {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("invalid redis mask pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewPIIMiddleware(rc.Mask))
	}
	if rc.EncryptionKey != "" {
		active, err := middleware.ParseKey(rc.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid redis encryption key: %w", err)
		}
		cfg := middleware.EncryptionConfig{ActiveKey: active}
		for _, k := range rc.FallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("invalid redis fallback key: %w", err)
			}
			cfg.FallbackKeys = append(cfg.FallbackKeys, key)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(cfg))
	}
	return mws, nil
}

// parseValues turns key=value pairs into context values. Values are read as
// JSON when possible and as plain strings otherwise.
func parseValues(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid value %q (want key=value)", pair)
		}
		values[key] = parseValue(raw)
	}
	return values, nil
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// optionalSchema returns the declared context schema, or nil when the file is missing.
func optionalSchema() (schema.Schema, error) {
	f, err := schema.Load(app.cfg.Contributions)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return f.Schema()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
