// Package app wires configuration into the storefront's components.
package app

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-storefront-session/apiclient"
	"github.com/jrsteele09/go-storefront-session/auth"
	"github.com/jrsteele09/go-storefront-session/guard"
	"github.com/jrsteele09/go-storefront-session/internal/config"
	"github.com/jrsteele09/go-storefront-session/storefront"
	"github.com/jrsteele09/go-storefront-session/token"
	"github.com/jrsteele09/go-storefront-session/token/filekv"
	"github.com/jrsteele09/go-storefront-session/token/rediskv"
	tokenfakerepo "github.com/jrsteele09/go-storefront-session/token/repofake"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App holds the wired components. Close releases the token store's connections.
type App struct {
	Store   *token.Store
	Client  *apiclient.Client
	Manager *auth.Manager
	API     *storefront.API
	Table   *guard.Table

	closers []func() error
}

type Option func(*options)

type options struct {
	apiOptions []apiclient.Option
}

// WithAPIClientOptions configures the backend client (e.g., a custom *http.Client)
func WithAPIClientOptions(opts ...apiclient.Option) Option {
	return func(o *options) {
		o.apiOptions = append(o.apiOptions, opts...)
	}
}

func New(ctx context.Context, c config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{}
	kv, closer, err := OpenKV(ctx, c)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.Table, err = LoadRouteTable(c)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Store = token.NewStore(kv)
	a.Client = apiclient.New(c.GetAPIBaseURL(), a.Store, o.apiOptions...)
	a.API = storefront.New(a.Client)
	a.Manager, err = auth.NewManager(ctx, a.Store, auth.NewHTTPAuthenticator(a.Client))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("[App New] %w", err)
	}
	return a, nil
}

func (a *App) Close() error {
	var firstErr error
	for _, closer := range a.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// OpenKV returns the configured token backend and an optional closer
func OpenKV(ctx context.Context, c config.Config) (token.KV, func() error, error) {
	switch c.GetStoreBackend() {
	case config.StoreBackendMemory:
		log.Info().Msg("using in-memory token store")
		return tokenfakerepo.NewFakeKV(), nil, nil

	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr()})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("[OpenKV] redis %s: %w", c.GetRedisAddr(), err)
		}
		log.Info().Str("addr", c.GetRedisAddr()).Msg("using redis token store")
		return rediskv.New(client, c.GetRedisPrefix()), client.Close, nil
	}

	var fileOpts []filekv.Option
	if passphrase := c.GetStorePassphrase(); passphrase != "" {
		fileOpts = append(fileOpts, filekv.WithPassphrase(passphrase))
	}
	kv := filekv.NewInFolder(c.GetDataFolder(), fileOpts...)
	log.Info().Str("path", kv.Path()).Bool("encrypted", len(fileOpts) > 0).Msg("using file token store")
	return kv, nil, nil
}

// LoadRouteTable reads the configured YAML policy, or returns the built-in table
func LoadRouteTable(c config.PolicyConfig) (*guard.Table, error) {
	path := c.GetRoutePolicyFile()
	if path == "" {
		return guard.DefaultTable(), nil
	}
	table, err := guard.LoadTableFile(path)
	if err != nil {
		return nil, fmt.Errorf("[LoadRouteTable] %w", err)
	}
	log.Info().Str("file", path).Strs("routes", table.Paths()).Msg("loaded route policy")
	return table, nil
}
