package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/eio"
	"github.com/aretw0/eio/internal/config"
	"github.com/aretw0/eio/pkg/adapters/file"
	"github.com/aretw0/eio/pkg/adapters/memory"
	"github.com/aretw0/eio/pkg/adapters/redis"
	"github.com/aretw0/eio/pkg/mesher"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/persistence/middleware"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenWorkspace builds a workspace from cfg. The returned closer releases
// backend connections.
func OpenWorkspace(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (*eio.Workspace, io.Closer, error) {
	opts := []eio.Option{
		eio.WithLogger(logger),
		eio.WithMetrics(metrics),
	}
	var closer io.Closer = nopCloser{}

	switch cfg.Backend {
	case config.BackendFile:
		opts = append(opts, eio.WithRepository(file.New(cfg.Dir)))
	case config.BackendMemory:
		opts = append(opts, eio.WithRepository(memory.NewStore()))
	case config.BackendRedis:
		var storeOpts []redis.Option
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = "eio:"
		}
		opts = append(opts,
			eio.WithRepository(store),
			eio.WithLocker(redis.NewLocker(store.Client(), prefix)),
		)
		closer = store
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	key, err := cfg.Key()
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	if key != nil {
		opts = append(opts, eio.WithMiddleware(middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})))
	}
	// innermost, so byte counts are what the backend stores
	if metrics != nil {
		opts = append(opts, eio.WithMiddleware(middleware.NewMetricsMiddleware(metrics)))
	}

	for _, m := range cfg.Meshers {
		opts = append(opts, eio.WithMeshers(mesher.NewProcessMesher(m)))
	}

	logger.Debug("Workspace opened", "backend", cfg.Backend, "encrypted", key != nil, "meshers", len(cfg.Meshers))
	return eio.New(cfg.Dir, opts...), closer, nil
}
