package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/txgraph"
	"github.com/aretw0/txgraph/internal/config"
	"github.com/aretw0/txgraph/pkg/adapters/blockchair"
	"github.com/aretw0/txgraph/pkg/adapters/file"
	"github.com/aretw0/txgraph/pkg/adapters/memory"
	"github.com/aretw0/txgraph/pkg/adapters/redis"
	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/aretw0/txgraph/pkg/edges"
	"github.com/aretw0/txgraph/pkg/ports"
)

// OpenStore creates the record store selected by cfg. The returned close func is never nil.
func OpenStore(cfg *config.Config) (ports.RecordStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreFile, "":
		return file.New(cfg.DataDir), noop, nil
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreRedis:
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

// newProvider creates the Blockchair client described by cfg.
func newProvider(cfg *config.Config, logger *slog.Logger) *blockchair.Client {
	return blockchair.New(cfg.APIURL,
		blockchair.WithAPIKey(cfg.APIKey),
		blockchair.WithChain(cfg.Chain),
		blockchair.WithRateLimit(cfg.RatePerSecond),
		blockchair.WithTimeout(cfg.Timeout),
		blockchair.WithLogger(logger),
	)
}

// annotatorFromFlags builds the edge annotator from the --time, --btc and --usd flags.
func annotatorFromFlags(timeFlag string, btc, usd bool) (edges.Annotator, error) {
	granularity, err := edges.ParseTimeGranularity(timeFlag)
	if err != nil {
		return edges.Annotator{}, err
	}
	return edges.Annotator{
		Time:   granularity,
		Values: edges.ValueSet{Native: btc, Fiat: usd},
	}, nil
}

// createEngine initializes a txgraph engine with standard CLI conventions.
func createEngine(opts RunOptions, cfg *config.Config, store ports.RecordStore, hooks domain.LifecycleHooks, logger *slog.Logger) (*txgraph.Engine, error) {
	policy, err := domain.ParsePolicy(opts.Source)
	if err != nil {
		return nil, err
	}
	annotator, err := annotatorFromFlags(opts.Time, opts.BTC, opts.USD)
	if err != nil {
		return nil, err
	}

	engineOpts := []txgraph.Option{
		txgraph.WithStore(store),
		txgraph.WithPolicy(policy),
		txgraph.WithLenient(opts.Lenient),
		txgraph.WithAnnotator(annotator),
		txgraph.WithLifecycleHooks(hooks),
		txgraph.WithLogger(logger),
	}
	if policy != domain.PolicyOffline {
		engineOpts = append(engineOpts, txgraph.WithProvider(newProvider(cfg, logger)))
	}

	engine, err := txgraph.New(cfg.DataDir, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
