package internal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/2beens/kneerehab/internal/config"
	"github.com/2beens/kneerehab/internal/cue"
	"github.com/2beens/kneerehab/internal/store"
	"github.com/2beens/kneerehab/internal/telemetry/metrics"
	"github.com/2beens/kneerehab/internal/tracker"
	"github.com/2beens/kneerehab/pkg"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// App bundles everything opened from a config: store backend, metrics
// and the tracker. Every binary goes through it.
type App struct {
	Config         *config.Config
	Store          *store.Store
	Tracker        *tracker.Tracker
	MetricsManager *metrics.Manager
	// Cues holds workout cues for the UI to play; nil without cue output.
	Cues *cue.Queue

	promRegistry *prometheus.Registry
}

type NewAppParams struct {
	Config        *config.Config
	RedisPassword string
	// CueOutput receives the terminal bell cues; no cues when nil.
	CueOutput io.Writer
	// Now is the time the tracker is opened at; time.Now when zero.
	Now time.Time
}

func NewApp(ctx context.Context, params NewAppParams) (*App, error) {
	cfg := params.Config
	if cfg == nil {
		return nil, fmt.Errorf("config missing")
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("kneerehab", "app", promRegistry)

	backend, err := OpenBackend(ctx, cfg, params.RedisPassword)
	if err != nil {
		return nil, err
	}
	st := store.New(backend, metricsManager)

	var (
		player cue.Player = cue.Nop{}
		cues   *cue.Queue
	)
	if params.CueOutput != nil {
		cues = cue.NewQueue(cue.NewTerminal(params.CueOutput, metricsManager))
		player = cues
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	t := tracker.New(ctx, tracker.Params{
		Store:          st,
		MetricsManager: metricsManager,
		Player:         player,
		ExportDir:      cfg.ExportDir,
	}, now)

	return &App{
		Config:         cfg,
		Store:          st,
		Tracker:        t,
		MetricsManager: metricsManager,
		Cues:           cues,
		promRegistry:   promRegistry,
	}, nil
}

// OpenBackend opens the store backend named in the config, wrapped in the
// read-through cache when a cache size is set.
func OpenBackend(ctx context.Context, cfg *config.Config, redisPassword string) (store.Backend, error) {
	var backend store.Backend
	switch cfg.StoreBackend {
	case config.StoreBackendBadger:
		if err := pkg.EnsureDir(cfg.BadgerPath); err != nil {
			return nil, fmt.Errorf("badger dir %s: %w", cfg.BadgerPath, err)
		}
		b, err := store.NewBadgerBackend(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		backend = b
		log.Debugf("using badger store at [%s]", cfg.BadgerPath)
	case config.StoreBackendRedis:
		if redisPassword == "" {
			log.Warnln("redis password not set. use KNEE_REDIS_PASS")
		}
		rdb := store.NewRedisClient(store.RedisParams{
			Socket:    cfg.RedisSocket,
			Host:      cfg.RedisHost,
			Port:      cfg.RedisPort,
			Password:  redisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		backend = store.NewRedisBackend(ctx, rdb, cfg.RedisKeyPrefix)
		log.Debugf("using redis store, key prefix [%s]", cfg.RedisKeyPrefix)
	case config.StoreBackendMemory:
		backend = store.NewMemoryBackend()
		log.Warnln("using in-memory store, nothing will be persisted")
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}

	if cfg.CacheSize > 0 {
		backend = store.NewCachedBackend(backend, cfg.CacheSize)
	}
	return backend, nil
}

// Close closes the store and dumps the metrics textfile, if configured.
func (a *App) Close() error {
	var err error
	if dumpErr := metrics.DumpTextfile(a.Config.MetricsTextfile, a.promRegistry); dumpErr != nil {
		err = multierr.Append(err, dumpErr)
	}
	if closeErr := a.Store.Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("close store: %w", closeErr))
	}
	return err
}
