package exointel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apihttp "github.com/codenameuriel/exo-intel/internal/adapters/http"
	"github.com/codenameuriel/exo-intel/internal/config"
	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/codenameuriel/exo-intel/pkg/adapters/memory"
	"github.com/codenameuriel/exo-intel/pkg/adapters/redis"
	"github.com/codenameuriel/exo-intel/pkg/adapters/sqlstore"
	"github.com/codenameuriel/exo-intel/pkg/dispatch"
	"github.com/codenameuriel/exo-intel/pkg/observability"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"github.com/codenameuriel/exo-intel/pkg/queue"
	"github.com/codenameuriel/exo-intel/pkg/taskrunner"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// Service wires storage, the task queue and the simulation runner from a
// config.Config. Close releases every connection it opened.
type Service struct {
	cfg    config.Config
	logger *slog.Logger

	db    *sqlstore.DB
	redis *backend.Client

	catalog ports.CatalogStore
	users   ports.UserDirectory
	history ports.RunHistory
	broker  ports.TaskBroker
	results ports.ResultBackend
	locker  ports.DistributedLocker
	metrics *observability.Metrics

	queue  *queue.Queue
	runner *taskrunner.Runner
}

// Option configures the Service.
type Option func(*Service)

// WithLogger overrides the logger built from the config.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRedisClient uses client instead of dialing cfg.Redis.Addr.
func WithRedisClient(client *backend.Client) Option {
	return func(s *Service) { s.redis = client }
}

// Open connects to the database (and Redis when the queue backend asks for
// it) and assembles the service. The schema is not migrated; call Migrate.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, logger: cfg.Logger()}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sqlstore.Open(ctx, cfg.SQL())
	if err != nil {
		return nil, err
	}
	s.db = db
	s.catalog = db.Catalog()
	s.users = db.Users()
	s.history = db.History()

	switch cfg.Queue.Backend {
	case config.QueueRedis:
		if s.redis == nil {
			s.redis = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		}
		if err := s.redis.Ping(ctx).Err(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		s.broker = redis.NewBroker(s.redis, redis.WithPrefix(cfg.Redis.Prefix))
		s.results = redis.NewResults(s.redis, redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Queue.ResultTTL))
		s.locker = redis.NewLocker(s.redis, cfg.Redis.Prefix)
	default:
		s.broker = memory.NewBroker(0)
		s.results = memory.NewResults()
	}

	runnerOpts := []taskrunner.Option{
		taskrunner.WithLogger(s.logger),
		taskrunner.WithDelay(cfg.Simulation.Delay),
	}
	if cfg.Metrics.Enabled {
		s.metrics = observability.NewMetrics(prometheus.NewRegistry())
		runnerOpts = append(runnerOpts, taskrunner.WithHooks(s.metrics.Hooks()))
	}
	s.runner = taskrunner.New(s.users, s.history, dispatch.New(s.catalog), runnerOpts...)
	s.queue = queue.New(s.broker, s.results, s.queueOptions()...)

	s.logger.Debug("service opened", "database", cfg.Database.Driver, "queue", cfg.Queue.Backend)
	return s, nil
}

func (s *Service) queueOptions() []queue.Option {
	opts := []queue.Option{
		queue.WithLogger(s.logger),
		queue.WithConcurrency(s.cfg.Queue.Workers),
		queue.WithTaskTimeout(s.cfg.Queue.TaskTimeout),
	}
	if s.locker != nil {
		opts = append(opts, queue.WithLocker(s.locker))
	}
	return opts
}

// Migrate creates the database schema if needed. It is a no-op for services
// built with NewMemory.
func (s *Service) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Migrate(ctx)
}

// Catalog returns the catalog store.
func (s *Service) Catalog() ports.CatalogStore { return s.catalog }

// Users returns the user directory.
func (s *Service) Users() ports.UserDirectory { return s.users }

// History returns the run history.
func (s *Service) History() ports.RunHistory { return s.history }

// Queue returns the task submission front.
func (s *Service) Queue() *queue.Queue { return s.queue }

// Runner returns the synchronous simulation runner.
func (s *Service) Runner() *taskrunner.Runner { return s.runner }

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (s *Service) Metrics() *observability.Metrics { return s.metrics }

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger { return s.logger }

// Worker builds a worker pool consuming the service queue.
func (s *Service) Worker() *queue.Worker {
	return queue.NewWorker(s.broker, s.results, s.runner, s.queueOptions()...)
}

// Handler builds the HTTP API.
func (s *Service) Handler() (http.Handler, error) {
	opts := []apihttp.Option{
		apihttp.WithLogger(s.logger),
		apihttp.WithVersion(Version),
	}
	if s.db != nil {
		opts = append(opts, apihttp.WithHealthCheck(s.db.Ping))
	}
	if s.metrics != nil {
		opts = append(opts, apihttp.WithMetrics(s.metrics))
	}
	return apihttp.NewHandler(apihttp.Services{
		Catalog: s.catalog,
		Users:   s.users,
		History: s.history,
		Tasks:   s.queue,
	}, opts...)
}

// Close releases the database and Redis connections.
func (s *Service) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}

// NewMemory assembles a service entirely in memory, for tests and examples.
// The catalog starts empty.
func NewMemory(opts ...Option) *Service {
	s := &Service{cfg: config.Default(), logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.catalog = memory.NewCatalog()
	s.users = memory.NewUsers()
	s.history = memory.NewHistory()
	s.broker = memory.NewBroker(0)
	s.results = memory.NewResults()
	s.runner = taskrunner.New(s.users, s.history, dispatch.New(s.catalog), taskrunner.WithLogger(s.logger))
	s.queue = queue.New(s.broker, s.results, s.queueOptions()...)
	return s
}
