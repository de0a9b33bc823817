package ironvault

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/HassanShehryar1/IronVault-Gym-Management/credential"
	"github.com/HassanShehryar1/IronVault-Gym-Management/dedupe"
	"github.com/HassanShehryar1/IronVault-Gym-Management/lock"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
)

// OutflowLockKey guards every check-then-commit sequence that spends money.
const OutflowLockKey = "ironvault:ledger:outflows"

// Gym is the gym-management engine.
type Gym struct {
	store    store.Store
	plugins  *plugin.Registry
	logger   *slog.Logger
	locker   lock.Locker
	dedupe   dedupe.Set
	validate *validator.Validate

	// Background workers
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Configuration
	now            func() time.Time
	location       *time.Location
	currency       string
	storeTimeout   time.Duration
	expiryInterval time.Duration
	passwordParams credential.Params
	skipMigrate    bool
}

// New creates a new Gym instance.
func New(s store.Store, opts ...Option) *Gym {
	g := &Gym{
		store:          s,
		plugins:        plugin.NewRegistry(),
		logger:         slog.Default(),
		locker:         lock.NewLocal(),
		dedupe:         dedupe.NewMemory(),
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		stopChan:       make(chan struct{}),
		now:            time.Now,
		location:       time.Local,
		currency:       "usd",
		storeTimeout:   10 * time.Second,
		passwordParams: credential.DefaultParams,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Option configures a Gym instance.
type Option func(*Gym)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gym) {
		g.logger = logger
		g.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(g *Gym) {
		_ = g.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithHookTimeout bounds each plugin call.
func WithHookTimeout(d time.Duration) Option {
	return func(g *Gym) { g.plugins.WithTimeout(d) }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gym) { g.now = now }
}

// WithLocation sets the zone that defines calendar days and pay periods.
func WithLocation(loc *time.Location) Option {
	return func(g *Gym) { g.location = loc }
}

// WithCurrency sets the ledger currency. Every amount handed to the engine
// must use it.
func WithCurrency(currency string) Option {
	return func(g *Gym) { g.currency = currency }
}

// WithStoreTimeout bounds each operation's store calls and lock waits.
func WithStoreTimeout(d time.Duration) Option {
	return func(g *Gym) { g.storeTimeout = d }
}

// WithLocker replaces the in-process outflow lock, e.g. with lock.NewRedis
// when several instances share one database.
func WithLocker(l lock.Locker) Option {
	return func(g *Gym) { g.locker = l }
}

// WithDeduper replaces the in-process expiry-notice dedupe set.
func WithDeduper(d dedupe.Set) Option {
	return func(g *Gym) { g.dedupe = d }
}

// WithExpiryScan runs ProcessDailyExpirations every interval while started.
func WithExpiryScan(interval time.Duration) Option {
	return func(g *Gym) { g.expiryInterval = interval }
}

// WithoutMigrate makes Start skip the store migration.
func WithoutMigrate() Option {
	return func(g *Gym) { g.skipMigrate = true }
}

// WithPasswordParams sets the argon2id cost used for new credentials.
func WithPasswordParams(p credential.Params) Option {
	return func(g *Gym) { g.passwordParams = p }
}

// Plugins exposes the registry so callers can register plugins after New.
func (g *Gym) Plugins() *plugin.Registry { return g.plugins }

// Store returns the underlying store.
func (g *Gym) Store() store.Store { return g.store }

// Currency returns the ledger currency.
func (g *Gym) Currency() string { return g.currency }

// Start migrates the store, initializes plugins and begins background workers.
func (g *Gym) Start(ctx context.Context) error {
	if !g.skipMigrate {
		if err := g.store.Migrate(ctx); err != nil {
			return fmt.Errorf("ironvault: migrate: %w", err)
		}
	}

	g.plugins.EmitInit(ctx, g)

	if g.expiryInterval > 0 {
		g.wg.Add(1)
		go g.expiryWorker()
	}

	g.logger.Info("ironvault started",
		"currency", g.currency,
		"store_timeout", g.storeTimeout,
		"expiry_interval", g.expiryInterval,
		"plugins", g.plugins.Count(),
	)

	return nil
}

// Stop shuts down background workers, notifies plugins and closes the store.
func (g *Gym) Stop() error {
	g.stopOnce.Do(func() { close(g.stopChan) })
	g.wg.Wait()

	g.plugins.EmitShutdown(context.Background())
	g.logger.Info("ironvault stopped")

	return g.store.Close()
}

// expiryWorker runs the daily expiration scan on a ticker.
func (g *Gym) expiryWorker() {
	defer g.wg.Done()

	ticker := time.NewTicker(g.expiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := g.ProcessDailyExpirations(context.Background())
			if err != nil {
				g.logger.Error("expiration scan failed", "error", err)
				continue
			}
			if n > 0 {
				g.logger.Info("expiration notices sent", "count", n)
			}
		case <-g.stopChan:
			return
		}
	}
}

// clock returns the current time in the engine location.
func (g *Gym) clock() time.Time {
	return g.now().In(g.location)
}

func (g *Gym) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.storeTimeout)
}

// withLock runs fn while holding key.
func (g *Gym) withLock(ctx context.Context, key string, fn func(context.Context) error) error {
	release, err := g.locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("ironvault: acquire %s: %w", key, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			g.logger.Warn("lock release failed", "key", key, "error", err)
		}
	}()
	return fn(ctx)
}

// withOutflow runs fn under the outflow lock.
func (g *Gym) withOutflow(ctx context.Context, fn func(context.Context) error) error {
	return g.withLock(ctx, OutflowLockKey, fn)
}
