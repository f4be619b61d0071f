package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/repositories/postgres"
	"github.com/upb/casting-agency/services"
	"go.uber.org/zap"
)

// Key set cache sizing. The cache only ever holds one entry per issuer.
const (
	keyCacheCounters = 1000
	keyCacheMaxCost  = 100
	keyCacheBuffer   = 64

	keySetWarmTimeout = 10 * time.Second
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Actors    repositories.ActorRepository
	Movies    repositories.MovieRepository
	Castings  repositories.CastingRepository
	TxManager repositories.TransactionManager

	// Services
	ActorService   *services.ActorService
	MovieService   *services.MovieService
	CastingService *services.CastingService

	// Auth
	KeyCache       *auth.RistrettoCache
	KeySource      *auth.KeySource
	Verifier       *auth.Verifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Auth first so a bad auth config fails before a connection is opened.
	if err := deps.initAuth(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		deps.closeAuth()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the pool and creates the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return err
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Actors = repos.Actors
	d.Movies = repos.Movies
	d.Castings = repos.Castings
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.ActorService = services.NewActorService(d.Actors, d.TxManager, d.Logger)
	d.MovieService = services.NewMovieService(d.Movies, d.TxManager, d.Logger)
	d.CastingService = services.NewCastingService(d.Castings, d.Actors, d.Movies, d.TxManager, d.Logger)
}

// initAuth builds the key set cache, the verifier and the permission
// middleware. The key set is prefetched but a failure there is not fatal.
func (d *Dependencies) initAuth(ctx context.Context, cfg *config.Config) error {
	cache, err := auth.NewRistrettoCache(keyCacheCounters, keyCacheMaxCost, keyCacheBuffer)
	if err != nil {
		return fmt.Errorf("failed to create key set cache: %w", err)
	}
	d.KeyCache = cache

	d.KeySource = auth.NewKeySource(auth.KeySourceConfig{
		URL:                cfg.Auth.KeySetURL(),
		CacheTTL:           cfg.Auth.JWKSCacheTTL,
		MinRefreshInterval: cfg.Auth.JWKSMinRefreshInterval,
		FetchTimeout:       cfg.Auth.JWKSFetchTimeout,
		MaxRetries:         cfg.Auth.JWKSMaxRetries,
		StaleTTL:           cfg.Auth.JWKSStaleTTL,
	}, cache, d.Logger.Named("jwks"))
	d.KeySource.SetHTTPClient(newKeySetClient(cfg.Auth.JWKSFetchTimeout))

	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Domain:     cfg.Auth.Domain,
		Audience:   cfg.Auth.Audience,
		Algorithms: cfg.Auth.Algorithms,
		Leeway:     cfg.Auth.Leeway,
	}, d.KeySource, d.Logger)
	if err != nil {
		d.closeAuth()
		return err
	}
	d.Verifier = verifier
	d.AuthMiddleware = middleware.NewAuthMiddleware(auth.NewGuard(verifier), d.Logger)

	warmCtx, cancel := context.WithTimeout(ctx, keySetWarmTimeout)
	defer cancel()
	if err := d.KeySource.Warm(warmCtx); err != nil {
		d.Logger.Warn("key set prefetch failed, will retry on first request",
			zap.String("url", d.KeySource.URL()),
			zap.Error(err))
	}

	d.Logger.Info("auth initialized",
		zap.String("issuer", verifier.Issuer()),
		zap.String("audience", cfg.Auth.Audience),
		zap.Strings("algorithms", cfg.Auth.Algorithms))
	return nil
}

// newKeySetClient bounds each phase of a key set request by fetchTimeout.
func newKeySetClient(fetchTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: fetchTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   fetchTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   fetchTimeout,
			ResponseHeaderTimeout: fetchTimeout,
			MaxIdleConns:          4,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

func (d *Dependencies) closeAuth() {
	if d.KeyCache != nil {
		d.KeyCache.Close()
		d.KeyCache = nil
	}
}

// Close gracefully shuts down all dependencies. It is safe to call twice.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
		d.DB = nil
	}

	d.closeAuth()

	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
