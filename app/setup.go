package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahilchouksey/edupath-api/api"
	"github.com/sahilchouksey/edupath-api/authbridge"
	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/chat"
	"github.com/sahilchouksey/edupath-api/config"
	"github.com/sahilchouksey/edupath-api/database"
	"github.com/sahilchouksey/edupath-api/handlers"
	"github.com/sahilchouksey/edupath-api/router"
	"github.com/sahilchouksey/edupath-api/services"
	"github.com/sahilchouksey/edupath-api/services/cron"
	"github.com/sahilchouksey/edupath-api/services/openai"
	"github.com/sahilchouksey/edupath-api/services/supabase"
	"github.com/sahilchouksey/edupath-api/utils/auth"
	"github.com/sahilchouksey/edupath-api/utils/cache"
	"github.com/sahilchouksey/edupath-api/utils/logger"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(getEnv.GO_ENV, getEnv.LOG_LEVEL)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared cache: Redis when configured, process-local otherwise
	store := openCache(getEnv, log)
	defer store.Close()

	healthChecks := map[string]handlers.Checker{
		"cache": store.Ping,
	}

	// Catalog
	catalogStore, db, err := loadCatalog(ctx, getEnv, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		healthChecks["database"] = db.HealthCheck
	}

	latency := time.Duration(getEnv.CATALOG_LATENCY_MS) * time.Millisecond
	engine := catalog.NewEngine(catalogStore, catalog.WithLatency(latency, latency*3/5))
	searcher := catalog.NewCachedSearcher(engine, store, getEnv.SEARCH_CACHE_TTL, log.With("component", "search_cache"))

	// Auth provider
	supabaseClient := supabase.NewClient(supabase.Config{
		URL:     getEnv.SUPABASE_URL,
		AnonKey: getEnv.SUPABASE_ANON_KEY,
	})
	bridge := authbridge.New(supabaseClient, log.With("component", "auth"))

	// Completion provider
	completions := openai.NewClient(openai.Config{
		APIKey:            getEnv.OPENAI_API_KEY,
		BaseURL:           getEnv.OPENAI_BASE_URL,
		Model:             getEnv.OPENAI_MODEL,
		RequestsPerSecond: getEnv.OPENAI_RPS,
	})
	advisor := openai.NewAdvisor(completions, log.With("component", "advisor"))

	sessions := chat.NewManager(advisor, getEnv.CHAT_SESSION_TTL, log.With("component", "chat"))

	notifications := services.NewNotificationService(log.With("component", "notifications"))
	subscription := bridge.OnAuthStateChange(notifications.HandleAuthChange)
	defer subscription.Unsubscribe()

	// Initialize Cron Manager (only if enabled via environment variable)
	if getEnv.CRON_ENABLED {
		var dbCheck cron.HealthChecker
		if db != nil {
			dbCheck = db
		}
		cronManager := cron.NewCronManager(sessions, searcher, dbCheck, log)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn("failed to start cron jobs", "error", err)
		} else {
			defer cronManager.Stop()
		}
	}

	verifier := auth.NewTokenVerifier(getEnv.SUPABASE_JWT_SECRET)
	if verifier == nil {
		log.Info("SUPABASE_JWT_SECRET not set, access tokens are checked remotely")
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), log)

	// Setup Routes
	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Searcher:      searcher,
		Sessions:      sessions,
		Bridge:        bridge,
		Recommender:   advisor,
		Notifications: notifications,
		Verifier:      verifier,
		Revocations:   auth.NewRevocationList(store),
		BruteForce:    middleware.NewBruteForceProtection(store, log.With("component", "brute_force")),
		HealthChecks:  healthChecks,
		Security: middleware.SecurityConfig{
			AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
			RateLimitRequests: getEnv.RATE_LIMIT_REQUESTS,
			RateLimitWindow:   getEnv.RATE_LIMIT_WINDOW,
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openCache(env *config.EnvironmentVariable, log *logger.Logger) cache.Store {
	if env.REDIS_URL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return cache.NewMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Warn("failed to connect to Redis, using in-memory cache", "error", err)
		return cache.NewMemoryCache()
	}
	log.Info("connected to Redis")
	return redisCache
}

// loadCatalog builds the catalog from memory or, when configured, from PostgreSQL.
// The returned store is nil for the in-memory source.
func loadCatalog(ctx context.Context, env *config.EnvironmentVariable, log *logger.Logger) (*catalog.Store, *database.GORMStore, error) {
	if env.CATALOG_SOURCE != config.CatalogSourcePostgres {
		return catalog.NewMockStore(), nil, nil
	}

	db, err := database.StartGORM(env, log)
	if err != nil {
		log.Error("check whether PostgreSQL is running", "host", env.DB_HOST, "port", env.DB_PORT)
		return nil, nil, err
	}

	if err := db.Init(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	if err := database.NewSeeder(db).SeedAll(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	catalogStore, err := db.LoadCatalog(ctx)
	if err != nil {
		db.Close()
		if errors.Is(err, catalog.ErrUnknownCollegeRef) {
			return nil, nil, fmt.Errorf("catalog tables are inconsistent: %w", err)
		}
		return nil, nil, err
	}
	return catalogStore, db, nil
}
