package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gridiron-labs/gridiron-edge/internal/auth"
	"github.com/gridiron-labs/gridiron-edge/internal/cache"
	"github.com/gridiron-labs/gridiron-edge/internal/config"
	"github.com/gridiron-labs/gridiron-edge/internal/dal"
	"github.com/gridiron-labs/gridiron-edge/internal/handlers"
	"github.com/gridiron-labs/gridiron-edge/internal/logger"
	"github.com/gridiron-labs/gridiron-edge/internal/metrics"
	"github.com/gridiron-labs/gridiron-edge/internal/mocks"
	"github.com/gridiron-labs/gridiron-edge/internal/platform"
	"github.com/gridiron-labs/gridiron-edge/internal/pubsub"
	"github.com/gridiron-labs/gridiron-edge/internal/scoring"
	"github.com/gridiron-labs/gridiron-edge/internal/warehouse"
)

var (
	dataStore    dal.Store
	authProvider auth.Provider
	ps           *pubsub.PubSub
	statsSource  warehouse.StatsSource
	league       config.League
)

func main() {
	// Initialize logger first
	logger.Init()

	logger.Info("Starting gridiron-edge scoring engine")

	var err error
	league, err = config.Load(os.Getenv("LEAGUE_CONFIG"))
	if err != nil {
		logger.Error("Failed to load league config", "error", err)
		log.Fatalf("Failed to load league config: %v", err)
	}
	logger.Info("League configured", "scoring", league.Scoring, "teams", league.TeamCount, "season", league.Season)

	// Initialize database driver
	dbDriver := os.Getenv("DB_DRIVER")
	if dbDriver == "" {
		dbDriver = "memory"
	}

	switch dbDriver {
	case "memory":
		dataStore = dal.NewMemoryStore()
		logger.Info("Using in-memory data store")
	case "sqlite":
		sqliteFile := os.Getenv("SQLITE_FILE")
		if sqliteFile == "" {
			sqliteFile = "league.sqlite"
		}
		dataStore, err = dal.NewSQLiteStore(sqliteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", sqliteFile)
	case "postgres":
		dbConnString := os.Getenv("DATABASE_URL")
		if dbConnString == "" {
			logger.Error("DATABASE_URL environment variable is required for postgres driver")
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		dataStore, err = dal.NewPostgresStore(dbConnString)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres database")
	default:
		logger.Error("Unknown DB_DRIVER", "driver", dbDriver)
		log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", dbDriver)
	}

	loadSeedFiles()

	// Initialize pub/sub (NATS JetStream or Embedded NATS for local development)
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	natsSubject := os.Getenv("NATS_SUBJECT")
	if natsSubject == "" {
		natsSubject = "league.events"
	}

	environment := os.Getenv("ENVIRONMENT")
	var upstream pubsub.Upstream

	// Use embedded NATS in development mode, real NATS in production
	if environment == "" || environment == "development" {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = natsSubject
		embeddedNats, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		upstream = embeddedNats
		logger.Info("Embedded NATS server ready", "url", embeddedNats.ServerURL())
	} else {
		logger.Info("Using NATS JetStream for production")
		realNats, err := pubsub.NewNATSPubSub(natsURL, natsSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		upstream = realNats
		logger.Info("Connected to NATS", "url", natsURL)
	}

	ps = pubsub.NewWithUpstream(upstream)

	// Initialize the stats warehouse (ClickHouse in production, canned data otherwise)
	if environment == "" || environment == "development" {
		logger.Info("Using mock stats warehouse for local development (no ClickHouse server required)")
		statsSource = mocks.NewMockWarehouse()
	} else {
		chAddr := os.Getenv("CLICKHOUSE_ADDR")
		if chAddr == "" {
			chAddr = "localhost:9000"
		}
		chDB := os.Getenv("CLICKHOUSE_DB")
		if chDB == "" {
			chDB = "default"
		}
		chUser := os.Getenv("CLICKHOUSE_USER")
		if chUser == "" {
			chUser = "default"
		}
		chPass := os.Getenv("CLICKHOUSE_PASSWORD")

		statsSource, err = warehouse.NewClient(chAddr, chDB, chUser, chPass)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", chAddr)
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		logger.Info("Connected to ClickHouse", "address", chAddr, "database", chDB)
	}

	// Periodic stats sync from the warehouse
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		syncPlayerStats()

		for range ticker.C {
			syncPlayerStats()
		}
	}()

	// Periodic injury sync from the league platform
	var platformClient platform.LeagueClient
	if environment == "production" && os.Getenv("SLEEPER_LEAGUE_ID") != "" {
		platformClient = platform.NewSleeperClient()
	} else {
		platformClient = platform.NewMockClient()
	}
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		syncPlatformInjuries(platformClient)

		for range ticker.C {
			syncPlatformInjuries(platformClient)
		}
	}()

	// Recommendation cache (Redis when configured, otherwise in-process)
	var recCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		recCache, err = cache.NewRedisCache(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err, "address", redisAddr)
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.Info("Connected to Redis cache", "address", redisAddr)
	} else {
		recCache = cache.NewMemoryCache()
		logger.Info("Using in-process recommendation cache")
	}

	// Initialize authentication
	// Use mock auth in development mode, the OIDC provider in production
	if environment == "" || environment == "development" {
		logger.Info("Using mock authentication for local development (no OIDC provider required)")
		authProvider = auth.NewMockAuth()
	} else {
		oidcAuthURL := os.Getenv("OIDC_AUTH_URL")
		oidcTokenURL := os.Getenv("OIDC_TOKEN_URL")
		oidcUserInfoURL := os.Getenv("OIDC_USERINFO_URL")
		oidcClientID := os.Getenv("OIDC_CLIENT_ID")
		oidcClientSecret := os.Getenv("OIDC_CLIENT_SECRET")
		oidcRedirectURL := os.Getenv("OIDC_REDIRECT_URL")

		if oidcAuthURL == "" || oidcTokenURL == "" || oidcClientID == "" || oidcClientSecret == "" {
			logger.Error("OIDC_AUTH_URL, OIDC_TOKEN_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET environment variables are required for production")
			log.Fatal("OIDC_AUTH_URL, OIDC_TOKEN_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET environment variables are required for production")
		}
		if oidcRedirectURL == "" {
			oidcRedirectURL = "http://localhost:3000/auth/callback"
		}

		authProvider = auth.NewOIDCAuth(&auth.OIDCConfig{
			AuthURL:      oidcAuthURL,
			TokenURL:     oidcTokenURL,
			UserInfoURL:  oidcUserInfoURL,
			LogoutURL:    os.Getenv("OIDC_LOGOUT_URL"),
			ClientID:     oidcClientID,
			ClientSecret: oidcClientSecret,
			RedirectURL:  oidcRedirectURL,
		})
		logger.Info("Connected to OIDC provider", "auth_url", oidcAuthURL)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()

	// Auth routes (public)
	mux.HandleFunc("/auth/login", authProvider.LoginHandler)
	mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
	mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)

	// API routes
	api := handlers.NewAPIHandlers(dataStore, ps, recCache, statsSource, league)

	// Players API
	mux.HandleFunc("/api/players", instrument("/api/players", api.ListPlayers))
	mux.HandleFunc("/api/players/top", instrument("/api/players/top", api.TopPlayers))
	mux.HandleFunc("/api/players/profile", instrument("/api/players/profile", api.GetPlayerProfile))
	mux.HandleFunc("/api/players/replacements", instrument("/api/players/replacements", api.GetReplacements))

	// Injuries API
	mux.HandleFunc("/api/injuries", instrument("/api/injuries", injuriesHandler(api)))

	// Trade API (analysis endpoints require a session)
	mux.HandleFunc("/api/trade/analyze", instrument("/api/trade/analyze", authProvider.Middleware(api.AnalyzeTrade)))

	// Draft API
	mux.HandleFunc("/api/draft/state", instrument("/api/draft/state", api.GetDraftState))
	mux.HandleFunc("/api/draft/pick", instrument("/api/draft/pick", api.DraftPick))
	mux.HandleFunc("/api/draft/reset", instrument("/api/draft/reset", api.ResetDraft))
	mux.HandleFunc("/api/draft/recommendations", instrument("/api/draft/recommendations", authProvider.Middleware(api.GetDraftRecommendations)))

	// Rosters API
	mux.HandleFunc("/api/rosters", instrument("/api/rosters", rostersHandler(api)))
	mux.HandleFunc("/api/roster/stats", instrument("/api/roster/stats", api.GetRosterStats))
	mux.HandleFunc("/api/roster/lineup", instrument("/api/roster/lineup", api.GetRosterLineup))
	mux.HandleFunc("/api/roster/opportunities", instrument("/api/roster/opportunities", api.GetOpportunities))

	// SSE for realtime updates (not instrumented, connections are long-lived)
	mux.HandleFunc("/api/events", api.EventsSSE)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// Health check endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	addr := "0.0.0.0:" + port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// injuriesHandler dispatches GET to the list and POST to the update
func injuriesHandler(api *handlers.APIHandlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			api.SetInjury(w, r)
			return
		}
		api.ListInjuries(w, r)
	}
}

// rostersHandler dispatches GET to the list and POST to roster creation
func rostersHandler(api *handlers.APIHandlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			api.AddRoster(w, r)
			return
		}
		api.ListRosters(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// instrument records request counts and latency per route
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.ObserveRequest(route, r.Method, rec.status, time.Since(start))
	}
}

// loadSeedFiles replaces the seed pool from CSV exports when configured
func loadSeedFiles() {
	if statsPath := os.Getenv("PLAYER_STATS_CSV"); statsPath != "" {
		f, err := os.Open(statsPath)
		if err != nil {
			logger.Error("Failed to open player stats CSV", "error", err, "path", statsPath)
			log.Fatalf("Failed to open player stats CSV: %v", err)
		}
		players, err := dal.LoadPlayersCSV(f)
		f.Close()
		if err != nil {
			logger.Error("Failed to parse player stats CSV", "error", err, "path", statsPath)
			log.Fatalf("Failed to parse player stats CSV: %v", err)
		}

		// Recompute fantasy points under the configured scoring format
		for i := range players {
			scoring.Rescore(&players[i], league.Scoring)
		}
		if err := dataStore.ReplacePlayers(players); err != nil {
			logger.Error("Failed to load players", "error", err)
			log.Fatalf("Failed to load players: %v", err)
		}
		logger.Info("Loaded player pool from CSV", "path", statsPath, "players", len(players))
	}

	if injuryPath := os.Getenv("INJURY_CSV"); injuryPath != "" {
		f, err := os.Open(injuryPath)
		if err != nil {
			logger.Error("Failed to open injury CSV", "error", err, "path", injuryPath)
			log.Fatalf("Failed to open injury CSV: %v", err)
		}
		names, err := dal.LoadInjuredCSV(f)
		f.Close()
		if err != nil {
			logger.Error("Failed to parse injury CSV", "error", err, "path", injuryPath)
			log.Fatalf("Failed to parse injury CSV: %v", err)
		}

		for _, name := range names {
			if err := dataStore.SetInjured(name, true); err != nil {
				logger.Warn("Skipping injury for unknown player", "player", name, "error", err)
			}
		}
		logger.Info("Loaded injury report from CSV", "path", injuryPath, "injured", len(names))
	}
}

// syncPlayerStats pulls season aggregates from the warehouse into the store
func syncPlayerStats() {
	logger.Info("Syncing player stats from warehouse", "season", league.Season)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := statsSource.SyncPlayerStats(ctx, league.Season, dataStore.UpsertPlayer)
	if err != nil {
		metrics.StatsSyncs.WithLabelValues("error").Inc()
		logger.Error("Failed to sync player stats", "error", err)
		return
	}

	injured, err := statsSource.InjuredNames(ctx, league.Season)
	if err != nil {
		metrics.StatsSyncs.WithLabelValues("error").Inc()
		logger.Error("Failed to sync injury report", "error", err)
		return
	}
	for _, name := range injured {
		if err := dataStore.SetInjured(name, true); err != nil {
			logger.Warn("Skipping injury for unknown player", "player", name, "error", err)
		}
	}

	metrics.StatsSyncs.WithLabelValues("success").Inc()
	ps.Publish(pubsub.Event{Type: pubsub.EventStatsSynced})
	logger.Info("Player stats synced", "injured", len(injured))
}

// syncPlatformInjuries mirrors injury designations from the league platform
func syncPlatformInjuries(client platform.LeagueClient) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	players, err := client.GetPlayers(ctx)
	if err != nil {
		logger.Error("Failed to fetch platform player directory", "error", err)
		return
	}

	updated := 0
	for _, p := range players {
		switch p.InjuryStatus {
		case "Out", "Doubtful", "IR":
			if err := dataStore.SetInjured(p.FullName, true); err == nil {
				updated++
			}
		}
	}
	if updated > 0 {
		ps.Publish(pubsub.Event{Type: pubsub.EventInjuryUpdate})
		logger.Info("Platform injuries synced", "updated", updated)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	// Check database connectivity
	if dataStore != nil {
		_, err := dataStore.State()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	// Check warehouse connectivity (only in production)
	environment := os.Getenv("ENVIRONMENT")
	if environment == "production" && statsSource != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		_, err := statsSource.InjuredNames(ctx, league.Season)
		cancel()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["warehouse"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["warehouse"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	}

	// NATS connection health is handled internally by the client
	if environment == "production" && ps != nil {
		checks["nats"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// livenessHandler handles Kubernetes liveness probes
// Returns 200 if the application is running (doesn't check dependencies)
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes
// Returns 200 if the application is ready to serve traffic (checks critical dependencies)
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore != nil {
		_, err := dataStore.State()
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "not_ready",
				"reason":    "database_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
