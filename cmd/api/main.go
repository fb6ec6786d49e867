// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dangerclosesec/transpiler"
	"github.com/dangerclosesec/transpiler/internal/auth"
	"github.com/dangerclosesec/transpiler/internal/config"
	"github.com/dangerclosesec/transpiler/internal/handler"
	"github.com/dangerclosesec/transpiler/internal/middleware"
	"github.com/dangerclosesec/transpiler/internal/repository"
	"github.com/dangerclosesec/transpiler/internal/service"
	"github.com/dangerclosesec/transpiler/translator"
	"github.com/dangerclosesec/transpiler/translator/grammarstore"
	"github.com/dangerclosesec/transpiler/translator/migration"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// historyLimit bounds the in-memory history used without a database.
const historyLimit = 1000

// grammarSyncInterval is how often a database-backed server picks up
// grammar versions migrated by other processes.
const grammarSyncInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     parseLevel(cfg.LogLevel),
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tcfg := transpiler.NewConfig(ctx, nil)
	tcfg.SetLogger(logger)
	tcfg.SetTablePrefix(cfg.Translator.TablePrefix)
	if cfg.Translator.GrammarPath != "" {
		tcfg.SetGrammarPath(cfg.Translator.GrammarPath)
	}

	tr, err := translator.New(tcfg)
	if err != nil {
		return fmt.Errorf("creating translator: %w", err)
	}

	var (
		repo     repository.TranslationRepositoryIface
		migrator service.GrammarMigrator
		source   service.GrammarSource
	)

	if cfg.Database.Enabled {
		db, err := setupDatabase(cfg)
		if err != nil {
			return fmt.Errorf("setting up database: %w", err)
		}

		gormRepo := repository.NewTranslationRepository(db)
		if err := gormRepo.Migrate(ctx); err != nil {
			return err
		}
		repo = gormRepo

		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("getting database instance: %w", err)
		}
		tcfg.SetDB(sqlDB)

		m := migration.NewMigrator(tcfg)
		if err := m.InitializeSchema(); err != nil {
			return fmt.Errorf("initializing grammar schema: %w", err)
		}
		migrator = m

		store, err := grammarstore.New(ctx, cfg.DatabaseURL(), cfg.Translator.TablePrefix)
		if err != nil {
			return fmt.Errorf("opening grammar store: %w", err)
		}
		defer store.Close()
		source = store
	} else {
		logger.Warn("database disabled, translation history is kept in memory", "limit", historyLimit)
		repo = repository.NewMemoryTranslationRepository(historyLimit)
	}

	cacheService := service.NewCacheService(service.CacheConfig{
		TTL:         cfg.Translator.CacheTTL,
		CleanupFreq: cfg.Translator.CleanupFreq,
	})
	defer cacheService.Close()

	translationService := service.NewTranslationService(repo, tr, cacheService, cfg.Translator.MaxSourceBytes, logger)
	grammarService := service.NewGrammarService(tr, migrator, source, logger)

	if err := grammarService.Sync(ctx); err != nil {
		return fmt.Errorf("loading stored grammar: %w", err)
	}
	if source != nil {
		go syncGrammar(ctx, grammarService, logger)
	}

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	translationHandler := handler.NewTranslationHandler(translationService, cfg.Translator.MaxSourceBytes)
	grammarHandler := handler.NewGrammarHandler(grammarService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","grammar_version":%d}`, grammarService.Current().Version)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/translations", func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json", "multipart/form-data"))
			translationHandler.Routes(r)
		})

		r.Get("/grammar", grammarHandler.Show)

		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Use(middleware.RequireScope(tokenManager, auth.ScopeGrammarAdmin))

			r.Put("/grammar", grammarHandler.Update)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "database", cfg.Database.Enabled)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func syncGrammar(ctx context.Context, grammarService *service.GrammarService, logger *slog.Logger) {
	ticker := time.NewTicker(grammarSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := grammarService.Sync(ctx); err != nil {
				logger.Error("grammar sync failed", "error", err)
			}
		}
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
