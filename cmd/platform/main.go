package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cardiowell/platform/internal/adapters/lab"
	labmssql "github.com/cardiowell/platform/internal/adapters/lab/mssql"
	"github.com/cardiowell/platform/internal/adherence"
	"github.com/cardiowell/platform/internal/ml"
	"github.com/cardiowell/platform/internal/notification"
	screeningapi "github.com/cardiowell/platform/internal/screening/api"
	screeninginfra "github.com/cardiowell/platform/internal/screening/infrastructure"
	"github.com/cardiowell/platform/internal/shared/auth"
	"github.com/cardiowell/platform/internal/shared/config"
	"github.com/cardiowell/platform/internal/shared/database"
	"github.com/cardiowell/platform/internal/shared/events"
	"github.com/cardiowell/platform/internal/shared/metrics"
	secmiddleware "github.com/cardiowell/platform/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	DB     *database.DB
	Bus    *events.Bus
	Lab    *labmssql.Adapter
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	// Initialize database (optional - skip if not available)
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Printf("Warning: Database not available: %v\n", err)
		fmt.Println("Running with in-memory adherence storage only...")
	} else {
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool); err != nil {
			fmt.Printf("Warning: Migration failed: %v\n", err)
		}
	}

	// Initialize event bus (optional - skip if not available)
	bus, err := events.NewBus(ctx, cfg.EventStore)
	if err != nil {
		fmt.Printf("Warning: Event store not available: %v\n", err)
		fmt.Println("Running without event streaming...")
	} else {
		app.Bus = bus
		defer bus.Close()
		fmt.Println("Event bus initialized")
	}

	var eventBus events.EventBus
	if app.Bus != nil {
		eventBus = app.Bus
	}

	// Screening persistence; adherence falls back to in-memory storage
	// when no database is configured
	var screeningRepo *screeninginfra.PostgresRepository
	var logStore adherence.LogStore
	if app.DB != nil {
		screeningRepo = screeninginfra.NewPostgresRepository(app.DB.Pool)
		logStore = adherence.NewPostgresStore(app.DB.Pool)
	} else {
		logStore = adherence.NewMemoryStore()
	}

	scorer := ml.NewClient(cfg.Scorer)
	if scorer.Enabled() {
		fmt.Printf("External risk scorer enabled (service: %s)\n", cfg.Scorer.URL)
	}

	scheduler := notification.NewScheduler()

	var riskSource adherence.RiskSource
	if screeningRepo != nil {
		riskSource = screeningRepo
	}
	tracker := adherence.NewTracker(logStore, riskSource, eventBus, cfg.Adherence)

	// LIS adapter streams hospital lab panels through the same pipeline
	if cfg.Lab.Enabled && screeningRepo != nil {
		app.Lab = labmssql.New(cfg.Lab)
		if err := app.Lab.Start(ctx); err != nil {
			fmt.Printf("Warning: LIS adapter failed to start: %v\n", err)
			app.Lab = nil
		} else {
			importer := lab.NewImporter(app.Lab, screeningRepo, eventBus)
			go importer.Run(ctx)
			fmt.Printf("LIS adapter started (polling every %s)\n", cfg.Lab.PollInterval)
		}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Server.Env == "production" {
			r.Use(auth.Middleware(cfg.Auth))
			limiter := secmiddleware.NewIPRateLimiter(20, 40)
			r.Use(limiter.Middleware)
		}

		adherenceHandler := adherence.NewHandler(tracker)
		notificationHandler := notification.NewHandler(scheduler)

		r.Mount("/adherence", adherenceHandler.Routes())

		if screeningRepo != nil {
			screeningHandler := screeningapi.NewHandler(screeningRepo, scorer, eventBus, scheduler)
			r.Mount("/screenings", screeningHandler.Routes())

			r.Route("/patients/{patientID}", func(r chi.Router) {
				r.Get("/history", screeningHandler.GetHistory)
				r.Mount("/adherence", adherenceHandler.PatientRoutes())
				r.Mount("/notifications", notificationHandler.Routes())
			})
		} else {
			r.Route("/patients/{patientID}", func(r chi.Router) {
				r.Mount("/adherence", adherenceHandler.PatientRoutes())
				r.Mount("/notifications", notificationHandler.Routes())
			})
		}
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if app.Lab != nil {
			if err := app.Lab.Stop(ctx); err != nil {
				fmt.Printf("LIS adapter shutdown error: %v\n", err)
			}
		}

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("CardioWell Screening Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment:    %s\n", cfg.Server.Env)
	fmt.Printf("Server:         http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:            http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:         http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Event store:    %s:%d\n", cfg.EventStore.Host, cfg.EventStore.Port)
	fmt.Printf("Risk scorer:    enabled=%v\n", cfg.Scorer.Enabled)
	fmt.Printf("LIS adapter:    enabled=%v\n", cfg.Lab.Enabled)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "CardioWell Screening Platform",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				checks["database"] = "not ready: " + err.Error()
			} else {
				checks["database"] = "ready"
			}
		} else {
			checks["database"] = "not configured"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["eventstore"] = "not ready: " + err.Error()
			} else {
				checks["eventstore"] = "ready"
			}
		} else {
			checks["eventstore"] = "not configured"
		}

		if app.Lab != nil {
			if err := app.Lab.Health(r.Context()); err != nil {
				checks["lis"] = "not ready: " + err.Error()
			} else {
				checks["lis"] = "ready"
			}
		} else {
			checks["lis"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
