package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SharathChampzz/Community-Streak/handlers"
	"github.com/SharathChampzz/Community-Streak/internal/auth"
	"github.com/SharathChampzz/Community-Streak/internal/clock"
	"github.com/SharathChampzz/Community-Streak/internal/scheduler"
	"github.com/SharathChampzz/Community-Streak/internal/store"
	"github.com/SharathChampzz/Community-Streak/middleware"
	"github.com/SharathChampzz/Community-Streak/services"
)

var (
	dbPool         *pgxpool.Pool
	userService    *services.UserService
	eventService   *services.EventService
	streakService  *services.StreakService
	resetScheduler *scheduler.ResetScheduler
	tokenIssuer    *auth.TokenIssuer
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	accessSecret := os.Getenv("JWT_SECRET_KEY")
	refreshSecret := os.Getenv("REFRESH_SECRET_KEY")
	if accessSecret == "" || refreshSecret == "" {
		log.Fatal("JWT_SECRET_KEY and REFRESH_SECRET_KEY environment variables must be set")
	}
	tokenIssuer = auth.NewTokenIssuer(accessSecret, refreshSecret)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to PostgreSQL")

	clk := clock.SystemClock{}
	stores := store.New(dbPool)

	userService = services.NewUserService(stores.Users, stores.Memberships, stores.Events, tokenIssuer, clk)
	eventService = services.NewEventService(stores.Events, clk)
	streakService = services.NewStreakService(stores.Memberships, stores.Events, clk)
	resetScheduler = scheduler.New(stores.Memberships, clk)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService, streakService)
	motivationHandler := handlers.NewMotivationHandler()

	r := mux.NewRouter()

	r.HandleFunc("/ws/motivation", motivationHandler.ServeMotivation)

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "community-streak-api"}`))
	}).Methods("GET")

	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/users/signup", userHandler.Signup).Methods("POST")
	api.HandleFunc("/users/login", userHandler.Login).Methods("POST")
	api.HandleFunc("/users/token/refresh", userHandler.RefreshToken).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware(tokenIssuer))

	protected.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET")
	protected.HandleFunc("/users/{user_id}", userHandler.GetUserDetails).Methods("GET")

	protected.HandleFunc("/events", eventHandler.CreateEvent).Methods("POST")
	protected.HandleFunc("/events", eventHandler.ListEvents).Methods("GET")
	protected.HandleFunc("/events/myevents", eventHandler.GetMyEvents).Methods("GET")
	protected.HandleFunc("/events/joinedevents", eventHandler.GetJoinedEvents).Methods("GET")
	protected.HandleFunc("/events/{event_id}", eventHandler.GetEventDetails).Methods("GET")
	protected.HandleFunc("/events/{event_id}/join", eventHandler.JoinEvent).Methods("POST")
	protected.HandleFunc("/events/{event_id}/exit", eventHandler.ExitEvent).Methods("POST")
	protected.HandleFunc("/events/{event_id}/mark-completed", eventHandler.MarkCompleted).Methods("POST")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	resetScheduler.Start()

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	resetScheduler.Stop()

	log.Println("Server shutdown complete")
}
