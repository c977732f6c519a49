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

	"fitCoachAPI/handlers"
	"fitCoachAPI/internal/notification"
	"fitCoachAPI/internal/workers"
	"fitCoachAPI/middleware"
	"fitCoachAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	notificationService *services.NotificationService
	metricsService      *services.MetricsService
	achievementService  *services.AchievementService
	streakService       *services.StreakService
	goalService         *services.GoalService
	leaderboardService  *services.LeaderboardService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

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

	log.Println("Successfully connected to Postgres")

	notificationService = services.NewNotificationService(dbPool)
	metricsService = services.NewMetricsService(dbPool)
	achievementService = services.NewAchievementService(dbPool, metricsService, notificationService)
	streakService = services.NewStreakService(dbPool, achievementService, notificationService)
	goalService = services.NewGoalService(dbPool, streakService)
	leaderboardService = services.NewLeaderboardService(dbPool)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	goalHandler := handlers.NewGoalHandler(goalService)
	streakHandler := handlers.NewStreakHandler(streakService)
	achievementHandler := handlers.NewAchievementHandler(achievementService, metricsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// Background workers
	sweepStop := workers.StartStreakSweeper(streakService, 6*time.Hour)
	reminderStop := workers.StartAtRiskReminder(streakService, 6*time.Hour)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
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
		w.Write([]byte(`{"status": "healthy", "service": "fitCoach-api"}`))
	}).Methods("GET")

	r.Handle("/admin/streaks/sweep", middleware.BasicAuthMiddleware(
		http.HandlerFunc(streakHandler.SweepBreaks))).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/leaderboard/streaks", leaderboardHandler.GetStreakLeaderboard).Methods("GET")

	clients := api.PathPrefix("/clients/{userID}").Subrouter()

	clients.HandleFunc("/workouts", goalHandler.LogWorkout).Methods("POST")
	clients.HandleFunc("/meals", goalHandler.LogMeal).Methods("POST")
	clients.HandleFunc("/goals/targets", goalHandler.SetTargets).Methods("PUT")
	clients.HandleFunc("/goals/week", goalHandler.GetWeekProgress).Methods("GET")
	clients.HandleFunc("/goals/{date}", goalHandler.GetGoal).Methods("GET")

	clients.HandleFunc("/streak", streakHandler.GetStreak).Methods("GET")
	clients.HandleFunc("/streak/at-risk", streakHandler.GetAtRisk).Methods("GET")

	clients.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")
	clients.HandleFunc("/achievements/check", achievementHandler.CheckAchievements).Methods("POST")
	clients.HandleFunc("/metrics", achievementHandler.GetMetrics).Methods("GET")

	clients.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	clients.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	clients.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	clients.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	clients.HandleFunc("/notifications/preferences", notificationHandler.GetPreferences).Methods("GET")
	clients.HandleFunc("/notifications/preferences", notificationHandler.UpdatePreferences).Methods("PUT")
	clients.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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

	close(sweepStop)
	close(reminderStop)
	notificationService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
