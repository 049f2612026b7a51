package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/config"
	"github.com/Dias221467/Habit_Manager/internal/database"
	"github.com/Dias221467/Habit_Manager/internal/handlers"
	"github.com/Dias221467/Habit_Manager/internal/jobs"
	"github.com/Dias221467/Habit_Manager/internal/repository"
	cronjobs "github.com/Dias221467/Habit_Manager/internal/scheduler"
	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/internal/suggestions"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/Dias221467/Habit_Manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// stores groups the persistence backends the services depend on.
type stores struct {
	habits        services.HabitStore
	records       services.AchievementStore
	generated     services.UserAchievementStore
	notifications services.NotificationStore
	activities    services.ActivityStore
	templates     services.TemplateStore
	close         func(context.Context) error
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Storage == "memory" {
		logger.Log.Warn("Using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &stores{
			habits:        mem,
			records:       mem,
			generated:     mem,
			notifications: mem,
			activities:    mem,
			templates:     mem,
			close:         func(context.Context) error { return nil },
		}, nil
	}

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	habitRepo := repository.NewHabitRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := habitRepo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	if err := achievementRepo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	return &stores{
		habits:        habitRepo,
		records:       achievementRepo,
		generated:     achievementRepo,
		notifications: repository.NewNotificationRepository(db),
		activities:    repository.NewActivityRepository(db),
		templates:     repository.NewTemplateRepository(db),
		close:         db.Client().Disconnect,
	}, nil
}

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	st, err := openStores(cfg)
	if err != nil {
		log.Fatalf("Storage initialization error: %v", err)
	}

	// --- Services ---
	activityService := services.NewActivityService(st.activities)
	notificationService := services.NewNotificationService(st.notifications, st.habits)
	habitService := services.NewHabitService(st.habits, st.generated, activityService, notificationService)
	achievementService := services.NewAchievementService(st.habits, st.records, st.generated, activityService, notificationService)
	suggestionService := services.NewSuggestionService(suggestions.NewClient(cfg.SuggestionURL, cfg.SuggestionToken, cfg.SuggestionTimeout))
	templateService := services.NewTemplateService(st.templates, habitService)

	// --- Handlers ---
	calendar := handlers.NewCalendar(cfg.Timezone)
	events := handlers.NewEventHub(cfg.JWTSecret, cfg.JWTIssuer, cfg.AllowedOrigins)

	habitHandler := handlers.NewHabitHandler(habitService, achievementService, events, calendar)
	achievementHandler := handlers.NewAchievementHandler(achievementService, events, calendar)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	templateHandler := handlers.NewTemplateHandler(templateService, calendar)

	// --- Background jobs ---
	reminder := jobs.NewStreakReminder(notificationService, cfg.Timezone)
	scheduler, err := cronjobs.StartNotificationCronJobs(cronjobs.Schedule{
		Reminder: cfg.ReminderCron,
		Cleanup:  cfg.CleanupCron,
		Location: cfg.Timezone,
	}, reminder, notificationService)
	if err != nil {
		log.Fatalf("Scheduler error: %v", err)
	}

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	auth := middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)

	// Habit routes
	habitRoutes := router.PathPrefix("/habits").Subrouter()
	habitRoutes.Use(auth)
	habitRoutes.HandleFunc("", habitHandler.GetHabitsHandler).Methods("GET")
	habitRoutes.HandleFunc("", habitHandler.CreateHabitHandler).Methods("POST")
	habitRoutes.HandleFunc("/{id}", habitHandler.GetHabitHandler).Methods("GET")
	habitRoutes.HandleFunc("/{id}", habitHandler.DeleteHabitHandler).Methods("DELETE")
	habitRoutes.HandleFunc("/{id}/complete", habitHandler.CompleteHabitHandler).Methods("POST")

	// Achievement routes
	achievementRoutes := router.PathPrefix("/achievements").Subrouter()
	achievementRoutes.Use(auth)
	achievementRoutes.HandleFunc("", achievementHandler.GetAchievementsHandler).Methods("GET")
	achievementRoutes.HandleFunc("/custom/{id}/unlock", achievementHandler.UnlockCustomAchievementHandler).Methods("POST")

	// Suggestion routes
	suggestionRoutes := router.PathPrefix("/suggestions").Subrouter()
	suggestionRoutes.Use(auth)
	suggestionRoutes.HandleFunc("", suggestionHandler.SuggestHandler).Methods("POST")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(auth)
	notificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Activity routes
	activityRoutes := router.PathPrefix("/activity").Subrouter()
	activityRoutes.Use(auth)
	activityRoutes.HandleFunc("", activityHandler.GetRecentActivitiesHandler).Methods("GET")

	// Template routes
	templateRoutes := router.PathPrefix("/templates").Subrouter()
	templateRoutes.Use(auth)
	templateRoutes.HandleFunc("", templateHandler.CreateTemplateHandler).Methods("POST")
	templateRoutes.HandleFunc("", templateHandler.GetTemplatesHandler).Methods("GET")
	templateRoutes.HandleFunc("/public", templateHandler.GetPublicTemplatesHandler).Methods("GET")
	templateRoutes.HandleFunc("/{id}", templateHandler.GetTemplateByIDHandler).Methods("GET")
	templateRoutes.HandleFunc("/{id}/copy", templateHandler.CopyTemplateHandler).Methods("POST")

	// WebSocket events authenticate with ?token= since browsers cannot send headers
	router.HandleFunc("/ws", events.EventsWebSocketHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", handlers.TimezoneHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Infof("Shutdown signal received: %s", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Error("Server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server shutdown failed")
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Failed to close storage")
	}
}
