// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/loket-mbc/ticketing-api/internal/database"
	"github.com/loket-mbc/ticketing-api/internal/handler"
	"github.com/loket-mbc/ticketing-api/internal/metrics"
	"github.com/loket-mbc/ticketing-api/internal/model"
	"github.com/loket-mbc/ticketing-api/internal/repository"
	"github.com/loket-mbc/ticketing-api/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("connected to postgres")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	authRepo := repository.NewAuthRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	ticketTypeRepo := repository.NewTicketTypeRepository(pool)

	authSvc := service.NewAuthService(authRepo)
	ticketSvc := service.NewTicketService(ticketRepo)
	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	ticketTypeSvc := service.NewTicketTypeService(ticketTypeRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	ticketHandler := handler.NewTicketHandler(ticketSvc)
	adminHandler := handler.NewAdminHandler(userSvc, eventSvc, ticketTypeSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo
	r.Use(metrics.Middleware)      // prometheus request metrics

	// Health and metrics
	r.Get("/health", handler.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public auth routes
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/check-session", authHandler.CheckSession)

	// Payment gateway callback; correlated by external_id in the store, not
	// by session.
	r.Post("/update-payment-status", ticketHandler.UpdatePaymentStatus)

	// Buyer routes
	r.Group(func(r chi.Router) {
		r.Use(handler.SessionAuth(authRepo, model.RoleUser))
		r.Post("/purchase-ticket", ticketHandler.Purchase)
		r.Post("/logout", authHandler.Logout)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(handler.SessionAuth(authRepo, model.RoleAdmin))
		r.Get("/transactions", ticketHandler.Transactions)
		r.Post("/redeem-ticket", ticketHandler.Redeem)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", adminHandler.ListEvents)
			r.Post("/", adminHandler.CreateEvent)
			r.Get("/{id}", adminHandler.GetEvent)
			r.Put("/{id}", adminHandler.UpdateEvent)
			r.Delete("/{id}", adminHandler.DeleteEvent)
		})
		r.Route("/ticket-types", func(r chi.Router) {
			r.Get("/", adminHandler.ListTicketTypes)
			r.Post("/", adminHandler.CreateTicketType)
			r.Get("/{id}", adminHandler.GetTicketType)
			r.Put("/{id}", adminHandler.UpdateTicketType)
			r.Delete("/{id}", adminHandler.DeleteTicketType)
		})
	})

	// Superadmin routes
	r.Group(func(r chi.Router) {
		r.Use(handler.SessionAuth(authRepo, model.RoleSuperadmin))
		r.Route("/users", func(r chi.Router) {
			r.Get("/", adminHandler.ListUsers)
			r.Post("/", adminHandler.CreateUser)
			r.Get("/{id}", adminHandler.GetUser)
			r.Put("/{id}", adminHandler.UpdateUser)
			r.Delete("/{id}", adminHandler.DeleteUser)
		})
		r.Get("/user-activities", adminHandler.UserActivities)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
