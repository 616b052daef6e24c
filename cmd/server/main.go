package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/config"
	"github.com/iliyamo/eighth-period-signup/internal/database"
	"github.com/iliyamo/eighth-period-signup/internal/eighth"
	"github.com/iliyamo/eighth-period-signup/internal/handler"
	"github.com/iliyamo/eighth-period-signup/internal/middleware"
	"github.com/iliyamo/eighth-period-signup/internal/queue"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
	"github.com/iliyamo/eighth-period-signup/internal/router"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	// Redis backs the response cache and rate limiter.  A nil client
	// disables both and the server degrades gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis: unavailable, cache and rate limiting disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	sponsorRepo := repository.NewSponsorRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	blockRepo := repository.NewBlockRepo(db)
	scheduledRepo := repository.NewScheduledRepo(db)
	signupRepo := repository.NewSignupRepo(db)
	absenceRepo := repository.NewAbsenceRepo(db)

	// The admission controller runs on the signup store with the real clock.
	svc := eighth.NewService(signupRepo, eighth.SystemClock{})

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(sponsorRepo, roomRepo, activityRepo, blockRepo, scheduledRepo, absenceRepo)
	signupHandler := handler.NewSignupHandler(svc, signupRepo, scheduledRepo, blockRepo, absenceRepo)
	publicHandler := handler.NewPublicHandler(svc, blockRepo, scheduledRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterSignups(e, signupHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Consume signup.confirmed events in the background; the consumer
	// reconnects on broker failures and never stops the server.
	go func() {
		if err := queue.StartSignupConsumer(); err != nil {
			log.Printf("signup-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
