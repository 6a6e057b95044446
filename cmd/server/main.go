package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/config"
	"github.com/civicease/complaint-service/internal/database"
	"github.com/civicease/complaint-service/internal/handler"
	"github.com/civicease/complaint-service/internal/middleware"
	"github.com/civicease/complaint-service/internal/queue"
	"github.com/civicease/complaint-service/internal/repository"
	"github.com/civicease/complaint-service/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	departments := repository.NewDepartmentRepo(db)
	complaints := repository.NewComplaintRepo(db)
	assignments := repository.NewAssignmentRepo(db)
	feedbacks := repository.NewFeedbackRepo(db)
	announcements := repository.NewAnnouncementRepo(db)

	// Install the default departments; a second boot is a no-op.
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := departments.Seed(seedCtx); err != nil {
		cancel()
		log.Fatalf("seed departments: %v", err)
	}
	cancel()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens, departments)
	complaintH := handler.NewComplaintHandler(complaints, assignments, feedbacks, users, departments)
	directoryH := handler.NewDirectoryHandler(users, departments)
	departmentH := handler.NewDepartmentHandler(departments)
	announcementH := handler.NewAnnouncementHandler(announcements, users)

	router.RegisterPublic(e, departmentH, announcementH, cache)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterComplaints(e, complaintH, directoryH, cfg.JWTSecret)
	router.RegisterAnnouncements(e, announcementH, departmentH, cfg.JWTSecret)

	// Consume lifecycle events in the background; the loop reconnects
	// on broker failures and never takes the API down.
	go func() {
		if err := queue.StartComplaintConsumer(); err != nil {
			log.Printf("complaint consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
