package main // Entry point

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/config"
	"github.com/iliyamo/exam-seating/internal/database"
	"github.com/iliyamo/exam-seating/internal/handler"
	"github.com/iliyamo/exam-seating/internal/middleware"
	"github.com/iliyamo/exam-seating/internal/queue"
	"github.com/iliyamo/exam-seating/internal/repository"
	"github.com/iliyamo/exam-seating/internal/router"
	"github.com/iliyamo/exam-seating/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is optional.
	_ = godotenv.Load()

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables cache, rate limit and the generation lock
	if rdb == nil {
		log.Println("redis unavailable; cache, rate limiting and generation locking disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	buildings := repository.NewBuildingRepo(db)
	rooms := repository.NewRoomRepo(db)
	exams := repository.NewExamRepo(db)
	subjects := repository.NewSubjectRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	assignments := repository.NewSeatAssignmentRepo(db)

	seatingSvc := &service.SeatingService{
		Exams:       exams,
		Subjects:    subjects,
		Rooms:       rooms,
		Enrollments: enrollments,
		Staff:       users,
		Store:       assignments,
		Redis:       rdb,
		Cache:       cacheCfg,
		AMQPURL:     cfg.AMQPURL,
		LockTTL:     cfg.SeatingLockTTL,
	}

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	adminHandler := handler.NewAdminHandler(buildings, rooms, exams, subjects, enrollments, assignments, seatingSvc)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterStaff(e, adminHandler, cfg.JWTSecret, middleware.NewRedisCache(cacheCfg, rdb))

	// Background consumer writes seating events to logs/seating.log.
	go func() {
		if err := queue.StartSeatingConsumer(cfg.AMQPURL); err != nil {
			log.Printf("seating-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
