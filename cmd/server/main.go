// Package main is the entry point for the Accman API server. It loads
// configuration, connects PostgreSQL and Redis, wires the services and
// starts the HTTP server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/skippergoroye/Accman-Server/internal/config"
	"github.com/skippergoroye/Accman-Server/internal/handlers"
	"github.com/skippergoroye/Accman-Server/internal/job"
	"github.com/skippergoroye/Accman-Server/internal/repositories"
	"github.com/skippergoroye/Accman-Server/internal/repositories/cache"
	"github.com/skippergoroye/Accman-Server/internal/services/admin"
	"github.com/skippergoroye/Accman-Server/internal/services/auth"
	"github.com/skippergoroye/Accman-Server/internal/services/ledger"
	"github.com/skippergoroye/Accman-Server/internal/services/mailer"
	userservice "github.com/skippergoroye/Accman-Server/internal/services/user"
	"github.com/skippergoroye/Accman-Server/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect(repositories.DBConfig{
		MaxIdleConns:    config.GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    config.GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cacheService := cache.NewService(redisClient, config.GetDurationEnv("CACHE_TTL", 24*time.Hour))
	defer cacheService.Close()

	// Stale balances must not survive a deploy.
	if err := cacheService.FlushAll(context.Background()); err != nil {
		log.Printf("Failed to flush cache on startup: %v", err)
	}

	smtpMailer, err := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     config.GetEnv("SMTP_HOST", "localhost"),
		Port:     config.GetIntEnv("SMTP_PORT", 587),
		Username: config.GetEnv("SMTP_USER", ""),
		Password: config.GetEnv("SMTP_PASS", ""),
		From:     config.GetEnv("SMTP_FROM", "no-reply@accman.dev"),
	})
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}

	imageStore, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Region:        config.GetEnv("S3_REGION", "us-east-1"),
		Endpoint:      config.GetEnv("S3_ENDPOINT", ""),
		Bucket:        config.GetEnv("S3_BUCKET", "accman-uploads"),
		AccessKey:     config.GetEnv("S3_ACCESS_KEY", ""),
		SecretKey:     config.GetEnv("S3_SECRET_KEY", ""),
		PublicBaseURL: config.GetEnv("S3_PUBLIC_BASE_URL", "https://s3.amazonaws.com"),
	})
	if err != nil {
		log.Fatalf("Failed to create image store: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)

	// Services
	authService := auth.NewService(userRepo, adminRepo, verificationRepo, smtpMailer, config.GetEnv("CLIENT_URL", "http://localhost:5173"))
	ledgerService := ledger.NewService(ledgerRepo, userRepo, cacheService)
	adminService := admin.NewService(adminRepo, userRepo, ledgerRepo, verificationRepo, smtpMailer)
	userService := userservice.NewService(userRepo, imageStore, cacheService)

	// Background cleanup of expired verification codes.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	sweeper := job.NewOTPSweeper(verificationRepo, config.GetDurationEnv("OTP_SWEEP_INTERVAL", 10*time.Minute))
	go sweeper.Run(sweepCtx)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CLIENT_URL", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/auth/register/user", "/auth/login/user", "/admin/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	handlers.SetupRoutes(app,
		handlers.NewAuthHandler(authService),
		handlers.NewAdminHandler(adminService, ledgerService),
		handlers.NewDashboardHandler(ledgerService),
		handlers.NewUserHandler(userService),
	)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
