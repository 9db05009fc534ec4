package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"gorm.io/gorm"

	"timetable_backend/internals/configs"
	database "timetable_backend/internals/databases"
	"timetable_backend/internals/features/school/timetables/repository"
	helper "timetable_backend/internals/helpers"
	helperAuth "timetable_backend/internals/helpers/auth"
	"timetable_backend/internals/helpers/dbtime"
	"timetable_backend/internals/helpers/reaper"
	middlewares "timetable_backend/internals/middlewares"
	"timetable_backend/internals/middlewares/logger"
	routes "timetable_backend/internals/route"
	"timetable_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	if configs.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET wajib diisi")
	}
	dbtime.SetDefaultTimezone(configs.TimeZone)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FiberErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timeout per request (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("request_id", id)

		ctx, cancel := context.WithTimeout(c.Context(), configs.RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Use(logger.LoggerMiddleware(configs.TimeZone))
	app.Use(middlewares.CorsMiddleware(configs.CorsOrigins))
	app.Use(middlewares.GlobalRateLimiter(configs.RateLimitPerMin))

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	if configs.AutoMigrate {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	if configs.SeedOnStart {
		seeds.RunAllSeeds(database.DB)
	}
	database.WarmUpQueries()

	// 🧹 token dicabut yang sudah expired + audit lama
	tasks := maintenanceTasks(database.DB)
	reaper.RunOnce(context.Background(), time.Now(), tasks)
	cronJob, err := reaper.Start(reaper.Config{CronSchedule: configs.ReaperSchedule}, tasks)
	if err != nil {
		log.Fatalf("❌ reaper: %v", err)
	}

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.Port)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-cronJob.Stop().Done()

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func maintenanceTasks(db *gorm.DB) []reaper.Task {
	tasks := []reaper.Task{{
		Name: "token_blacklist",
		Run: func(ctx context.Context, now time.Time) (int64, error) {
			return helperAuth.PurgeExpired(ctx, db, now)
		},
	}}
	if days := configs.AuditRetentionDays; days > 0 {
		audit := repository.NewGormAuditLogger(db)
		tasks = append(tasks, reaper.Task{
			Name: "timetable_audit_logs",
			Run: func(ctx context.Context, now time.Time) (int64, error) {
				return audit.PurgeBefore(ctx, now.AddDate(0, 0, -days))
			},
		})
	}
	return tasks
}
