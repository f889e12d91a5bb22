// file: main.go
package main

import (
	"log"
	"os"

	"github.com/3liuhuo/DummyCTFPlatform/controllers"
	"github.com/3liuhuo/DummyCTFPlatform/database"
	"github.com/3liuhuo/DummyCTFPlatform/routes"
	"github.com/3liuhuo/DummyCTFPlatform/services"
	"github.com/3liuhuo/DummyCTFPlatform/utils"
	"github.com/joho/godotenv"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env 不存在时仅使用进程环境变量
	_ = godotenv.Load()

	utils.InitJWT(os.Getenv("JWT_SECRET"))

	dsn := envOr("DB_DSN", "root:123456@tcp(localhost:3306)/dummyctf?charset=utf8mb4&parseTime=True&loc=Local")
	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateTables(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb, err := database.InitRedis(envOr("REDIS_ADDR", "localhost:6379"), os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	bus := services.NewEventBus()
	contestService := services.NewContestService(db, rdb, bus)
	submissionService := services.NewSubmissionService(services.NewGormSubmissionStore(db), contestService, bus)
	scoreboardService := services.NewScoreboardService(
		services.NewDBScoreboardSource(contestService, submissionService), bus)

	r := routes.SetupRouter(routes.Controllers{
		User:    controllers.NewUserController(db),
		Contest: controllers.NewContestController(db, contestService),
		Challenge: controllers.NewChallengeController(
			db, contestService, submissionService, scoreboardService,
			services.NewRedisLimiter(rdb, "limiter-flag-user"),
			services.NewRedisLimiter(rdb, "limiter-flag-ip"),
		),
		Record: controllers.NewRecordController(submissionService),
	})

	addr := envOr("LISTEN_ADDR", ":8080")
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
