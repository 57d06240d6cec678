// reset-data ล้าง users/tasks และ key ใน Redis สำหรับเริ่มทดสอบใหม่ (ใช้ได้เฉพาะ APP_ENV=development)
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"task-tracker-api/infrastructure/postgres"
	redispkg "task-tracker-api/infrastructure/redis"
	"task-tracker-api/pkg/config"
	"task-tracker-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}
	logger.SetOutput(os.Stdout, "text", "info")

	if !cfg.IsDevelopment() {
		logger.Error("Refusing to reset data outside development", "env", cfg.App.Env)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := clearPostgres(ctx, cfg.Database); err != nil {
		logger.Error("Failed to clear PostgreSQL", "error", err)
		os.Exit(1)
	}
	clearRedis(ctx, &cfg.Redis)

	logger.Info("Done! Ready for fresh testing.")
}

func clearPostgres(ctx context.Context, dbCfg config.DatabaseConfig) error {
	db, err := postgres.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer postgres.Close(db)

	// tasks อ้าง users จึง truncate พร้อมกัน
	if err := db.WithContext(ctx).Exec("TRUNCATE TABLE tasks, users RESTART IDENTITY CASCADE").Error; err != nil {
		return err
	}
	logger.Info("PostgreSQL cleared", "tables", "tasks, users")
	return nil
}

func clearRedis(ctx context.Context, redisCfg *config.RedisConfig) {
	if redisCfg.URL == "" {
		logger.Info("Redis not configured (skipping)")
		return
	}

	client, err := redispkg.NewClient(redisCfg)
	if err != nil {
		logger.Warn("Redis not available (skipping)", "error", err)
		return
	}
	defer client.Close()

	for _, pattern := range []string{"tasks:user:*", "auth:revoked:*"} {
		n, err := client.ScanAndDelete(ctx, pattern)
		if err != nil {
			logger.Warn("Failed to clear Redis keys", "pattern", pattern, "error", err)
			continue
		}
		logger.Info("Redis keys cleared", "pattern", pattern, "deleted", n)
	}
}
