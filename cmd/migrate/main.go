// Schema migration and password re-hash tool.
// cmd/migrate/main.go
package main

import (
	"flag"
	"log"
	"strings"

	"code-review-api/config"
	"code-review-api/models"
	"code-review-api/services"

	"go.uber.org/zap"
)

func main() {
	hashPasswords := flag.Bool("hash-passwords", false, "bcrypt any stored password that is not already a bcrypt hash")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, cleanup := config.InitLogging(cfg)
	defer cleanup()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}
	logger.Info("schema migration completed")

	if !*hashPasswords {
		return
	}

	auth := services.NewAuthService(db, logger)
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		logger.Fatal("failed to fetch users", zap.Error(err))
	}

	updated := 0
	for _, user := range users {
		// Skip if already hashed (bcrypt hashes start with $2)
		if strings.HasPrefix(user.Password, "$2") {
			continue
		}

		hashed, err := auth.HashPassword(user.Password)
		if err != nil {
			logger.Error("failed to hash password", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		if err := db.Model(&user).Update("password", hashed).Error; err != nil {
			logger.Error("failed to update password", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		updated++
	}

	logger.Info("password migration completed", zap.Int("updated", updated), zap.Int("total", len(users)))
}
