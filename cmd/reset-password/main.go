package main

import (
	"flag"
	"os"

	"go-kasir-api/internal/model"
	"go-kasir-api/pkg/config"
	"go-kasir-api/pkg/database"
	"go-kasir-api/pkg/logger"

	"github.com/joho/godotenv"
)

// reset-password sets a new password for an existing account:
//
//	go run ./cmd/reset-password -email owner@toko.id -password 'new-secret'
func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password")
	flag.Parse()

	log := logger.New(logger.Options{ServiceName: "reset-password", Format: "console"})

	if *email == "" || len(*password) < model.MinPasswordLength || len(*password) > model.MaxPasswordBytes {
		flag.Usage()
		log.Error().
			Int("min_length", model.MinPasswordLength).
			Int("max_bytes", model.MaxPasswordBytes).
			Msg("email and a password of valid length are required")
		os.Exit(2)
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	dbCfg, err := config.LoadDB()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	// 2. Setup Database
	db, err := database.Connect(*dbCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close(db)

	// 3. Find user
	var user model.User
	normalized := model.NormalizeEmail(*email)
	if err := db.Where("email = ?", normalized).First(&user).Error; err != nil {
		log.Fatal().Err(err).Str("email", normalized).Msg("user not found")
	}

	// 4. Hash and update
	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := db.Model(&user).Update("password", user.Password).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}

	log.Info().Str("email", normalized).Str("role", string(user.Role)).Msg("password reset")
}
