package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/pkg/logger"
)

func main() {
	// .env is for development; production uses real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("environment", env).Msg("Starting catalog import API")

	Serve()
}
