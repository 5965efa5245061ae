package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zzpboek/zzpbtw/internal/commands"
	"github.com/zzpboek/zzpbtw/internal/config"
	"github.com/zzpboek/zzpbtw/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	cfg := logger.DefaultConfig()
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		cfg.Level = v
	}
	if err := logger.Setup(cfg); err != nil {
		log.Error().Err(err).Msg("configuring logging")
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
