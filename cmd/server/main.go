package main

import (
	"context"
	"fmt"

	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/handler"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/server"
	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("nijhum-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if closeErr := storages.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	authService := service.NewAuthService(storages.Users, cfg.Auth, log)
	handlers := handler.NewHandlers(authService, storages.RemoteRecords, log)

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
