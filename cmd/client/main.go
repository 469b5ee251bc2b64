package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/abira1/nijhum-deep/internal/client"
	"github.com/abira1/nijhum-deep/internal/config"
	"github.com/abira1/nijhum-deep/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("nijhum-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	app := client.NewApp(cfg, nil, log)
	if err = app.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init client engine error")
	}

	<-ctx.Done()

	if err = app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("client engine shutdown error")
	}

	log.Info().Msg("client engine stopped gracefully")
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
