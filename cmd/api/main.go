package main

import (
	"flag"
	"os"

	"github.com/yigit/projectdesk/internal/bootstrap"
	"github.com/yigit/projectdesk/internal/pkg/logger"
	"github.com/yigit/projectdesk/internal/server"
)

// @title ProjectDesk API
// @version 1.0
// @description Student project registration, mentor review and notification service.

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
