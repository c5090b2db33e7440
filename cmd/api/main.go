package main

import (
	"context"
	"os"

	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/logger"
	"github.com/TiebenDepaepe/Stepoutx/internal/server"
)

// @title StepOut API
// @version 1.0
// @description Signup intake and admin review API for StepOut youth trips

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for the admin dashboard

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
