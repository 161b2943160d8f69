package main

import (
	"context"
	"log"

	"github.com/locvowork/hr_analytics_sample/internal/bootstrap"
	"github.com/locvowork/hr_analytics_sample/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped: %v", err)
	}
}
