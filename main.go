package main

import (
	"context"
	"os"

	"notify-backend/cmd"
	"notify-backend/pkg/config"
	"notify-backend/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	root := cmd.RootCommand(cfg)
	if err := root.ExecuteContext(context.Background()); err != nil {
		zlog.Error("Command failed", zap.Error(err))
		zlog.Sync()
		os.Exit(1)
	}
	zlog.Sync()
}
