// Package main is the entry point for the objview model viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	modelPath := config.ModelArg()
	if modelPath == "" {
		fmt.Fprintln(os.Stderr, "usage: objview [flags] <model.obj>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("=== objview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg, modelPath)
	if err != nil {
		logger.Log.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Log.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Log.Info("viewer closed normally")
}
