package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to create logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
