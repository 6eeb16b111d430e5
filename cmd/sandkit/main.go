package main

import (
	"os"

	cmd "github.com/sandkit/sandkit/internal"
	"github.com/sandkit/sandkit/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
