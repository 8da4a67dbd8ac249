package main

import (
	"os"

	"github.com/event-roster-api/pkg/logger"
)

func main() {
	log := logger.New()
	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}
