package main

import (
	"context"
	"os"

	"github.com/i474232898/farm-advisor/internal/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Error().Err(err).Msg("farm-advisor failed")
		os.Exit(1)
	}
}
