package main

import (
	"os"

	"github.com/Rafa-lopez12/examen-arqui/internal/app"
	config "github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
)

func main() {
	os.Exit(run(logger.NewSlogLogger()))
}

// run wires and serves the POS backend and returns the process exit code.
func run(log logger.Logger) int {
	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		return 1
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		return 1
	}

	log.Infof("POS backend starting: http=:%s grpc=%s:%s currency=%s",
		cfg.Http.Port, cfg.Grpc.NetworkMode, cfg.Grpc.Port, cfg.Payment.Currency)
	if err := application.Run(); err != nil {
		return 1
	}
	return 0
}
