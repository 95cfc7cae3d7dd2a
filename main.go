package main

import (
	"flag"
	"os"

	"github.com/Deeksha3227/pothole-detection-app/internal/config"
	"github.com/Deeksha3227/pothole-detection-app/internal/logging"
	ui "github.com/Deeksha3227/pothole-detection-app/internal/ui"
	processing "github.com/Deeksha3227/pothole-detection-app/processing/detector"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfigFile(*configPath)
	log := logging.New(cfg.GetLogLevel(), os.Stderr)
	if err != nil {
		log.WithError(err).Warn("using default config")
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Warn("backend is not usable, detection requests will fail")
	}

	det := processing.NewRemoteDetector(cfg, processing.WithLogger(log))
	log.WithField("url", det.URL()).Info("detection backend")

	app := ui.CreateApp(det, cfg, *configPath, log)

	app.Run()
}
