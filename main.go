package main

import (
	"fyne.io/fyne/v2/app"

	"livedetect/internal/config"
	"livedetect/internal/logging"
	ui "livedetect/internal/ui"
	"livedetect/processing/capture"
	processing "livedetect/processing/detector"
)

func main() {
	cfg, cfgErr := config.LoadConfigFile(config.DefaultConfigPath)

	log := logging.New(cfg.Log)
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("using default config")
	}

	streamer, err := capture.NewStreamer(cfg)
	if err != nil {
		log.WithError(err).Fatal("no video source")
	}

	provider := processing.NewRemoteProvider(cfg.Detector, logging.Component(log, "detector"))

	detectApp := ui.CreateApp(app.New(), cfg, provider, streamer, log)

	detectApp.Run()
}
