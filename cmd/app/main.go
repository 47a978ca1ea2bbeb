package main

import (
	"flag"
	"log"
	"os"

	"AstroChart/internal/di"
	"AstroChart/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	checkOnly := flag.Bool("check-config", false, "validate the config and exit")
	flag.Parse()

	// YAML first, then ASTRO_* environment overrides
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *checkOnly {
		log.Printf("config %s ok", *configPath)
		return
	}

	log.Printf("env=%s port=%d ephemeris=%s houses=%s locale=%s",
		cfg.Environment, cfg.Server.Port, cfg.Ephemeris.DataDir, cfg.Chart.HouseSystem, cfg.Chart.Locale)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// blocks until SIGINT/SIGTERM
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
