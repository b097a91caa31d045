package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ride-booking/internal/config"
	"ride-booking/internal/mylogger"
	rideservice "ride-booking/internal/ride-service"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: app ride-service [-config path/to/config.yaml]")
}

func main() {
	rideCmd := flag.NewFlagSet("ride-service", flag.ExitOnError)
	cfgPath := rideCmd.String("config", "", "path to a YAML config file; environment is used when empty")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ride-service":
		if err := rideCmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("Failed to parse flags: %v", err)
		}

		var (
			cfg *config.Config
			err error
		)
		if *cfgPath != "" {
			cfg, err = config.NewFromYAML(*cfgPath)
		} else {
			cfg, err = config.New()
		}
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		appLogger, err := mylogger.New(cfg.Log.Level)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		appLogger.Action("ride_service_started").Info("Ride service starting up")

		if err := rideservice.Execute(context.Background(), appLogger, cfg); err != nil {
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}
