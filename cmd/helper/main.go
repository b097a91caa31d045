package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ride-booking/internal/mylogger"
)

// Simulates a driver: logs in, goes online and completes every ride it
// manages to claim.
func main() {
	baseURL := flag.String("base", DefaultBaseURL, "ride service base URL")
	login := flag.String("login", "", "driver email or mobile number")
	password := flag.String("password", "", "driver password")
	driveTime := flag.Duration("drive", DefaultDriveTime, "time spent in each ride leg")
	level := flag.String("log", "INFO", "log level")
	flag.Parse()

	if *login == "" || *password == "" {
		log.Fatal("login and password are required")
	}

	appLogger, err := mylogger.New(*level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger = appLogger.Action("driver_simulator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := NewDriverService(ctx, Config{
		BaseURL:   *baseURL,
		Login:     *login,
		Password:  *password,
		DriveTime: *driveTime,
	}, appLogger)

	if err := driver.Login(); err != nil {
		appLogger.Error("Login failed", err)
		os.Exit(1)
	}
	if err := driver.GoOnline(); err != nil {
		appLogger.Warn("Could not go online", "reason", err.Error())
	}

	time.Sleep(InitialConnectDelay)
	driver.Watch()
	appLogger.Info("Driver simulator stopped")
}
