package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/2beens/kneerehab/internal"
	"github.com/2beens/kneerehab/internal/config"
	"github.com/2beens/kneerehab/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outDir := flag.String("out", "", "directory to write the CSV file to (default: export_dir from config)")
	toStdout := flag.Bool("stdout", false, "print the CSV to STDOUT instead of writing a file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}
	if *outDir != "" {
		cfg.ExportDir = *outDir
	}

	logging.Setup(logging.LoggerSetupParams{
		LogLevel: cfg.LogLevel,
		// STDOUT may carry the CSV itself
		Quiet: *toStdout,
	})

	ctx := context.Background()
	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:        cfg,
		RedisPassword: os.Getenv("KNEE_REDIS_PASS"),
	})
	if err != nil {
		log.Fatalf("new app: %s", err)
	}

	exitCode := 0
	if *toStdout {
		fmt.Print(app.Tracker.ExportCSV(ctx))
	} else {
		path, err := app.Tracker.Export(ctx)
		if err != nil {
			log.Errorf("export: %s", err)
			exitCode = 1
		} else {
			log.Printf("exported to %s", path)
		}
	}

	if err := app.Close(); err != nil {
		log.Errorf("close app: %s", err)
	}
	os.Exit(exitCode)
}
