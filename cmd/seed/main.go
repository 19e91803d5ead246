package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/kneerehab/internal"
	"github.com/2beens/kneerehab/internal/config"
	"github.com/2beens/kneerehab/internal/logging"
	"github.com/2beens/kneerehab/internal/rehab"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	days := flag.Int("days", 28, "days of history to generate")
	stage := flag.String("stage", "A", "stage to seed [A | B | C | M]")
	seed := flag.Int64("seed", 0, "random seed (0 for a random one)")
	force := flag.Bool("force", false, "seed even if the store already has data")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogLevel: cfg.LogLevel,
	})

	if *days < 1 || *days > rehab.PainLogCap*10 {
		log.Fatalf("invalid days: %d", *days)
	}
	st := rehab.Stage(*stage)
	if !st.Valid() {
		log.Fatalf("invalid stage: %s", *stage)
	}

	ctx := context.Background()
	now := time.Now()
	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:        cfg,
		RedisPassword: os.Getenv("KNEE_REDIS_PASS"),
		Now:           now.AddDate(0, 0, -*days),
	})
	if err != nil {
		log.Fatalf("new app: %s", err)
	}

	exitCode := 0
	snap := app.Tracker.Snapshot(ctx, now)
	if (len(snap.PainLog) > 0 || len(snap.Sessions) > 0) && !*force {
		log.Errorf("store already has %d check-ins and %d sessions, use -force to seed anyway",
			len(snap.PainLog), len(snap.Sessions))
		exitCode = 1
	} else {
		res, err := seedHistory(ctx, app.Tracker, seedParams{
			Days:  *days,
			Stage: st,
			Now:   now,
			Faker: gofakeit.New(*seed),
		})
		if err != nil {
			log.Errorf("seed: %s", err)
			exitCode = 1
		} else {
			log.Printf("seeded %d check-ins, %d rest days, %d sessions over %d days",
				res.CheckIns, res.RestDays, res.Sessions, *days)
		}
	}

	if err := app.Close(); err != nil {
		log.Errorf("close app: %s", err)
	}
	os.Exit(exitCode)
}
