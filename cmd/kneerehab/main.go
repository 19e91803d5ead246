package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/kneerehab/internal"
	"github.com/2beens/kneerehab/internal/config"
	"github.com/2beens/kneerehab/internal/logging"
	"github.com/2beens/kneerehab/internal/reminder"
	"github.com/2beens/kneerehab/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	// the UI owns the terminal, logs go to the file only
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Quiet:         true,
	})
	log.Warnf("---->> running in [%s] environment", cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:        cfg,
		RedisPassword: os.Getenv("KNEE_REDIS_PASS"),
		CueOutput:     os.Stdout,
	})
	if err != nil {
		log.Errorf("new app: %s", err)
		fmt.Fprintf(os.Stderr, "failed to start: %s\n", err)
		cancel()
		os.Exit(1)
	}

	var program *tea.Program
	rem, err := reminder.New(cfg.ReminderSpec, func(msg reminder.Message) {
		program.Send(msg)
	}, app.MetricsManager)
	if err != nil {
		log.Errorf("reminder disabled: %s", err)
	}

	program = tea.NewProgram(
		tui.New(ctx, tui.Params{
			Tracker:  app.Tracker,
			Reminder: rem,
			Cues:     app.Cues,
		}),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if rem != nil {
		rem.Start()
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		select {
		case sig := <-chOsInterrupt:
			log.Warnf("signal [%s] received, quitting ...", sig)
			program.Quit()
		case <-ctx.Done():
		}
	}()

	_, runErr := program.Run()

	if rem != nil {
		rem.Stop()
	}
	if err := app.Close(); err != nil {
		log.Errorf("close app: %s", err)
	}
	if runErr != nil {
		log.Errorf("ui: %s", runErr)
		fmt.Fprintf(os.Stderr, "ui: %s\n", runErr)
		cancel()
		os.Exit(1)
	}
	log.Infoln("bye")
}
