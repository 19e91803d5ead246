package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/kneerehab/internal/config"
	"github.com/2beens/kneerehab/internal/logging"
	"github.com/2beens/kneerehab/pkg"

	log "github.com/sirupsen/logrus"
)

// Snapshots the badger data dir into a tar.gz. Run it while the app is
// closed, badger keeps its files open.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outDir := flag.String("out", "./backups", "directory for the backup archive")
	logsPath := flag.String("logs-path", "", "backup logs file path (empty for stdout)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: *logsPath,
		LogLevel:    cfg.LogLevel,
	})

	if cfg.StoreBackend != config.StoreBackendBadger {
		log.Fatalf("backup only supports the badger store, configured: %s", cfg.StoreBackend)
	}

	exists, err := pkg.PathExists(cfg.BadgerPath, true)
	if err != nil {
		log.Fatalf("check badger dir: %s", err)
	}
	if !exists {
		log.Fatalf("badger dir %s does not exist, nothing to back up", cfg.BadgerPath)
	}

	if err := pkg.EnsureDir(*outDir); err != nil {
		log.Fatalf("create backups dir: %s", err)
	}

	archivePath := filepath.Join(*outDir, fmt.Sprintf("kneerehab-%s.tar.gz", time.Now().Format("20060102-150405")))
	archive, err := os.Create(archivePath)
	if err != nil {
		log.Fatalf("create archive: %s", err)
	}

	if err := pkg.Compress(cfg.BadgerPath, archive); err != nil {
		_ = archive.Close()
		_ = os.Remove(archivePath)
		log.Fatalf("compress %s: %s", cfg.BadgerPath, err)
	}
	if err := archive.Close(); err != nil {
		log.Fatalf("close archive: %s", err)
	}

	log.Printf("backup of %s written to %s", cfg.BadgerPath, archivePath)
}
