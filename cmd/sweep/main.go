package main

import (
	"context"
	"flag"
	"log"
	"time"

	"school-mgmt-be/internal/bootstrap"
	"school-mgmt-be/internal/config"
	"school-mgmt-be/pkg/database"
	"school-mgmt-be/pkg/sweeplock"

	"github.com/fatih/color"
)

const lockKey = "sweep:renewals"

func main() {
	interval := flag.Duration("interval", 0, "run continuously at this interval instead of once")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.DBConnectionString)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	if *interval <= 0 {
		runOnce(container)
		return
	}

	log.Printf("Sweeping every %s", *interval)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	runOnce(container)
	for range ticker.C {
		runOnce(container)
	}
}

func runOnce(container *bootstrap.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	lock := sweeplock.New(container.Redis, lockKey, 15*time.Minute)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		log.Printf("[WARN] Sweep lock unavailable, proceeding without it: %v", err)
	} else if !acquired {
		color.Yellow("Another instance holds the sweep lock, skipping this pass")
		return
	} else {
		defer lock.Release(ctx)
	}

	summary, err := container.RenewalService.ProcessRenewals(ctx, time.Now())
	if err != nil {
		color.Red("Sweep failed: %v", err)
		return
	}

	color.Green("Sweep done in %s", summary.Duration.Round(time.Millisecond))
	color.White("  scanned: %d", summary.Scanned)
	color.White("  warned:  %d", summary.Warned)
	color.White("  renewed: %d", summary.Renewed)
	if summary.Failed > 0 {
		color.Red("  failed:  %d", summary.Failed)
	} else {
		color.White("  failed:  0")
	}
}
