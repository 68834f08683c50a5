package main

import (
	"context"
	"log"

	"school-mgmt-be/internal/bootstrap"
	"school-mgmt-be/internal/config"
	"school-mgmt-be/internal/server"
	"school-mgmt-be/internal/tracer"
	"school-mgmt-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing (opt-in)
	if cfg.OtelEnabled {
		shutdown, err := tracer.Init(context.Background(), "school-mgmt-be", cfg.OtelEndpoint)
		if err != nil {
			log.Printf("[WARN] Failed to initialize tracer: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.DBConnectionString)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 5. Start Background Services
	if err := container.MailConsumerService.Start(context.Background()); err != nil {
		log.Printf("[WARN] Failed to start mail consumer: %v", err)
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
