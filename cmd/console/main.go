package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/config"
	"github.com/example/laundrypro/internal/database"
	"github.com/example/laundrypro/internal/metrics"
	"github.com/example/laundrypro/internal/routes"
)

func main() {
	cfg := config.Load()

	var cookies apiclient.CookieStore
	if cfg.DatabaseURL != "" {
		db := database.Connect(cfg.DatabaseURL)
		cookies = database.NewCookieRepository(db)
	} else {
		log.Printf("[Console] DATABASE_URL not set, session cookies live in memory only")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.Build(cfg, cookies, metrics.New(reg))
	if err != nil {
		log.Fatalf("app.Build error: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout*2)
	a.Start(ctx)
	cancel()
	log.Printf("[Console] session phase after resume: %s", a.Auth.Snapshot().Phase)

	server := routes.NewServer(a, reg)

	log.Printf("Starting console on :%s against %s", cfg.AppPort, cfg.APIBaseURL)
	if err := server.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
