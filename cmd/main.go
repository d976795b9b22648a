package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"metering-dashboard/internal/cache"
	"metering-dashboard/internal/config"
	"metering-dashboard/internal/controller"
	httpserver "metering-dashboard/internal/http"
	"metering-dashboard/internal/meterapi"
	"metering-dashboard/internal/model"
	"metering-dashboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := meterapi.New(cfg.MeterAPIURL, meterapi.Credential(cfg.MeterAPIKey), cfg.ClientTimeout)
	if err != nil {
		log.Fatalf("build metering client: %v", err)
	}

	samples := cache.NewTTLMap[model.SampleQuery, model.MergedSample]()
	usageService := service.NewUsageService(client, samples, service.Settings{
		Window:   cfg.SampleWindow,
		Pages:    cfg.SamplePages,
		PageSize: cfg.SamplePageSize,
		CacheTTL: cfg.CacheTTL,
	})

	var worker service.RefreshWorker
	if cfg.RefreshInterval > 0 {
		worker = service.NewRefreshWorker(usageService, 16, cfg.RefreshInterval)
		// Warm the default window at boot; the first tick is a full
		// interval away.
		worker.Enqueue(model.SampleQuery{})
	}

	dashboard := controller.NewDashboardController(usageService)
	server := httpserver.NewServer(cfg, dashboard)

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if worker != nil {
			worker.Shutdown()
		}
		if err := server.Shutdown(); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("starting server on %s", cfg.HTTPPort)
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
