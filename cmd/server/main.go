package main

import (
	"flag"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		logger.Debug.Println("Loaded environment from .env")
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	if err := service.EnsureAdminAccount(); err != nil {
		logger.Error.Fatalf("Failed to ensure admin account: %v", err)
	}

	root := chi.NewRouter()
	root.Mount("/api", handlers.New(service).Routes())
	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	root.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting semla server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, root); err != nil {
		logger.Error.Fatalf("Semla server failed: %v", err)
	}
}
