package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/console"
)

func main() {
	var configPath = flag.String("config", "admin.toml", "Path to config file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		logger.Debug.Println("Loaded environment from .env")
	}

	config, err := console.ReadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	c := console.New(config, os.Stdin, os.Stdout)
	if err := c.Run(context.Background()); err != nil {
		logger.Error.Fatalf("Console error: %v", err)
	}
}
