package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/farellandr/fastfriends/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Info("No .env file found, relying on environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
