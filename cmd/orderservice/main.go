package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/infrastructure/logger"
	"radagast/internal/infrastructure/mysql"
	"radagast/internal/messaging"
	"radagast/internal/order"
	"radagast/internal/order/controller"
	"radagast/internal/order/usecase"
	"radagast/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	var publisher usecase.EventPublisher = messaging.NopPublisher{}
	if cfg.AMQP.URL != "" {
		conn, err := messaging.NewConnection(cfg.AMQP.URL, zapLogger)
		if err != nil {
			zapLogger.Fatal("connecting to message broker", zap.Error(err))
		}
		amqpPublisher := messaging.NewPublisher(conn, zapLogger)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		zapLogger.Info("message broker connected")
	}

	orderCtrl := order.NewModule(db, publisher, zapLogger)
	router := controller.NewRouter(orderCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
