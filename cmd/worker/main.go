package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/config"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/database"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/mediahost"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/repository"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.RequireMediaHost(); err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	repo := repository.NewPhotoRepository(pool)

	media, err := mediahost.New(cfg.MediaBaseURL, cfg.MediaNamespace)
	if err != nil {
		log.Fatalf("init media host client: %v", err)
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.WorkerCount,
	})
	processor := worker.NewProcessor(repo, media)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	if err := server.Run(mux); err != nil {
		log.Printf("worker stopped: %v", err)
		os.Exit(1)
	}
}
