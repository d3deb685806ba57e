package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/api"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/config"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/database"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/repository"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/signing"
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

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	repos := api.Repositories{
		Photos:      repository.NewPhotoRepository(pool),
		Collections: repository.NewCollectionRepository(pool),
		Videos:      repository.NewVideoRepository(pool),
		Site:        repository.NewSiteRepository(pool),
	}
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer queueClient.Close()
	signer := signing.NewSigner(cfg.SessionSecret)

	srv := api.New(cfg, repos, queueClient, signer)
	if err := srv.Run(ctx); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
