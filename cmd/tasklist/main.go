package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasklist/internal/bot"
	"tasklist/internal/config"
	"tasklist/internal/repository"
	"tasklist/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	storage, err := repository.Open(ctx, cfg.StorageURL)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer storage.Close()

	store := service.NewTaskStore(storage)
	if err := store.Hydrate(ctx); err != nil {
		log.Fatalf("hydrate: %v", err)
	}
	summarySvc := service.NewSummaryService(store)

	telegramBot, err := bot.New(&cfg, store, summarySvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if err := scheduler.ScheduleSummaries(cfg.ReportInterval, cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendSummary(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("summary: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule summaries: %v", err)
	}
	if scheduler.HasJobs() {
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("Task list bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
