package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/fundfacts/internal/builder"
	"go.uber.org/zap"
)

func main() {
	env := flag.String("env", "local", "environment name, selects the .env.<env> file")
	flag.Parse()

	bot, logger, err := builder.BuildTelegramBot(*env)
	if err != nil {
		log.Fatal("Failed to build telegram bot: ", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		logger.Error("telegram bot error", zap.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("received shutdown signal, draining in-flight questions")

	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("telegram bot stopped gracefully")
}
