package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/mailer"
	"github.com/dmitrijs2005/newsletter/internal/server/config"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.Env)

	smtp := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailSender)
	w := mailer.NewWorker(email.WithTimeout(smtp, cfg.EmailTimeout), logger)

	logger.Info(ctx, "Starting mailer", "env", cfg.Env)
	if err := w.Run(ctx, cfg.AMQPURL, cfg.AMQPQueue); err != nil {
		log.Fatalf("mailer: %v", err)
	}
	logger.Info(ctx, "Mailer stopped")
}
