package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/jobster-api/internal/app"
	"github.com/justsurfingit/jobster-api/internal/config"
	"github.com/justsurfingit/jobster-api/internal/logging"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume job events from RabbitMQ into the activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		log := logging.New(cfg.Log)

		application, err := app.New(cfg, log)
		if err != nil {
			return err
		}
		defer application.Close()

		if application.Broker == nil {
			return errors.New("worker requires a reachable broker (set JOBSTER_RABBITMQ_URL)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.WithField("queue", cfg.RabbitMQ.Queue).Info("Worker started, waiting for job events")
		return application.Broker.Consume(ctx, application.Activity.Record)
	},
}
