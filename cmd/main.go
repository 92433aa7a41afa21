package main

import (
	"FoodShare-Backend/cmd/config"
	migration "FoodShare-Backend/cmd/database/migrate"
	"FoodShare-Backend/internal/utils"
	"FoodShare-Backend/pkg/realtime"
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
}

func main() {
	utils.LoadConfig()

	level, err := zerolog.ParseLevel(utils.GetConfig("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if err := migration.Migrate(db); err != nil {
		return err
	}
	log.Info().Msg("database migration complete")

	hub := realtime.NewHub(log.Logger)
	defer hub.Close()

	var publisher realtime.Publisher = hub
	feedErr := make(chan error, 1)
	if url := utils.GetConfig("RABBITMQ_URL"); url != "" {
		mq, err := realtime.ConnectRabbitMQ(url, hub, log.Logger)
		if err != nil {
			return err
		}
		defer mq.Close()
		publisher = mq

		go func() {
			if err := mq.Consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
				feedErr <- err
			}
		}()
	}

	app, err := config.NewApp(ctx, db, hub, publisher)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + utils.GetConfig("APP_PORT"))
	}()
	log.Info().Str("port", utils.GetConfig("APP_PORT")).Msg("server started")

	var runErr error
	select {
	case err := <-errCh:
		return err
	case err := <-feedErr:
		// other instances' changes no longer arrive; exit so the process is restarted
		log.Error().Err(err).Msg("change feed consumer stopped")
		runErr = err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	// close streams first so the server is not kept waiting on them
	hub.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	return runErr
}
