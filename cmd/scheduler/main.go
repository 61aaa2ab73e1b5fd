package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/credovia/loan-engine/internal/config"
	"github.com/credovia/loan-engine/internal/repository"
	"github.com/credovia/loan-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	log.Info().Msg("starting billing scheduler")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	billingService := service.NewBillingService(loanRepo, paymentRepo, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("invalid scheduler timezone")
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily sweep: installments past their due date and still unpaid
	// become overdue. The amortization core never runs a clock itself.
	_, err = c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		updated, err := billingService.MarkOverdueInstallments(ctx, time.Now().In(location))
		if err != nil {
			log.Error().Err(err).Msg("overdue sweep failed")
			return
		}

		log.Info().Int64("installments", updated).Msg("overdue sweep completed")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule overdue sweep")
	}

	c.Start()
	log.Info().Str("cron", cfg.Scheduler.OverdueCron).Msg("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down scheduler")
	<-c.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// The sweep must drop cached schedules for the loans it touches, so
// the scheduler needs the same Redis wiring as the API server.
func initRedis(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
