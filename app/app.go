package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kickoff-academy/field-booking-backend/account"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
	"github.com/kickoff-academy/field-booking-backend/cache"
	"github.com/kickoff-academy/field-booking-backend/config"
	"github.com/kickoff-academy/field-booking-backend/discord"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/kickoff-academy/field-booking-backend/metrics"
	"github.com/kickoff-academy/field-booking-backend/notify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

const lookupTTL = time.Minute

// NewLogger builds the process logger. LOG_FORMAT=json switches off the console writer.
func NewLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Str("service", cfg.ServiceName).Logger()
}

// App holds the wired services shared by the API server and the reminder job.
type App struct {
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	Users      *account.Directory
	Fields     *field.Catalog
	Bookings   *bk.Service
	Statistics *bk.Statistics
	Metrics    *metrics.Metrics
	Location   *time.Location

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*App, error) {
	policy, err := cfg.Booking.Policy()
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("connecting to PostgreSQL database")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	a := &App{
		Pool:     pool,
		Metrics:  metrics.New(reg, "field_booking"),
		Location: policy.Location,
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	if cfg.RedisAddr != "" {
		a.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		a.closers = append(a.closers, a.Redis.Close)
	}

	notifier, err := a.notifier(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Users = account.NewDirectory(account.NewRepository(pool), lookupTTL)
	a.Fields = field.NewCatalog(field.NewRepository(pool), lookupTTL)

	bookings := bk.NewRepository(pool)
	reports := cache.NewRedisJSON(a.Redis, "stats:", cfg.StatsCacheTTL, logger)
	a.Statistics = bk.NewStatistics(bookings, a.Fields, reports, policy, a.Metrics, logger)
	a.Bookings = bk.NewService(bookings, a.Fields, a.Users, notifier, policy, logger,
		bk.WithMetrics(a.Metrics),
		bk.WithStatsInvalidator(a.Statistics),
		bk.WithTracer(otel.Tracer(cfg.ServiceName)),
	)

	return a, nil
}

// notifier always logs events and fans out to RabbitMQ and Discord when configured.
func (a *App) notifier(cfg config.Config, logger zerolog.Logger) (notify.Notifier, error) {
	notifiers := notify.Multi{notify.NewLogNotifier(logger)}

	if cfg.AMQPURL != "" {
		publisher, err := notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close)
		notifiers = append(notifiers, publisher)
	}

	if cfg.DiscordBotToken != "" && cfg.DiscordChannelID != "" {
		notifiers = append(notifiers, notify.NewDiscordNotifier(discord.NewClient(cfg.DiscordBotToken), cfg.DiscordChannelID))
	}

	return notifiers, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
