package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kickoff-academy/field-booking-backend/api"
	"github.com/kickoff-academy/field-booking-backend/app"
	"github.com/kickoff-academy/field-booking-backend/config"
	"github.com/kickoff-academy/field-booking-backend/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

//go:embed database/setup.sql
var setupSQL string

func main() {
	if err := run(); err != nil {
		zerolog.New(os.Stderr).With().Timestamp().Logger().Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()

	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)

	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	reg := prometheus.NewRegistry()
	a, err := app.New(ctx, cfg, logger, reg)

	if err != nil {
		_ = shutdownTracer(context.Background())
		return fmt.Errorf("start: %w", err)
	}

	defer a.Close()

	if _, err := a.Pool.Exec(ctx, setupSQL); err != nil {
		_ = shutdownTracer(context.Background())
		return fmt.Errorf("initialize tables: %w", err)
	}

	logger.Info().Msg("initialized database tables")

	r := newRouter(cfg, logger, a.Pool, reg)
	auth := api.JWTAuth([]byte(cfg.JWTSecret), a.Users)

	// FIELD API

	fieldRouter := r.Group("/api/v1/fields")
	fieldRouter.Use(auth)
	fieldHandler := api.NewFieldHandler(a.Fields, a.Bookings, a.Statistics, a.Location)

	fieldHandler.Register(fieldRouter)

	// BOOKING API

	bookingRouter := r.Group("/api/v1/bookings")
	bookingRouter.Use(auth)
	bookingHandler := api.NewBookingHandler(a.Bookings, a.Statistics, a.Location)

	bookingHandler.Register(bookingRouter)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
		_ = shutdownTracer(ctxShutdown)
	}()

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// pinger is the part of the pool the health check needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// newRouter builds the engine with the middleware and the unauthenticated
// operational routes.
func newRouter(cfg config.Config, logger zerolog.Logger, db pinger, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: len(cfg.CORSOrigins) > 0 && cfg.CORSOrigins[0] != "*",
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if len(c.Errors) > 0 {
			event = logger.Warn().Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
