package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
)

type Config struct {
	DatabaseURL string   `envconfig:"DATABASE_URL" required:"true"`
	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":9090"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"` // console or json

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	StatsCacheTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"5m"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"bookings"`

	DiscordBotToken  string `envconfig:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `envconfig:"DISCORD_CHANNEL_ID"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"field-booking"`

	Booking BookingConfig `envconfig:"BOOKING"`
}

// BookingConfig holds the rules applied by the booking lifecycle.
// Variables are prefixed with BOOKING_, e.g. BOOKING_MAX_DURATION=8h.
type BookingConfig struct {
	MinDuration         time.Duration `envconfig:"MIN_DURATION" default:"1h"`
	MaxDuration         time.Duration `envconfig:"MAX_DURATION" default:"8h"`
	AdvanceHorizon      time.Duration `envconfig:"ADVANCE_HORIZON" default:"2160h"`
	CancelCutoff        time.Duration `envconfig:"CANCEL_CUTOFF" default:"2h"`
	ModifyCutoff        time.Duration `envconfig:"MODIFY_CUTOFF" default:"4h"`
	EnforceCancelWindow bool          `envconfig:"ENFORCE_CANCEL_WINDOW" default:"false"`
	EnforceModifyWindow bool          `envconfig:"ENFORCE_MODIFY_WINDOW" default:"false"`
	OpeningHour         int           `envconfig:"OPENING_HOUR" default:"8"`
	ClosingHour         int           `envconfig:"CLOSING_HOUR" default:"22"`
	MaxSuggestions      int           `envconfig:"MAX_SUGGESTIONS" default:"3"`
	Timezone            string        `envconfig:"TIMEZONE" default:"UTC"`
}

// Location resolves the timezone used for operating hours and report days.
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Policy converts the configured rules into a booking policy.
func (b BookingConfig) Policy() (bk.Policy, error) {
	loc, err := b.Location()
	if err != nil {
		return bk.Policy{}, err
	}

	return bk.Policy{
		MinDuration:         b.MinDuration,
		MaxDuration:         b.MaxDuration,
		AdvanceHorizon:      b.AdvanceHorizon,
		CancelCutoff:        b.CancelCutoff,
		ModifyCutoff:        b.ModifyCutoff,
		EnforceCancelWindow: b.EnforceCancelWindow,
		EnforceModifyWindow: b.EnforceModifyWindow,
		OpeningHour:         b.OpeningHour,
		ClosingHour:         b.ClosingHour,
		MaxSuggestions:      b.MaxSuggestions,
		Location:            loc,
	}, nil
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if err := c.Booking.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (b BookingConfig) validate() error {
	if b.MinDuration <= 0 || b.MaxDuration < b.MinDuration {
		return fmt.Errorf("invalid booking durations: min %v, max %v", b.MinDuration, b.MaxDuration)
	}

	if b.OpeningHour < 0 || b.ClosingHour > 24 || b.OpeningHour >= b.ClosingHour {
		return fmt.Errorf("invalid operating hours: %d-%d", b.OpeningHour, b.ClosingHour)
	}

	if _, err := b.Location(); err != nil {
		return fmt.Errorf("invalid booking timezone %q: %w", b.Timezone, err)
	}

	if b.MaxSuggestions < 0 {
		return fmt.Errorf("invalid max suggestions: %d", b.MaxSuggestions)
	}

	return nil
}
