package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/kickoff-academy/field-booking-backend/config"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/fields")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := config.Load()

		require.NoError(t, err)
		require.Equal(t, ":9090", cfg.HTTPAddr)
		require.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
		require.Equal(t, time.Hour, cfg.Booking.MinDuration)
		require.Equal(t, 8*time.Hour, cfg.Booking.MaxDuration)
		require.Equal(t, 90*24*time.Hour, cfg.Booking.AdvanceHorizon)
		require.Equal(t, 2*time.Hour, cfg.Booking.CancelCutoff)
		require.Equal(t, 4*time.Hour, cfg.Booking.ModifyCutoff)
		require.False(t, cfg.Booking.EnforceCancelWindow)
		require.Equal(t, 8, cfg.Booking.OpeningHour)
		require.Equal(t, 22, cfg.Booking.ClosingHour)
		require.Equal(t, 3, cfg.Booking.MaxSuggestions)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/fields")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("BOOKING_ENFORCE_CANCEL_WINDOW", "true")
		t.Setenv("BOOKING_MAX_DURATION", "4h")
		t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

		cfg, err := config.Load()

		require.NoError(t, err)
		require.True(t, cfg.Booking.EnforceCancelWindow)
		require.Equal(t, 4*time.Hour, cfg.Booking.MaxDuration)
		require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	})

	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "unset")
		require.NoError(t, os.Unsetenv("DATABASE_URL"))
		t.Setenv("JWT_SECRET", "secret")

		_, err := config.Load()

		require.Error(t, err)
	})

	t.Run("inverted operating hours", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/fields")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("BOOKING_OPENING_HOUR", "22")
		t.Setenv("BOOKING_CLOSING_HOUR", "8")

		_, err := config.Load()

		require.ErrorContains(t, err, "invalid operating hours")
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/fields")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("BOOKING_TIMEZONE", "Mars/Olympus")

		_, err := config.Load()

		require.ErrorContains(t, err, "invalid booking timezone")
	})
}

func TestBookingPolicy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fields")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOOKING_TIMEZONE", "Africa/Cairo")
	t.Setenv("BOOKING_ENFORCE_MODIFY_WINDOW", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	policy, err := cfg.Booking.Policy()

	require.NoError(t, err)
	require.Equal(t, "Africa/Cairo", policy.Location.String())
	require.True(t, policy.EnforceModifyWindow)
	require.False(t, policy.EnforceCancelWindow)
	require.Equal(t, 3, policy.MaxSuggestions)
	require.Equal(t, 14.0, policy.HoursPerDay())
}
