package obs_test

import (
	"context"
	"testing"

	"github.com/kickoff-academy/field-booking-backend/obs"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := obs.InitTracer(context.Background(), "field-booking", "")

	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
