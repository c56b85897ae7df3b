package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/api"
	mock_api "github.com/kickoff-academy/field-booking-backend/api/mocks"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var pitch = field.Field{
	ID:          "f1",
	AcademyID:   "a1",
	Name:        "Main pitch",
	Type:        field.TypeFootball,
	Capacity:    22,
	HourlyRate:  decimal.RequireFromString("50"),
	IsAvailable: true,
	IsActive:    true,
}

type fieldMocks struct {
	catalog  *mock_api.MockFieldCatalog
	bookings *mock_api.MockFieldBookings
	stats    *mock_api.MockFieldUtilization
}

func setupFieldRouter(t *testing.T, user account.User) (*gin.Engine, *gomock.Controller, fieldMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	mocks := fieldMocks{
		catalog:  mock_api.NewMockFieldCatalog(ctrl),
		bookings: mock_api.NewMockFieldBookings(ctrl),
		stats:    mock_api.NewMockFieldUtilization(ctrl),
	}
	mocks.bookings.EXPECT().Now().Return(now).AnyTimes()

	handler := api.NewFieldHandler(mocks.catalog, mocks.bookings, mocks.stats, time.UTC)
	rg := router.Group("/api/v1/fields")
	rg.Use(setUserInContext(user))
	handler.Register(rg)

	return router, ctrl, mocks
}

func TestListFields(t *testing.T) {
	t.Run("defaults to available fields", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().ListFields(gomock.Any(), coach, field.Filter{AvailableOnly: true}).Return([]field.Field{pitch}, nil).Times(1)

		w := serve(router, "GET", "/api/v1/fields", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var got []map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 1)
		assert.Equal(t, "50.00", got[0]["hourly_rate"])
		assert.NotContains(t, got[0], "booking_count")
	})

	t.Run("filters", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().
			ListFields(gomock.Any(), coach, field.Filter{AcademyID: "a1", Type: field.TypeTennis}).
			Return([]field.Field{}, nil).Times(1)

		w := serve(router, "GET", "/api/v1/fields?academy=a1&field_type=tennis&available=false", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestListFieldsUnknownType(t *testing.T) {
	router, ctrl, mocks := setupFieldRouter(t, coach)
	defer ctrl.Finish()

	mocks.catalog.EXPECT().ListFields(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := serve(router, "GET", "/api/v1/fields?field_type=curling", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unknown field type"}`, w.Body.String())
}

func TestGetField(t *testing.T) {
	t.Run("with overview", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().GetField(gomock.Any(), "f1").Return(pitch, nil).Times(1)
		mocks.catalog.EXPECT().VisibleTo(coach, pitch).Return(true).Times(1)
		mocks.bookings.EXPECT().Overview(gomock.Any(), pitch).
			Return(bk.Overview{BookingCount: 3, NextAvailableSlot: bk.NextSlot{AvailableFrom: now}}, nil).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 3.0, got["booking_count"])
		assert.Equal(t, "Main pitch", got["name"])
	})

	t.Run("other academy", func(t *testing.T) {
		outsider := account.User{ID: "rival", Role: account.RoleCoach, AcademyID: academy("a2")}
		router, ctrl, mocks := setupFieldRouter(t, outsider)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().GetField(gomock.Any(), "f1").Return(pitch, nil).Times(1)
		mocks.catalog.EXPECT().VisibleTo(outsider, pitch).Return(false).Times(1)
		mocks.bookings.EXPECT().Overview(gomock.Any(), gomock.Any()).Times(0)

		w := serve(router, "GET", "/api/v1/fields/f1", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"field not found"}`, w.Body.String())
	})
}

func TestFieldAvailability(t *testing.T) {
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("conflicting bookings", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().GetField(gomock.Any(), "f1").Return(pitch, nil).Times(1)
		mocks.catalog.EXPECT().VisibleTo(coach, pitch).Return(true).Times(1)
		mocks.bookings.EXPECT().CheckAvailability(gomock.Any(), "f1", start, end, "").
			Return(bk.Availability{Conflicts: []bk.Booking{booking}}, nil).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1/availability?start_time=2026-05-04T10:00:00Z&end_time=2026-05-04T12:00:00Z", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"available": false,
			"conflicting_bookings": [{
				"id": "b1",
				"start_time": "2026-05-04T10:00:00Z",
				"end_time": "2026-05-04T12:00:00Z",
				"status": "pending",
				"booked_by": "coach"
			}]
		}`, w.Body.String())
	})

	t.Run("missing end", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().GetField(gomock.Any(), gomock.Any()).Times(0)

		w := serve(router, "GET", "/api/v1/fields/f1/availability?start_time=2026-05-04T10:00:00Z", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"end_time is required"}`, w.Body.String())
	})

	t.Run("bad start", func(t *testing.T) {
		router, ctrl, _ := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		w := serve(router, "GET", "/api/v1/fields/f1/availability?start_time=tomorrow&end_time=2026-05-04T12:00:00Z", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"failed to parse start_time"}`, w.Body.String())
	})
}

func TestFieldSchedule(t *testing.T) {
	t.Run("defaults to a week from today", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().GetField(gomock.Any(), "f1").Return(pitch, nil).Times(1)
		mocks.catalog.EXPECT().VisibleTo(coach, pitch).Return(true).Times(1)
		mocks.bookings.EXPECT().Schedule(gomock.Any(), "f1", now, 7).
			Return([]bk.DaySchedule{{Date: "2026-05-01", Bookings: []bk.Detail{}}}, nil).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1/schedule", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"date":"2026-05-01","bookings":[]}]`, w.Body.String())
	})

	t.Run("explicit date", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.catalog.EXPECT().GetField(gomock.Any(), "f1").Return(pitch, nil).Times(1)
		mocks.catalog.EXPECT().VisibleTo(coach, pitch).Return(true).Times(1)
		mocks.bookings.EXPECT().Schedule(gomock.Any(), "f1", time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), 3).
			Return([]bk.DaySchedule{}, nil).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1/schedule?date=2026-05-10&days=3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad days", func(t *testing.T) {
		router, ctrl, _ := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		w := serve(router, "GET", "/api/v1/fields/f1/schedule?days=0", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"days must be a positive number"}`, w.Body.String())
	})
}

func TestFieldUtilization(t *testing.T) {
	t.Run("report", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, admin)
		defer ctrl.Finish()

		mocks.stats.EXPECT().FieldUtilization(gomock.Any(), admin, "f1", gomock.Any(), "weekly").
			DoAndReturn(func(_ context.Context, _ account.User, _ string, r bk.DateRange, _ string) (bk.FieldReport, error) {
				assert.Equal(t, "2026-05-01", r.From.Format(time.DateOnly))
				assert.Nil(t, r.To)
				return bk.FieldReport{FieldID: "f1", FieldName: "Main pitch", Period: "weekly"}, nil
			}).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1/utilization?period=weekly&start_date=2026-05-01", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "weekly", got["period"])
		assert.Equal(t, "Main pitch", got["field_name"])
	})

	t.Run("bad period", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, admin)
		defer ctrl.Finish()

		mocks.stats.EXPECT().FieldUtilization(gomock.Any(), admin, "f1", gomock.Any(), "daily").
			Return(bk.FieldReport{}, &bk.ValidationError{Message: "Period must be 'weekly' or 'monthly'."}).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1/utilization?period=daily", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Period must be 'weekly' or 'monthly'."}`, w.Body.String())
	})

	t.Run("not a member", func(t *testing.T) {
		router, ctrl, mocks := setupFieldRouter(t, coach)
		defer ctrl.Finish()

		mocks.stats.EXPECT().FieldUtilization(gomock.Any(), coach, "f1", gomock.Any(), "").
			Return(bk.FieldReport{}, bk.ErrNotAllowed).Times(1)

		w := serve(router, "GET", "/api/v1/fields/f1/utilization", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
