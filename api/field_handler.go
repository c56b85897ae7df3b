package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kickoff-academy/field-booking-backend/account"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
	"github.com/kickoff-academy/field-booking-backend/field"
)

//go:generate mockgen -source=field_handler.go -destination=mocks/field_handler_mock.go -package=mocks

type FieldCatalog interface {
	GetField(ctx context.Context, id string) (field.Field, error)
	ListFields(ctx context.Context, user account.User, filter field.Filter) ([]field.Field, error)
	VisibleTo(user account.User, f field.Field) bool
}

type FieldBookings interface {
	CheckAvailability(ctx context.Context, fieldID string, start, end time.Time, excludeID string) (bk.Availability, error)
	Schedule(ctx context.Context, fieldID string, from time.Time, days int) ([]bk.DaySchedule, error)
	Overview(ctx context.Context, f field.Field) (bk.Overview, error)
	Now() time.Time
}

type FieldUtilization interface {
	FieldUtilization(ctx context.Context, caller account.User, fieldID string, r bk.DateRange, period string) (bk.FieldReport, error)
}

type FieldHandler struct {
	catalog  FieldCatalog
	bookings FieldBookings
	stats    FieldUtilization
	loc      *time.Location
}

func NewFieldHandler(catalog FieldCatalog, bookings FieldBookings, stats FieldUtilization, loc *time.Location) *FieldHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &FieldHandler{catalog: catalog, bookings: bookings, stats: stats, loc: loc}
}

func (h *FieldHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/availability", h.Availability)
	rg.GET("/:id/schedule", h.Schedule)
	rg.GET("/:id/utilization", h.Utilization)
}

type fieldResponse struct {
	field.Field
	HourlyRate string `json:"hourly_rate"`
	*bk.Overview
}

// lookup loads a field the caller may see. Fields of other academies are
// reported as missing.
func (h *FieldHandler) lookup(c *gin.Context) (field.Field, bool) {
	f, err := h.catalog.GetField(c.Request.Context(), c.Param("id"))

	if err == nil && !h.catalog.VisibleTo(currentUser(c), f) {
		err = field.ErrFieldNotFound
	}

	if err != nil {
		writeError(c, err, "failed to fetch field")
		return field.Field{}, false
	}

	return f, true
}

func (h *FieldHandler) List(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.DefaultQuery("available", "true"))
	filter := field.Filter{
		AcademyID:     c.Query("academy"),
		Type:          field.Type(c.Query("field_type")),
		AvailableOnly: availableOnly,
	}

	if filter.Type != "" && !filter.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field type"})
		return
	}

	fields, err := h.catalog.ListFields(c.Request.Context(), currentUser(c), filter)

	if err != nil {
		writeError(c, err, "failed to retrieve fields")
		return
	}

	out := make([]fieldResponse, len(fields))
	for i, f := range fields {
		out[i] = fieldResponse{Field: f, HourlyRate: f.HourlyRate.StringFixed(2)}
	}

	c.IndentedJSON(http.StatusOK, out)
}

func (h *FieldHandler) GetByID(c *gin.Context) {
	f, ok := h.lookup(c)
	if !ok {
		return
	}

	overview, err := h.bookings.Overview(c.Request.Context(), f)

	if err != nil {
		writeError(c, err, "failed to fetch field")
		return
	}

	c.IndentedJSON(http.StatusOK, fieldResponse{Field: f, HourlyRate: f.HourlyRate.StringFixed(2), Overview: &overview})
}

type conflictingBooking struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    bk.Status `json:"status"`
	BookedBy  string    `json:"booked_by"`
}

// conflictsOf keeps only the scheduling columns of competing bookings.
func conflictsOf(a bk.Availability) []conflictingBooking {
	conflicts := make([]conflictingBooking, len(a.Conflicts))
	for i, b := range a.Conflicts {
		conflicts[i] = conflictingBooking{ID: b.ID, StartTime: b.StartTime, EndTime: b.EndTime, Status: b.Status, BookedBy: b.BookedBy}
	}
	return conflicts
}

func (h *FieldHandler) Availability(c *gin.Context) {
	start, ok := parseInstant(c, "start_time")
	if !ok {
		return
	}

	end, ok := parseInstant(c, "end_time")
	if !ok {
		return
	}

	f, ok := h.lookup(c)
	if !ok {
		return
	}

	availability, err := h.bookings.CheckAvailability(c.Request.Context(), f.ID, start, end, "")

	if err != nil {
		writeError(c, err, "failed to check availability")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"available":            availability.Available,
		"conflicting_bookings": conflictsOf(availability),
	})
}

func (h *FieldHandler) Schedule(c *gin.Context) {
	from := h.bookings.Now().In(h.loc)

	if value := c.Query("date"); value != "" {
		d, err := time.ParseInLocation(time.DateOnly, value, h.loc)

		if err != nil {
			c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse date"})
			return
		}

		from = d
	}

	days := 7
	if value := c.Query("days"); value != "" {
		n, err := strconv.Atoi(value)

		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive number"})
			return
		}

		days = n
	}

	f, ok := h.lookup(c)
	if !ok {
		return
	}

	schedule, err := h.bookings.Schedule(c.Request.Context(), f.ID, from, days)

	if err != nil {
		writeError(c, err, "failed to get schedule")
		return
	}

	c.IndentedJSON(http.StatusOK, schedule)
}

func (h *FieldHandler) Utilization(c *gin.Context) {
	r, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}

	report, err := h.stats.FieldUtilization(c.Request.Context(), currentUser(c), c.Param("id"), r, c.Query("period"))

	if err != nil {
		writeError(c, err, "failed to get utilization")
		return
	}

	c.IndentedJSON(http.StatusOK, report)
}
