package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kickoff-academy/field-booking-backend/account"
	bk "github.com/kickoff-academy/field-booking-backend/booking"
)

//go:generate mockgen -source=booking_handler.go -destination=mocks/booking_handler_mock.go -package=mocks

type BookingService interface {
	CreateBooking(ctx context.Context, caller account.User, req bk.CreateRequest) (bk.Booking, error)
	UpdateBooking(ctx context.Context, caller account.User, id string, req bk.UpdateRequest) (bk.Booking, error)
	ConfirmBooking(ctx context.Context, caller account.User, id string) (bk.Booking, error)
	CompleteBooking(ctx context.Context, caller account.User, id string) (bk.Booking, error)
	CancelBooking(ctx context.Context, caller account.User, id string) (bk.Booking, error)
	GetBooking(ctx context.Context, caller account.User, id string) (bk.Booking, error)
	ListBookings(ctx context.Context, caller account.User, filter bk.ListFilter) ([]bk.Detail, error)
	SetActive(ctx context.Context, caller account.User, id string, active bool) (bk.Booking, error)
	CheckAvailability(ctx context.Context, fieldID string, start, end time.Time, excludeID string) (bk.Availability, error)
	SendReminder(ctx context.Context, caller account.User, id string) error
	ExportBookings(ctx context.Context, caller account.User, filter bk.ListFilter, w io.Writer) error
	Policy() bk.Policy
	Now() time.Time
}

type AcademyStatistics interface {
	AcademyStatistics(ctx context.Context, caller account.User, academyID string, r bk.DateRange) (bk.AcademyStats, error)
}

type BookingHandler struct {
	service BookingService
	stats   AcademyStatistics
	loc     *time.Location
}

func NewBookingHandler(service BookingService, stats AcademyStatistics, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{service: service, stats: stats, loc: loc}
}

func (h *BookingHandler) Register(rg *gin.RouterGroup) {
	adminOnly := AdminOnly()
	rg.GET("", h.List)
	rg.GET("/mine", h.ListMine)
	rg.GET("/statistics", h.Statistics)
	rg.GET("/export", adminOnly, h.Export)
	rg.POST("/check_availability", h.CheckAvailability)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Modify)
	rg.POST("/:id/confirm", h.Confirm)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/send_reminder", h.SendReminder)
	rg.PUT("/:id/active", adminOnly, h.SetActive)
}

type bookingResponse struct {
	bk.Booking
	TotalCost     string  `json:"total_cost"`
	DurationHours float64 `json:"duration_hours"`
	CanCancel     bool    `json:"can_cancel"`
	CanModify     bool    `json:"can_modify"`
}

type detailResponse struct {
	bk.Detail
	TotalCost     string  `json:"total_cost"`
	DurationHours float64 `json:"duration_hours"`
	CanCancel     bool    `json:"can_cancel"`
	CanModify     bool    `json:"can_modify"`
}

func (h *BookingHandler) present(b bk.Booking) bookingResponse {
	policy, now := h.service.Policy(), h.service.Now()
	return bookingResponse{
		Booking:       b,
		TotalCost:     b.TotalCost.StringFixed(2),
		DurationHours: b.DurationHours(),
		CanCancel:     policy.CanCancel(b, now),
		CanModify:     policy.CanModify(b, now),
	}
}

func (h *BookingHandler) presentAll(details []bk.Detail) []detailResponse {
	policy, now := h.service.Policy(), h.service.Now()
	out := make([]detailResponse, len(details))
	for i, d := range details {
		out[i] = detailResponse{
			Detail:        d,
			TotalCost:     d.TotalCost.StringFixed(2),
			DurationHours: d.DurationHours(),
			CanCancel:     policy.CanCancel(d.Booking, now),
			CanModify:     policy.CanModify(d.Booking, now),
		}
	}
	return out
}

func listFilter(c *gin.Context) bk.ListFilter {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	return bk.ListFilter{
		FieldID:         c.Query("field"),
		Status:          bk.Status(c.Query("status")),
		IncludeInactive: includeInactive,
	}
}

func (h *BookingHandler) list(c *gin.Context, filter bk.ListFilter) {
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), currentUser(c), filter)

	if err != nil {
		writeError(c, err, "failed to retrieve bookings")
		return
	}

	c.IndentedJSON(http.StatusOK, h.presentAll(bookings))
}

func (h *BookingHandler) List(c *gin.Context) {
	h.list(c, listFilter(c))
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	filter := listFilter(c)
	filter.Mine = true
	h.list(c, filter)
}

func (h *BookingHandler) GetByID(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), currentUser(c), c.Param("id"))

	if err != nil {
		writeError(c, err, "failed to fetch booking")
		return
	}

	c.IndentedJSON(http.StatusOK, h.present(booking))
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req bk.CreateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse JSON body"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), currentUser(c), req)

	if err != nil {
		writeError(c, err, "failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, h.present(created))
}

func (h *BookingHandler) Modify(c *gin.Context) {
	var req bk.UpdateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse JSON body"})
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), currentUser(c), c.Param("id"), req)

	if err != nil {
		writeError(c, err, "failed to modify booking")
		return
	}

	c.IndentedJSON(http.StatusOK, h.present(updated))
}

type transitionFunc func(ctx context.Context, caller account.User, id string) (bk.Booking, error)

func (h *BookingHandler) transition(c *gin.Context, apply transitionFunc, fallback string) {
	booking, err := apply(c.Request.Context(), currentUser(c), c.Param("id"))

	if err != nil {
		writeError(c, err, fallback)
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"status": booking.Status})
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.ConfirmBooking, "failed to confirm booking")
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.CancelBooking, "failed to cancel booking")
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.CompleteBooking, "failed to complete booking")
}

func (h *BookingHandler) SendReminder(c *gin.Context) {
	if err := h.service.SendReminder(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err, "failed to send reminder")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"message": "reminder sent"})
}

func (h *BookingHandler) SetActive(c *gin.Context) {
	var body struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse JSON body"})
		return
	}

	booking, err := h.service.SetActive(c.Request.Context(), currentUser(c), c.Param("id"), *body.IsActive)

	if err != nil {
		writeError(c, err, "failed to update booking")
		return
	}

	c.IndentedJSON(http.StatusOK, h.present(booking))
}

type availabilityRequest struct {
	FieldID   string    `json:"field_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	ExcludeID string    `json:"exclude_booking_id"`
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req availabilityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "field_id, start_time and end_time are required"})
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), req.FieldID, req.StartTime, req.EndTime, req.ExcludeID)

	if err != nil {
		writeError(c, err, "failed to check availability")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"available":   availability.Available,
		"conflicts":   conflictsOf(availability),
		"suggestions": availability.Suggestions,
		"reason":      availability.Reason,
	})
}

func (h *BookingHandler) Statistics(c *gin.Context) {
	r, ok := parseDateRange(c, h.loc)
	if !ok {
		return
	}

	stats, err := h.stats.AcademyStatistics(c.Request.Context(), currentUser(c), c.Query("academy_id"), r)

	if err != nil {
		writeError(c, err, "failed to get statistics")
		return
	}

	c.IndentedJSON(http.StatusOK, stats)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *BookingHandler) Export(c *gin.Context) {
	var buf bytes.Buffer

	if err := h.service.ExportBookings(c.Request.Context(), currentUser(c), listFilter(c), &buf); err != nil {
		writeError(c, err, "failed to export bookings")
		return
	}

	filename := "bookings-" + h.service.Now().In(h.loc).Format(time.DateOnly) + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
