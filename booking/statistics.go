package booking

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/kickoff-academy/field-booking-backend/field"
	"github.com/shopspring/decimal"
)

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	defaultReportDays = 30
	topHours          = 2
)

// DateRange is an inclusive range of calendar days. Either end may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Days counts the days in the range, falling back to 30 when an end is open.
func (r DateRange) Days() int {
	if r.From == nil || r.To == nil {
		return defaultReportDays
	}
	return int(math.Round(r.To.Sub(*r.From).Hours()/24)) + 1
}

func (r DateRange) closed() bool {
	return r.From != nil && r.To != nil
}

// Bounds turns the range into a Query window: StartFrom is the first day's
// midnight and StartBefore the midnight after the last day.
func (r DateRange) Bounds() (time.Time, time.Time) {
	var from, before time.Time
	if r.From != nil {
		from, _ = dayBounds(*r.From)
	}
	if r.To != nil {
		_, before = dayBounds(*r.To)
	}
	return from, before
}

func (r DateRange) key() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(time.DateOnly)
	}
	return format(r.From) + ":" + format(r.To)
}

type ReportRange struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type UtilizationStats struct {
	TotalHoursAvailable    float64  `json:"total_hours_available"`
	TotalHoursBooked       float64  `json:"total_hours_booked"`
	TotalBookings          int      `json:"total_bookings"`
	UtilizationRate        float64  `json:"utilization_rate"`
	AverageBookingDuration float64  `json:"average_booking_duration"`
	PeakHours              []string `json:"peak_hours"`
	LeastBusyHours         []string `json:"least_busy_hours"`
}

type RevenueStats struct {
	TotalRevenue             string `json:"total_revenue"`
	AverageRevenuePerBooking string `json:"average_revenue_per_booking"`
	AverageRevenuePerHour    string `json:"average_revenue_per_hour"`
	ProjectedMonthlyRevenue  string `json:"projected_monthly_revenue"`
}

type WeeklyTrend struct {
	Week        int     `json:"week"`
	WeekStart   string  `json:"week_start"`
	Bookings    int     `json:"bookings"`
	Revenue     string  `json:"revenue"`
	Utilization float64 `json:"utilization"`
}

type BookingTotals struct {
	Total   int    `json:"total"`
	Revenue string `json:"revenue"`
}

type UserTypeBreakdown struct {
	Internal BookingTotals `json:"internal_bookings"`
	External BookingTotals `json:"external_bookings"`
}

// FieldReport is the utilization report of a single field.
type FieldReport struct {
	FieldID           string            `json:"field_id"`
	FieldName         string            `json:"field_name"`
	Period            string            `json:"period"`
	DateRange         ReportRange       `json:"date_range"`
	UtilizationStats  UtilizationStats  `json:"utilization_stats"`
	RevenueStats      RevenueStats      `json:"revenue_stats"`
	BookingTrends     []WeeklyTrend     `json:"booking_trends,omitempty"`
	UserTypeBreakdown UserTypeBreakdown `json:"user_type_breakdown"`
}

type AcademyStats struct {
	TotalBookings    int            `json:"total_bookings"`
	TotalRevenue     float64        `json:"total_revenue"`
	AverageCost      float64        `json:"average_cost"`
	StatusBreakdown  map[Status]int `json:"status_breakdown"`
	MostPopularField string         `json:"most_popular_field"`
}

func billed(bookings []Detail) []Detail {
	out := make([]Detail, 0, len(bookings))
	for _, b := range bookings {
		if slices.Contains(BilledStatuses, b.Status) {
			out = append(out, b)
		}
	}
	return out
}

func bookedHours(bookings []Detail) float64 {
	var seconds float64
	for _, b := range bookings {
		seconds += b.Duration().Seconds()
	}
	return seconds / 3600
}

func revenue(bookings []Detail) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bookings {
		total = total.Add(b.TotalCost)
	}
	return total
}

// Utilization computes the booked share of the operating hours in r.
// Only confirmed and completed bookings count.
func (p Policy) Utilization(bookings []Detail, r DateRange) UtilizationStats {
	counted := billed(bookings)
	booked := round(bookedHours(counted), 2)
	available := float64(r.Days()) * p.HoursPerDay()

	stats := UtilizationStats{
		TotalHoursAvailable: available,
		TotalHoursBooked:    booked,
		TotalBookings:       len(counted),
		PeakHours:           []string{},
		LeastBusyHours:      []string{},
	}

	if available > 0 {
		stats.UtilizationRate = round(booked/available*100, 2)
	}

	if len(counted) > 0 {
		stats.AverageBookingDuration = round(booked/float64(len(counted)), 1)
		stats.PeakHours, stats.LeastBusyHours = busyHours(counted, p.location())
	}

	return stats
}

type hourCount struct {
	label string
	count int
}

// busyHours buckets bookings by start hour. Buckets with equal counts keep
// the order in which they first appear.
func busyHours(bookings []Detail, loc *time.Location) ([]string, []string) {
	sorted := slices.Clone(bookings)
	slices.SortStableFunc(sorted, func(a, b Detail) int { return a.StartTime.Compare(b.StartTime) })

	var buckets []hourCount
	index := map[string]int{}

	for _, b := range sorted {
		h := b.StartTime.In(loc).Hour()
		label := fmt.Sprintf("%02d:00-%02d:00", h, h+1)

		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, hourCount{label: label})
		}
		buckets[i].count++
	}

	take := func(desc bool) []string {
		ordered := slices.Clone(buckets)
		slices.SortStableFunc(ordered, func(a, b hourCount) int {
			if desc {
				return b.count - a.count
			}
			return a.count - b.count
		})

		labels := []string{}
		for _, hc := range ordered[:min(topHours, len(ordered))] {
			labels = append(labels, hc.label)
		}
		return labels
	}

	return take(true), take(false)
}

// BuildFieldReport assembles the utilization report of f from its bookings
// in r. Bookings of other statuses are ignored.
func (p Policy) BuildFieldReport(f field.Field, bookings []Detail, r DateRange, period string) FieldReport {
	if period == "" {
		period = PeriodMonthly
	}

	counted := billed(bookings)
	total := revenue(counted)

	report := FieldReport{
		FieldID:          f.ID,
		FieldName:        f.Name,
		Period:           period,
		DateRange:        reportRange(r),
		UtilizationStats: p.Utilization(counted, r),
		RevenueStats: RevenueStats{
			TotalRevenue:             total.StringFixed(2),
			AverageRevenuePerBooking: decimal.Zero.StringFixed(2),
			AverageRevenuePerHour:    f.HourlyRate.StringFixed(2),
			ProjectedMonthlyRevenue:  total.StringFixed(2),
		},
	}

	if len(counted) > 0 {
		report.RevenueStats.AverageRevenuePerBooking = total.Div(decimal.NewFromInt(int64(len(counted)))).StringFixed(2)

		if period == PeriodMonthly && r.closed() && r.Days() < defaultReportDays {
			projected := total.Mul(decimal.NewFromInt(defaultReportDays)).Div(decimal.NewFromInt(int64(r.Days())))
			report.RevenueStats.ProjectedMonthlyRevenue = projected.StringFixed(2)
		}
	}

	if period == PeriodWeekly && r.closed() {
		report.BookingTrends = p.weeklyTrends(counted, r)
	}

	report.UserTypeBreakdown = userTypeBreakdown(counted)

	return report
}

func (p Policy) weeklyTrends(bookings []Detail, r DateRange) []WeeklyTrend {
	loc := p.location()
	weekCapacity := 7 * p.HoursPerDay()
	trends := []WeeklyTrend{}

	current, _ := dayBounds(*r.From)
	last, _ := dayBounds(*r.To)

	for week := 1; !current.After(last); week++ {
		weekEnd := current.AddDate(0, 0, 6)
		if weekEnd.After(last) {
			weekEnd = last
		}
		_, before := dayBounds(weekEnd)

		var in []Detail
		for _, b := range bookings {
			start := b.StartTime.In(loc)
			if !start.Before(current) && start.Before(before) {
				in = append(in, b)
			}
		}

		trend := WeeklyTrend{
			Week:      week,
			WeekStart: current.Format(time.DateOnly),
			Bookings:  len(in),
			Revenue:   revenue(in).StringFixed(2),
		}
		if weekCapacity > 0 {
			trend.Utilization = round(bookedHours(in)/weekCapacity*100, 1)
		}

		trends = append(trends, trend)
		current = weekEnd.AddDate(0, 0, 1)
	}

	return trends
}

func userTypeBreakdown(bookings []Detail) UserTypeBreakdown {
	var internal, external []Detail
	for _, b := range bookings {
		switch {
		case b.BookedByRole.Internal():
			internal = append(internal, b)
		case b.BookedByRole == account.RoleExternalClient:
			external = append(external, b)
		}
	}

	return UserTypeBreakdown{
		Internal: BookingTotals{Total: len(internal), Revenue: revenue(internal).StringFixed(2)},
		External: BookingTotals{Total: len(external), Revenue: revenue(external).StringFixed(2)},
	}
}

func reportRange(r DateRange) ReportRange {
	format := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(time.DateOnly)
		return &s
	}
	return ReportRange{StartDate: format(r.From), EndDate: format(r.To)}
}

// BuildAcademyStats summarises bookings of every status. The most popular
// field is the one with most bookings, ties going to the first name.
func BuildAcademyStats(bookings []Detail) AcademyStats {
	stats := AcademyStats{
		TotalBookings:    len(bookings),
		StatusBreakdown:  make(map[Status]int, len(AllStatuses)),
		MostPopularField: "N/A",
	}

	for _, s := range AllStatuses {
		stats.StatusBreakdown[s] = 0
	}

	perField := map[string]int{}
	for _, b := range bookings {
		stats.StatusBreakdown[b.Status]++
		perField[b.FieldName]++
	}

	total := revenue(bookings)
	stats.TotalRevenue = total.InexactFloat64()

	if len(bookings) > 0 {
		stats.AverageCost = total.Div(decimal.NewFromInt(int64(len(bookings)))).Round(2).InexactFloat64()
	}

	best := 0
	for name, count := range perField {
		if count > best || (count == best && name < stats.MostPopularField) {
			best, stats.MostPopularField = count, name
		}
	}

	return stats
}
