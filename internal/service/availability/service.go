package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/metrics"
	"github.com/lidiabooking/booking-api/pkg/timeslot"
	"github.com/lidiabooking/booking-api/pkg/timeutil"
)

// Window source labels for metrics.
const (
	sourceSchedule = "schedule"
	sourceFixed    = "fixed"
)

// Config carries the engine knobs. Both grid steps and the fixed
// working window come from process configuration.
type Config struct {
	Timezone         string
	DefaultBufferMin int
	ScheduleGridMin  int
	FixedGridMin     int
	WorkdayStart     string
	WorkdayEnd       string
	CacheTTL         time.Duration
}

// Service computes bookable slots. It is the single availability
// engine, parameterized by window source: per-staff weekly schedules
// or the configured fixed working window.
type Service struct {
	services repository.ServiceRepository
	staff    repository.StaffRepository
	bookings repository.BookingRepository
	cfg      Config
	cache    *gocache.Cache
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	services repository.ServiceRepository,
	staff repository.StaffRepository,
	bookings repository.BookingRepository,
	cfg Config,
	m *metrics.Metrics,
) *Service {
	return &Service{
		services: services,
		staff:    staff,
		bookings: bookings,
		cfg:      cfg,
		cache:    gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock overrides the engine clock. Used by the today-cutoff rules
// and injected in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Invalidate drops every cached availability response. Called by the
// booking service after any mutation.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

// ComputeAvailability returns one slot list per eligible staff member
// for the given service and local calendar day, driven by weekly
// schedules. Staff with no schedule entry for the day still appear,
// with an empty slot list. An unknown service is an error; an empty
// staff set is an empty result.
func (s *Service) ComputeAvailability(ctx context.Context, serviceID uuid.UUID, day time.Time, staffFilter *uuid.UUID) ([]*model.StaffAvailability, error) {
	if s.metrics != nil {
		s.metrics.AvailabilityRequests.WithLabelValues(sourceSchedule).Inc()
		timer := prometheus.NewTimer(s.metrics.AvailabilityLatency.WithLabelValues(sourceSchedule))
		defer timer.ObserveDuration()
	}

	cacheKey := availabilityCacheKey(serviceID, day, staffFilter)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if s.metrics != nil {
			s.metrics.AvailabilityCacheHit.Inc()
		}
		return cached.([]*model.StaffAvailability), nil
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}

	staffList, err := s.staff.ListActive(ctx, staffFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	if len(staffList) == 0 {
		return []*model.StaffAvailability{}, nil
	}

	dayStartUTC, dayEndUTC, err := timeutil.LocalDayBoundsUTC(day, s.cfg.Timezone)
	if err != nil {
		return nil, err
	}

	slotSpan := time.Duration(svc.DurationMinutes+s.cfg.DefaultBufferMin) * time.Minute
	dow := timeutil.DayOfWeek(day)
	dateLocal := day.Format(timeutil.DateLayout)

	results := make([]*model.StaffAvailability, 0, len(staffList))
	for _, st := range staffList {
		entry := &model.StaffAvailability{
			StaffID:   st.ID,
			StaffName: st.FullName,
			DateLocal: dateLocal,
			ServiceID: serviceID,
			Slots:     []model.Slot{},
		}

		schedules, err := s.staff.GetScheduleEntries(ctx, st.ID, dow)
		if err != nil {
			return nil, fmt.Errorf("failed to get schedule entries: %w", err)
		}
		if len(schedules) == 0 {
			results = append(results, entry)
			continue
		}

		busy, err := s.busyLocal(ctx, st.ID, dayStartUTC, dayEndUTC)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]struct{})
		for _, sched := range schedules {
			windowStart, windowEnd, err := s.scheduleWindow(day, sched)
			if err != nil {
				return nil, err
			}

			slots, err := s.slotsInWindow(windowStart, windowEnd, s.cfg.ScheduleGridMin, slotSpan, busy, nil)
			if err != nil {
				return nil, err
			}
			for _, slot := range slots {
				if _, dup := seen[slot]; dup {
					continue
				}
				seen[slot] = struct{}{}
				entry.Slots = append(entry.Slots, model.Slot{TimeLocal: slot})
			}
		}

		results = append(results, entry)
	}

	s.cache.SetDefault(cacheKey, results)
	return results, nil
}

// AvailableSlots is the fixed-window variant used by the public slot
// listing: the configured daily working window, the coarse grid step,
// and the today-cutoff rules. Past days yield an empty list; for today
// the grid starts at the next grid boundary at or after the current
// local time.
func (s *Service) AvailableSlots(ctx context.Context, serviceID, staffID uuid.UUID, day time.Time) ([]string, error) {
	if s.metrics != nil {
		s.metrics.AvailabilityRequests.WithLabelValues(sourceFixed).Inc()
		timer := prometheus.NewTimer(s.metrics.AvailabilityLatency.WithLabelValues(sourceFixed))
		defer timer.ObserveDuration()
	}

	loc, err := timeutil.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return nil, err
	}
	nowLocal := s.now().In(loc)

	// Past days are empty before anything else is looked at.
	if compareDate(day, nowLocal) == -1 {
		return []string{}, nil
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}

	startClock, err := timeutil.ParseClock(s.cfg.WorkdayStart)
	if err != nil {
		return nil, err
	}
	endClock, err := timeutil.ParseClock(s.cfg.WorkdayEnd)
	if err != nil {
		return nil, err
	}

	workStart, err := timeutil.CombineLocalDateTime(day, startClock, s.cfg.Timezone)
	if err != nil {
		return nil, err
	}
	workEnd, err := timeutil.CombineLocalDateTime(day, endClock, s.cfg.Timezone)
	if err != nil {
		return nil, err
	}

	busy, err := s.busyLocal(ctx, staffID, workStart.UTC(), workEnd.UTC())
	if err != nil {
		return nil, err
	}

	gridStart := workStart
	if compareDate(day, nowLocal) == 0 {
		clamped := timeslot.AlignForward(nowLocal, s.cfg.FixedGridMin)
		if clamped.After(gridStart) {
			gridStart = clamped
		}
	}

	slotSpan := time.Duration(svc.DurationMinutes+s.cfg.DefaultBufferMin) * time.Minute
	return s.slotsInWindow(gridStart, workEnd, s.cfg.FixedGridMin, slotSpan, busy, []string{})
}

// slotsInWindow walks the candidate grid over [windowStart, windowEnd)
// and keeps every start whose [start, start+span) is disjoint from all
// busy intervals and fits inside the window.
func (s *Service) slotsInWindow(windowStart, windowEnd time.Time, stepMin int, span time.Duration, busy []timeslot.Interval, out []string) ([]string, error) {
	grid, err := timeslot.Grid(windowStart, windowEnd, stepMin)
	if err != nil {
		return nil, err
	}

	for _, cand := range grid {
		candidate := timeslot.Interval{Start: cand, End: cand.Add(span)}
		if candidate.End.After(windowEnd) {
			break
		}
		if candidate.OverlapsAny(busy) {
			continue
		}
		out = append(out, cand.Format(timeutil.ClockLayout))
	}
	return out, nil
}

// busyLocal loads the merged confirmed-booking and blackout intervals
// intersecting the UTC window and converts them to business-local time.
func (s *Service) busyLocal(ctx context.Context, staffID uuid.UUID, windowStartUTC, windowEndUTC time.Time) ([]timeslot.Interval, error) {
	raw, err := s.bookings.GetBusyIntervals(ctx, staffID, windowStartUTC, windowEndUTC)
	if err != nil {
		return nil, fmt.Errorf("failed to get busy intervals: %w", err)
	}

	busy := make([]timeslot.Interval, 0, len(raw))
	for _, b := range raw {
		start, err := timeutil.ToLocal(b.StartsAt, s.cfg.Timezone)
		if err != nil {
			return nil, err
		}
		end, err := timeutil.ToLocal(b.EndsAt, s.cfg.Timezone)
		if err != nil {
			return nil, err
		}
		busy = append(busy, timeslot.Interval{Start: start, End: end})
	}
	return busy, nil
}

func (s *Service) scheduleWindow(day time.Time, sched *model.StaffSchedule) (time.Time, time.Time, error) {
	startClock, err := timeutil.ParseClock(sched.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endClock, err := timeutil.ParseClock(sched.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	windowStart, err := timeutil.CombineLocalDateTime(day, startClock, s.cfg.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	windowEnd, err := timeutil.CombineLocalDateTime(day, endClock, s.cfg.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return windowStart, windowEnd, nil
}

// compareDate orders the calendar day of a against the calendar day of
// b, ignoring time of day: -1 before, 0 same, 1 after.
func compareDate(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return sign(ay - by)
	case am != bm:
		return sign(int(am) - int(bm))
	default:
		return sign(ad - bd)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func availabilityCacheKey(serviceID uuid.UUID, day time.Time, staffFilter *uuid.UUID) string {
	key := serviceID.String() + ":" + day.Format(timeutil.DateLayout)
	if staffFilter != nil {
		key += ":" + staffFilter.String()
	}
	return key
}
