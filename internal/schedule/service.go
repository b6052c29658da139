package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/smoothbar/studio-backend/internal/observability/metrics"
	"github.com/smoothbar/studio-backend/internal/square"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

var scheduleTracer = otel.Tracer("studio.internal.schedule")

const (
	datasetCacheKey = "schedule:dataset"
	bookingsLimit   = 100
)

// Dataset is one full pull of the merchant's calendar data. The whole
// horizon is fetched in one pass so week/month navigation re-renders from
// the same snapshot instead of refetching.
type Dataset struct {
	Bookings       []square.Booking          `json:"bookings"`
	Availabilities []square.AvailabilitySlot `json:"availabilities"`
	FetchedAt      time.Time                 `json:"fetched_at"`
}

// FetchError tags an upstream failure with the side that produced it, so
// callers and logs can tell a bookings failure from an availability one.
type FetchError struct {
	Side string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("schedule: fetch %s: %v", e.Side, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BookingAPI is the slice of the Square client the service needs.
type BookingAPI interface {
	ListBookings(ctx context.Context, limit int) ([]square.Booking, error)
	FetchAvailability(ctx context.Context, startAt, endAt time.Time) ([]square.AvailabilitySlot, error)
}

// Service fetches and caches the calendar dataset and renders views from it.
type Service struct {
	api         BookingAPI
	cache       *redis.Client
	loc         *time.Location
	horizonDays int
	cacheTTL    time.Duration
	metrics     *metrics.ScheduleMetrics
	logger      *logging.Logger

	now func() time.Time
}

// NewService builds a schedule service. cache may be nil, in which case every
// view renders from a fresh upstream fetch. metrics may be nil.
func NewService(api BookingAPI, cache *redis.Client, loc *time.Location, horizonDays int, cacheTTL time.Duration, m *metrics.ScheduleMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	return &Service{
		api:         api,
		cache:       cache,
		loc:         loc,
		horizonDays: horizonDays,
		cacheTTL:    cacheTTL,
		metrics:     m,
		logger:      logger.Component("schedule"),
		now:         time.Now,
	}
}

// Dataset returns the current calendar snapshot, from cache when fresh,
// otherwise from Square. Bookings and availability are fetched concurrently
// and the result is all-or-nothing: a failure on either side fails the pull.
func (s *Service) Dataset(ctx context.Context) (*Dataset, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.dataset")
	defer span.End()

	if cached := s.fromCache(ctx); cached != nil {
		span.SetAttributes(attribute.Bool("studio.cache_hit", true))
		return cached, nil
	}

	ds, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.store(ctx, ds)
	return ds, nil
}

func (s *Service) fetch(ctx context.Context) (*Dataset, error) {
	now := s.now()
	startAt := now.In(s.loc)
	endAt := startAt.AddDate(0, 0, s.horizonDays)

	ds := &Dataset{FetchedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		began := time.Now()
		bookings, err := s.api.ListBookings(gctx, bookingsLimit)
		s.observe("bookings", began, err)
		if err != nil {
			return &FetchError{Side: "bookings", Err: err}
		}
		ds.Bookings = bookings
		return nil
	})
	g.Go(func() error {
		began := time.Now()
		avails, err := s.api.FetchAvailability(gctx, startAt, endAt)
		s.observe("availability", began, err)
		if err != nil {
			return &FetchError{Side: "availability", Err: err}
		}
		ds.Availabilities = avails
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("fetched calendar dataset",
		"bookings", len(ds.Bookings),
		"availabilities", len(ds.Availabilities),
		"horizon_days", s.horizonDays)
	return ds, nil
}

func (s *Service) observe(side string, began time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveUpstream(side, status, time.Since(began).Seconds())
}

func (s *Service) fromCache(ctx context.Context) *Dataset {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, datasetCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dataset cache read failed", "error", err)
		}
		s.metrics.ObserveCache("miss")
		return nil
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		s.logger.Warn("dataset cache entry corrupt", "error", err)
		s.metrics.ObserveCache("miss")
		return nil
	}
	s.metrics.ObserveCache("hit")
	return &ds
}

func (s *Service) store(ctx context.Context, ds *Dataset) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(ds)
	if err != nil {
		s.logger.Warn("dataset cache encode failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, datasetCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dataset cache write failed", "error", err)
	}
}

// Invalidate drops the cached dataset so the next view refetches.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, datasetCacheKey).Err(); err != nil {
		s.logger.Warn("dataset cache invalidate failed", "error", err)
	}
}

// WeekView renders the 7-day window starting at start.
func (s *Service) WeekView(ctx context.Context, start time.Time) (*WeekView, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.week_view")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	buckets := Bucketize(ds.Bookings, ds.Availabilities, s.loc, s.logger)
	view := BuildWeekView(start, buckets, s.loc, s.now())
	return &view, nil
}

// MonthView renders one calendar month.
func (s *Service) MonthView(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.month_view")
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	buckets := Bucketize(ds.Bookings, ds.Availabilities, s.loc, s.logger)
	view := BuildMonthView(year, month, buckets, s.loc, s.now())
	return &view, nil
}
