package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"AstroChart/internal/domain/astro"
	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	domsvc "AstroChart/internal/domain/service"
	"AstroChart/internal/services/chart"
	"AstroChart/internal/services/ephemeris"
	"AstroChart/pkg/cache"
	applogger "AstroChart/pkg/logger"
	"AstroChart/pkg/metrics"
	"AstroChart/pkg/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	// ErrInvalidInput marks birth data that cannot be turned into a chart.
	ErrInvalidInput = errors.New("invalid chart input")
	// ErrArchiveDisabled is returned by Recent when no archive is configured.
	ErrArchiveDisabled = errors.New("chart archive disabled")
)

const EventChartComputed = "chart.computed"

// chartNamespace scopes name-based chart ids, so the same birth data and
// settings always yield the same id.
var chartNamespace = uuid.MustParse("8a3c1f52-6d0e-4b7a-9c21-5e4f7d2b8a90")

func chartID(key string) string {
	return uuid.NewSHA1(chartNamespace, []byte(key)).String()
}

// ChartSettings are the per-deployment chart parameters.
type ChartSettings struct {
	TZOffsetHours float64
	Orb           float64
	Bodies        []astro.Body
	HouseSystem   astro.HouseSystem
	Locale        astro.Locale
	Rulers        astro.RulerScheme
}

func (s ChartSettings) fingerprint() string {
	names := make([]string, len(s.Bodies))
	for i, b := range s.Bodies {
		names[i] = string(b)
	}
	return fmt.Sprintf("%g|%g|%s|%s|%s|%s", s.TZOffsetHours, s.Orb, strings.Join(names, ","), s.HouseSystem, s.Locale, s.Rulers)
}

// ChartInput is validated birth data.
type ChartInput struct {
	BirthDate string // YYYY-MM-DD
	BirthTime string // HH:MM, local to the configured offset
	Latitude  float64
	Longitude float64
}

// ChartCalculator drives one chart computation: Julian day, houses,
// longitudes, classification, aspects, rulers and the response shape.
type ChartCalculator struct {
	eph      domsvc.Ephemeris
	settings ChartSettings
	l        *applogger.Logger

	cache    cache.Service
	cacheTTL time.Duration
	archive  domrepo.ChartArchive
	events   domrepo.EventPublisher
	metrics  domrepo.Metrics
	tracer   trace.Tracer

	settingsKey string
	newID       func(key string) string
	now         func() time.Time
}

// ChartOption configures optional collaborators.
type ChartOption func(*ChartCalculator)

func WithChartCache(c cache.Service, ttl time.Duration) ChartOption {
	return func(uc *ChartCalculator) {
		uc.cache = c
		uc.cacheTTL = ttl
	}
}

func WithChartArchive(a domrepo.ChartArchive) ChartOption {
	return func(uc *ChartCalculator) { uc.archive = a }
}

func WithChartEvents(p domrepo.EventPublisher) ChartOption {
	return func(uc *ChartCalculator) { uc.events = p }
}

func WithChartMetrics(m domrepo.Metrics) ChartOption {
	return func(uc *ChartCalculator) { uc.metrics = m }
}

func WithChartTracer(t trace.Tracer) ChartOption {
	return func(uc *ChartCalculator) { uc.tracer = t }
}

func NewChartCalculator(eph domsvc.Ephemeris, settings ChartSettings, l *applogger.Logger, opts ...ChartOption) *ChartCalculator {
	if settings.Orb <= 0 {
		settings.Orb = astro.DefaultOrb
	}
	if len(settings.Bodies) == 0 {
		settings.Bodies = astro.CoreBodies()
	}
	if settings.HouseSystem == "" {
		settings.HouseSystem = astro.HousePlacidus
	}
	if settings.Locale == "" {
		settings.Locale = astro.LocaleZhTW
	}
	if settings.Rulers == "" {
		settings.Rulers = astro.RulersTraditional
	}
	if l == nil {
		l = applogger.Nop()
	}

	uc := &ChartCalculator{
		eph:      eph,
		settings: settings,
		l:        l,
		metrics:  metrics.Nop{},
		tracer:   noop.NewTracerProvider().Tracer(""),
		newID:    chartID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.settingsKey = cache.HashKey(settings.fingerprint())
	return uc
}

// Settings returns the effective settings after defaults.
func (uc *ChartCalculator) Settings() ChartSettings { return uc.settings }

// Compute returns the natal chart for in. Identical requests are served from
// the cache when one is configured.
func (uc *ChartCalculator) Compute(ctx context.Context, in ChartInput) (*models.Chart, error) {
	start := uc.now()
	defer func() { uc.metrics.RecordLatency("chart", uc.now().Sub(start).Seconds()) }()

	moment, err := uc.moment(in)
	if err != nil {
		return nil, err
	}

	key := uc.cacheKey(in)
	if c, ok := uc.lookup(ctx, key); ok {
		return c, nil
	}

	ctx, span := uc.tracer.Start(ctx, "chart.compute", trace.WithAttributes(
		attribute.String("house_system", string(uc.settings.HouseSystem)),
		attribute.Int("bodies", len(uc.settings.Bodies)),
	))
	defer span.End()

	c, res, err := uc.compute(ctx, uc.newID(key), moment, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		stage := "compute"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		uc.metrics.RecordError(stage)
		return nil, err
	}
	uc.metrics.RecordChart(c.HouseSystem)

	uc.store(ctx, key, c)
	uc.publish(ctx, uc.record(c, res, in))
	return c, nil
}

// stageError tags a compute failure with the step that produced it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func (uc *ChartCalculator) moment(in ChartInput) (ephemeris.BirthMoment, error) {
	y, m, d, err := util.ParseDate(in.BirthDate)
	if err != nil {
		return ephemeris.BirthMoment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	h, mi, err := util.ParseClock(in.BirthTime)
	if err != nil {
		return ephemeris.BirthMoment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return ephemeris.BirthMoment{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	return ephemeris.BirthMoment{Year: y, Month: m, Day: d, Hour: h, Minute: mi, TZOffsetHours: uc.settings.TZOffsetHours}, nil
}

func (uc *ChartCalculator) compute(ctx context.Context, id string, moment ephemeris.BirthMoment, in ChartInput) (*models.Chart, chart.Result, error) {
	jd := moment.JulianDayUT()

	angles, err := uc.houses(ctx, jd, in)
	if err != nil {
		return nil, chart.Result{}, &stageError{stage: "houses", err: err}
	}
	if angles.System != uc.settings.HouseSystem {
		uc.l.Warn("house system fallback",
			applogger.String("requested", string(uc.settings.HouseSystem)),
			applogger.String("used", string(angles.System)),
			applogger.Float64("latitude", in.Latitude),
		)
	}

	positions, err := uc.positions(ctx, jd, angles.Ascendant)
	if err != nil {
		return nil, chart.Result{}, &stageError{stage: "positions", err: err}
	}

	bodies, err := chart.Classify(positions, angles.Cusps)
	if err != nil {
		return nil, chart.Result{}, &stageError{stage: "classify", err: err}
	}
	for _, b := range bodies {
		if b.Fallback {
			uc.l.Warn("no house matched, using fallback",
				applogger.String("body", b.Body.String()),
				applogger.Float64("longitude", b.Longitude),
				applogger.Int("house", b.House),
			)
		}
	}

	rulers, err := chart.ResolveHouseRulers(angles.Cusps, positions, uc.settings.Rulers)
	if err != nil {
		return nil, chart.Result{}, &stageError{stage: "rulers", err: err}
	}

	res := chart.Result{
		JulianDay: jd,
		Angles:    angles,
		Bodies:    bodies,
		Aspects:   chart.DetectAspects(positions, uc.settings.Orb),
		Rulers:    rulers,
	}
	return chart.Assemble(id, res, uc.settings.Locale), res, nil
}

func (uc *ChartCalculator) houses(ctx context.Context, jd float64, in ChartInput) (domsvc.Angles, error) {
	ctx, span := uc.tracer.Start(ctx, "ephemeris.houses")
	defer span.End()

	angles, err := uc.eph.Houses(ctx, jd, in.Latitude, in.Longitude, uc.settings.HouseSystem)
	if err != nil {
		span.RecordError(err)
		return domsvc.Angles{}, err
	}
	span.SetAttributes(attribute.String("house_system", string(angles.System)))
	return angles, nil
}

// positions resolves every configured body in order. Derived points are
// filled in after the ephemeris bodies they depend on.
func (uc *ChartCalculator) positions(ctx context.Context, jd, asc float64) ([]chart.Position, error) {
	out := make([]chart.Position, len(uc.settings.Bodies))
	byBody := make(map[astro.Body]chart.Position, len(out))

	for i, b := range uc.settings.Bodies {
		out[i] = chart.Position{Body: b}
		if b.Derived() {
			continue
		}
		if !uc.eph.Supports(b) {
			uc.l.Warn("body not supported by ephemeris", applogger.String("body", b.String()), applogger.String("ephemeris", uc.eph.Name()))
			continue
		}
		lon, err := uc.longitude(ctx, jd, b)
		if errors.Is(err, domsvc.ErrOutOfRange) {
			uc.l.Warn("body outside ephemeris range", applogger.String("body", b.String()), applogger.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		out[i] = chart.Position{Body: b, Longitude: lon, Known: true}
		byBody[b] = out[i]
	}

	for i, b := range uc.settings.Bodies {
		if b != astro.PartOfFortune {
			continue
		}
		sun, moon, err := uc.luminaries(ctx, jd, byBody[astro.Sun], byBody[astro.Moon])
		if err != nil {
			return nil, err
		}
		out[i] = chart.Position{Body: b, Longitude: chart.PartOfFortune(asc, moon.Longitude, sun.Longitude), Known: true}
	}
	return out, nil
}

// luminaries fetches whichever of Sun and Moon was not part of the body set.
func (uc *ChartCalculator) luminaries(ctx context.Context, jd float64, sun, moon chart.Position) (chart.Position, chart.Position, error) {
	if !sun.Known {
		lon, err := uc.longitude(ctx, jd, astro.Sun)
		if err != nil {
			return sun, moon, err
		}
		sun = chart.Position{Body: astro.Sun, Longitude: lon, Known: true}
	}
	if !moon.Known {
		lon, err := uc.longitude(ctx, jd, astro.Moon)
		if err != nil {
			return sun, moon, err
		}
		moon = chart.Position{Body: astro.Moon, Longitude: lon, Known: true}
	}
	return sun, moon, nil
}

func (uc *ChartCalculator) longitude(ctx context.Context, jd float64, b astro.Body) (float64, error) {
	ctx, span := uc.tracer.Start(ctx, "ephemeris.longitude", trace.WithAttributes(attribute.String("body", b.String())))
	defer span.End()

	lon, err := uc.eph.Longitude(ctx, jd, b)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("longitude %s: %w", b, err)
	}
	return lon, nil
}

func (uc *ChartCalculator) cacheKey(in ChartInput) string {
	return cache.GenerateKey("chart", uc.settingsKey,
		cache.HashKey(fmt.Sprintf("%s|%s|%.6f|%.6f", in.BirthDate, in.BirthTime, in.Latitude, in.Longitude)))
}

func (uc *ChartCalculator) lookup(ctx context.Context, key string) (*models.Chart, bool) {
	if uc.cache == nil {
		return nil, false
	}
	var c models.Chart
	err := uc.cache.Get(ctx, key, &c)
	switch {
	case err == nil:
		uc.metrics.RecordCache("hit")
		return &c, true
	case errors.Is(err, cache.ErrCacheMiss):
		uc.metrics.RecordCache("miss")
	default:
		uc.metrics.RecordCache("error")
		uc.l.Warn("chart cache get failed", applogger.Error(err))
	}
	return nil, false
}

func (uc *ChartCalculator) store(ctx context.Context, key string, c *models.Chart) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, c, uc.cacheTTL); err != nil {
		uc.metrics.RecordCache("error")
		uc.l.Warn("chart cache set failed", applogger.Error(err))
	}
}

func (uc *ChartCalculator) record(c *models.Chart, res chart.Result, in ChartInput) *models.ChartRecord {
	rec := &models.ChartRecord{
		ID:          c.ID,
		CreatedAt:   uc.now().UTC(),
		BirthDate:   in.BirthDate,
		BirthTime:   in.BirthTime,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		HouseSystem: c.HouseSystem,
		Ascendant:   c.Ascendant,
		Midheaven:   c.Midheaven,
		AspectCount: len(c.Aspects),
	}
	if s, err := chart.SignOf(res.Angles.Ascendant); err == nil {
		rec.RisingSign = s.String()
	}
	for _, b := range res.Bodies {
		if !b.Known {
			continue
		}
		switch b.Body {
		case astro.Sun:
			rec.SunSign = b.Sign.String()
		case astro.Moon:
			rec.MoonSign = b.Sign.String()
		}
	}
	return rec
}

// publish archives and announces the chart. Failures are logged only; the
// chart has already been computed.
func (uc *ChartCalculator) publish(ctx context.Context, rec *models.ChartRecord) {
	if uc.archive != nil {
		if err := uc.archive.Store(ctx, rec); err != nil {
			uc.metrics.RecordError("archive")
			uc.l.Error("archive chart failed", applogger.String("chart_id", rec.ID), applogger.Error(err))
		}
	}
	if uc.events != nil {
		ev := &models.ChartEvent{Type: EventChartComputed, Timestamp: rec.CreatedAt, Record: *rec}
		if err := uc.events.PublishChart(ctx, ev); err != nil {
			uc.metrics.RecordError("events")
			uc.l.Error("publish chart event failed", applogger.String("chart_id", rec.ID), applogger.Error(err))
		}
	}
}

// Recent lists archived charts created at or after since, newest first.
// A zero since lists from the beginning.
func (uc *ChartCalculator) Recent(ctx context.Context, limit int, since time.Time) ([]*models.ChartRecord, error) {
	if uc.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	recs, err := uc.archive.Recent(ctx, limit, since)
	if err != nil {
		uc.metrics.RecordError("archive")
		return nil, fmt.Errorf("recent charts: %w", err)
	}
	return recs, nil
}
