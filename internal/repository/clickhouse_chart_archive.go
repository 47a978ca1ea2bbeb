package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	pkgch "AstroChart/pkg/clickhouse"
	applogger "AstroChart/pkg/logger"
)

// DefaultChartTable is the archive table name.
const DefaultChartTable = "natal_charts"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHChartArchive implements ChartArchive backed by ClickHouse.
type CHChartArchive struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.ChartArchive = (*CHChartArchive)(nil)

func NewCHChartArchive(ch *pkgch.Client, table string, l *applogger.Logger) (*CHChartArchive, error) {
	if table == "" {
		table = DefaultChartTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHChartArchive{ch: ch, db: ch.DB(), table: table, l: l}, nil
}

func chartSchema(table string) []string {
	return []string{
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id           String,
            created_at   DateTime64(3, 'UTC'),
            birth_date   String,
            birth_time   String,
            latitude     Float64,
            longitude    Float64,
            house_system LowCardinality(String),
            ascendant    Float64,
            midheaven    Float64,
            sun_sign     LowCardinality(String),
            moon_sign    LowCardinality(String),
            rising_sign  LowCardinality(String),
            aspect_count UInt16
        ) ENGINE = MergeTree
        PARTITION BY toYYYYMM(created_at)
        ORDER BY (created_at, id)
        TTL toDateTime(created_at) + INTERVAL 1 YEAR
    `, table),
	}
}

// Init creates the archive table when missing.
func (s *CHChartArchive) Init(ctx context.Context) error {
	if err := s.ch.InitSchema(ctx, chartSchema(s.table)); err != nil {
		return err
	}
	s.l.Info("clickhouse chart archive ready", applogger.String("table", s.table))
	return nil
}

func (s *CHChartArchive) Store(ctx context.Context, r *models.ChartRecord) error {
	start := time.Now()
	q := fmt.Sprintf(`INSERT INTO %s (id, created_at, birth_date, birth_time, latitude, longitude, house_system,
        ascendant, midheaven, sun_sign, moon_sign, rising_sign, aspect_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err := s.db.ExecContext(ctx, q,
		r.ID,
		r.CreatedAt.UTC(),
		r.BirthDate,
		r.BirthTime,
		r.Latitude,
		r.Longitude,
		r.HouseSystem,
		r.Ascendant,
		r.Midheaven,
		r.SunSign,
		r.MoonSign,
		r.RisingSign,
		uint16(r.AspectCount),
	)
	if err != nil {
		return fmt.Errorf("store chart %s: %w", r.ID, err)
	}
	s.l.Debug("clickhouse store_chart ok",
		applogger.String("chart_id", r.ID),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

// Recent returns records created at or after since, newest first.
func (s *CHChartArchive) Recent(ctx context.Context, limit int, since time.Time) ([]*models.ChartRecord, error) {
	start := time.Now()
	if since.IsZero() {
		since = time.Unix(0, 0)
	}
	q := fmt.Sprintf(`
        SELECT id, created_at, birth_date, birth_time, latitude, longitude, house_system,
               ascendant, midheaven, sun_sign, moon_sign, rising_sign, aspect_count
        FROM %s
        WHERE created_at >= ?
        ORDER BY created_at DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, since.UTC(), limit)
	if err != nil {
		s.l.Error("clickhouse recent_charts query error", applogger.String("table", s.table), applogger.Error(err))
		return nil, fmt.Errorf("recent charts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ChartRecord, 0, limit)
	for rows.Next() {
		var (
			r       models.ChartRecord
			aspects uint16
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.BirthDate, &r.BirthTime, &r.Latitude, &r.Longitude, &r.HouseSystem,
			&r.Ascendant, &r.Midheaven, &r.SunSign, &r.MoonSign, &r.RisingSign, &aspects); err != nil {
			return nil, fmt.Errorf("scan chart: %w", err)
		}
		r.AspectCount = int(aspects)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse recent_charts ok",
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func (s *CHChartArchive) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHChartArchive) Close() error {
	return s.ch.Close()
}
