// Package sqlite provides a SQLite-backed tracker.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"rocket-tracker/internal/fleet"
	"rocket-tracker/internal/platform/sqlitemigrate"
	"rocket-tracker/internal/tracker"
	"rocket-tracker/internal/tracker/sqlite/migrations"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists launch, news and mission reports in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ tracker.Repository = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const launchColumns = `id, booster_number, booster_flight_count, ship_number, ship_flight_count,
       launch_site, launch_date, launch_time, mission_name, launch_status, livestream, timestamp`

// SaveLaunch implements tracker.Repository.SaveLaunch.
func (s *Store) SaveLaunch(ctx context.Context, l fleet.LaunchRecord) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO launches (`+launchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		hardwareValue(l.BoosterNumber),
		intValue(l.BoosterFlightCount),
		hardwareValue(l.ShipNumber),
		intValue(l.ShipFlightCount),
		stringValue(l.LaunchSite),
		l.LaunchDate,
		l.LaunchTime,
		stringValue(l.MissionName),
		stringValue(l.LaunchStatus),
		stringValue(l.Livestream),
		l.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tracker.ErrDuplicateID
		}
		return fmt.Errorf("insert launch: %w", err)
	}
	return nil
}

// ListLaunches implements tracker.Repository.ListLaunches.
func (s *Store) ListLaunches(ctx context.Context) ([]fleet.LaunchRecord, error) {
	return s.queryLaunches(ctx, `SELECT `+launchColumns+` FROM launches ORDER BY seq`)
}

// GetLaunch implements tracker.Repository.GetLaunch.
func (s *Store) GetLaunch(ctx context.Context, id string) (fleet.LaunchRecord, error) {
	launches, err := s.queryLaunches(ctx, `SELECT `+launchColumns+` FROM launches WHERE id = ?`, id)
	if err != nil {
		return fleet.LaunchRecord{}, err
	}
	if len(launches) == 0 {
		return fleet.LaunchRecord{}, tracker.ErrNotFound
	}
	return launches[0], nil
}

// LaunchesByBooster implements tracker.Repository.LaunchesByBooster.
func (s *Store) LaunchesByBooster(ctx context.Context, number fleet.HardwareNumber) ([]fleet.LaunchRecord, error) {
	return s.queryLaunches(ctx,
		`SELECT `+launchColumns+` FROM launches WHERE booster_number = ? ORDER BY seq`, string(number))
}

// LaunchesByShip implements tracker.Repository.LaunchesByShip.
func (s *Store) LaunchesByShip(ctx context.Context, number fleet.HardwareNumber) ([]fleet.LaunchRecord, error) {
	return s.queryLaunches(ctx,
		`SELECT `+launchColumns+` FROM launches WHERE ship_number = ? ORDER BY seq`, string(number))
}

func (s *Store) queryLaunches(ctx context.Context, query string, args ...any) ([]fleet.LaunchRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	launches := []fleet.LaunchRecord{}
	for rows.Next() {
		var l fleet.LaunchRecord
		var booster, ship, site sql.NullString
		var missionName, launchStatus, livestream sql.NullString
		var boosterCount, shipCount sql.NullInt64
		if err := rows.Scan(
			&l.ID,
			&booster,
			&boosterCount,
			&ship,
			&shipCount,
			&site,
			&l.LaunchDate,
			&l.LaunchTime,
			&missionName,
			&launchStatus,
			&livestream,
			&l.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		l.BoosterNumber = hardwareFrom(booster)
		l.BoosterFlightCount = intFrom(boosterCount)
		l.ShipNumber = hardwareFrom(ship)
		l.ShipFlightCount = intFrom(shipCount)
		l.LaunchSite = stringFrom(site)
		l.MissionName = stringFrom(missionName)
		l.LaunchStatus = stringFrom(launchStatus)
		l.Livestream = stringFrom(livestream)
		launches = append(launches, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return launches, nil
}

// SaveNews implements tracker.Repository.SaveNews.
func (s *Store) SaveNews(ctx context.Context, p tracker.NewsPost) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO news_posts (id, title, content, author, timestamp) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Author, p.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tracker.ErrDuplicateID
		}
		return fmt.Errorf("insert news post: %w", err)
	}
	return nil
}

// ListNews implements tracker.Repository.ListNews.
func (s *Store) ListNews(ctx context.Context) ([]tracker.NewsPost, error) {
	return s.queryNews(ctx,
		`SELECT id, title, content, author, timestamp FROM news_posts ORDER BY timestamp DESC, seq DESC`)
}

// GetNews implements tracker.Repository.GetNews.
func (s *Store) GetNews(ctx context.Context, id string) (tracker.NewsPost, error) {
	posts, err := s.queryNews(ctx,
		`SELECT id, title, content, author, timestamp FROM news_posts WHERE id = ?`, id)
	if err != nil {
		return tracker.NewsPost{}, err
	}
	if len(posts) == 0 {
		return tracker.NewsPost{}, tracker.ErrNotFound
	}
	return posts[0], nil
}

func (s *Store) queryNews(ctx context.Context, query string, args ...any) ([]tracker.NewsPost, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query news posts: %w", err)
	}
	defer rows.Close()

	posts := []tracker.NewsPost{}
	for rows.Next() {
		var p tracker.NewsPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan news post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news posts: %w", err)
	}
	return posts, nil
}

// SaveMission implements tracker.Repository.SaveMission.
func (s *Store) SaveMission(ctx context.Context, m tracker.MissionReport) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO missions (
		   id, launch_id, mission_category, starlink_count,
		   payload_description, destination, additional_notes, timestamp
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.LaunchID,
		string(m.MissionCategory),
		intValue(m.StarlinkCount),
		stringValue(m.PayloadDescription),
		stringValue(m.Destination),
		stringValue(m.AdditionalNotes),
		m.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tracker.ErrDuplicateID
		}
		return fmt.Errorf("insert mission: %w", err)
	}
	return nil
}

// MissionsByLaunch implements tracker.Repository.MissionsByLaunch.
func (s *Store) MissionsByLaunch(ctx context.Context, launchID string) ([]tracker.MissionReport, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, launch_id, mission_category, starlink_count,
		        payload_description, destination, additional_notes, timestamp
		   FROM missions
		  WHERE launch_id = ?
		  ORDER BY seq`,
		launchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query missions: %w", err)
	}
	defer rows.Close()

	missions := []tracker.MissionReport{}
	for rows.Next() {
		var m tracker.MissionReport
		var category string
		var starlinkCount sql.NullInt64
		var payload, destination, notes sql.NullString
		if err := rows.Scan(
			&m.ID,
			&m.LaunchID,
			&category,
			&starlinkCount,
			&payload,
			&destination,
			&notes,
			&m.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		m.MissionCategory = tracker.MissionCategory(category)
		m.StarlinkCount = intFrom(starlinkCount)
		m.PayloadDescription = stringFrom(payload)
		m.Destination = stringFrom(destination)
		m.AdditionalNotes = stringFrom(notes)
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missions: %w", err)
	}
	return missions, nil
}

func hardwareValue(n *fleet.HardwareNumber) any {
	if n == nil || *n == "" {
		return nil
	}
	return string(*n)
}

func hardwareFrom(v sql.NullString) *fleet.HardwareNumber {
	if !v.Valid || v.String == "" {
		return nil
	}
	n := fleet.HardwareNumber(v.String)
	return &n
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func intFrom(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func stringValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringFrom(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
