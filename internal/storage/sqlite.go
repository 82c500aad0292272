// Package storage implements the persistence collaborator: the core loads a
// full snapshot at startup and saves a full snapshot after every mutation.
// The production implementation keeps the snapshot in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"mecarent/internal/models"
)

// Snapshotter is the persistence contract: load the full snapshot at startup,
// save the full snapshot after every mutation.
type Snapshotter interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
}

var _ Snapshotter = (*SQLite)(nil)

// SQLite persists snapshots in a single SQLite file.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zerolog.Logger
}

// NewSQLite opens (or creates) the snapshot database.
func NewSQLite(path string, logger *zerolog.Logger) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode and a busy timeout keep the writer responsive.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLite{db: db, path: path, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("snapshot database initialized")
	return s, nil
}

func (s *SQLite) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS machines (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT,
			location TEXT,
			capacity TEXT,
			consumption TEXT,
			description TEXT,
			price_hour INTEGER NOT NULL DEFAULT 0,
			price_day INTEGER NOT NULL DEFAULT 0,
			modes TEXT NOT NULL DEFAULT '[]',
			available INTEGER NOT NULL DEFAULT 1,
			holder_id TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rentals (
			id TEXT PRIMARY KEY,
			machine_id TEXT NOT NULL,
			requester_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			unit_price INTEGER NOT NULL,
			unit TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			total_price INTEGER NOT NULL,
			status TEXT NOT NULL,
			start_time INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			name TEXT,
			location TEXT,
			phone TEXT,
			activity TEXT,
			area_ha REAL NOT NULL DEFAULT 0,
			crops TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rentals_status ON rentals(status)`,
		`CREATE INDEX IF NOT EXISTS idx_rentals_machine ON rentals(machine_id)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save rewrites the snapshot transactionally. Record volume is small, so a
// full rewrite per mutation stays well within bounds.
func (s *SQLite) Save(ctx context.Context, snap *models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"machines", "rentals", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, m := range snap.Machines {
		modes, err := json.Marshal(m.Modes)
		if err != nil {
			return fmt.Errorf("encode modes for machine %s: %w", m.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO machines (id, name, type, location, capacity, consumption, description,
				price_hour, price_day, modes, available, holder_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Name, m.Type, m.Location, m.Capacity, m.Consumption, m.Description,
			m.PriceHour, m.PriceDay, string(modes), m.Available, m.HolderID, m.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert machine %s: %w", m.ID, err)
		}
	}

	for _, r := range snap.Rentals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rentals (id, machine_id, requester_id, mode, unit_price, unit, quantity,
				total_price, status, start_time, duration_ms, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.MachineID, r.RequesterID, string(r.Mode), r.UnitPrice, string(r.Unit), r.Quantity,
			r.TotalPrice, string(r.Status), r.StartTime.UnixMilli(), r.Duration.Milliseconds(), r.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert rental %s: %w", r.ID, err)
		}
	}

	for _, u := range snap.Users {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, role, name, location, phone, activity, area_ha, crops, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, string(u.Role), u.Name, u.Location, u.Phone, u.Activity, u.AreaHa, u.Crops, u.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// Load reads the full snapshot.
func (s *SQLite) Load(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, location, capacity, consumption, description,
			price_hour, price_day, modes, available, holder_id, created_at
		 FROM machines`)
	if err != nil {
		return nil, fmt.Errorf("load machines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.Machine
		var modes string
		var holderID sql.NullString
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.Location, &m.Capacity, &m.Consumption,
			&m.Description, &m.PriceHour, &m.PriceDay, &modes, &m.Available, &holderID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		if err := json.Unmarshal([]byte(modes), &m.Modes); err != nil {
			return nil, fmt.Errorf("decode modes for machine %s: %w", m.ID, err)
		}
		m.HolderID = holderID.String
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		snap.Machines = append(snap.Machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rentalRows, err := s.db.QueryContext(ctx,
		`SELECT id, machine_id, requester_id, mode, unit_price, unit, quantity,
			total_price, status, start_time, duration_ms, created_at
		 FROM rentals`)
	if err != nil {
		return nil, fmt.Errorf("load rentals: %w", err)
	}
	defer rentalRows.Close()
	for rentalRows.Next() {
		var r models.Rental
		var startTime, durationMs, createdAt int64
		if err := rentalRows.Scan(&r.ID, &r.MachineID, &r.RequesterID, &r.Mode, &r.UnitPrice,
			&r.Unit, &r.Quantity, &r.TotalPrice, &r.Status, &startTime, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		r.StartTime = time.UnixMilli(startTime).UTC()
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		snap.Rentals = append(snap.Rentals, r)
	}
	if err := rentalRows.Err(); err != nil {
		return nil, err
	}

	userRows, err := s.db.QueryContext(ctx,
		`SELECT id, role, name, location, phone, activity, area_ha, crops, created_at FROM users`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer userRows.Close()
	for userRows.Next() {
		var u models.User
		var createdAt int64
		if err := userRows.Scan(&u.ID, &u.Role, &u.Name, &u.Location, &u.Phone,
			&u.Activity, &u.AreaHa, &u.Crops, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = time.UnixMilli(createdAt).UTC()
		snap.Users = append(snap.Users, u)
	}
	if err := userRows.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// PingContext checks the database connection.
func (s *SQLite) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
