package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/coworking-reservation/internal/model"
)

// ErrShiftCatalog means the shifts table disagrees with the compiled-in
// catalog.  The service must not start in that state.
var ErrShiftCatalog = errors.New("shift catalog incomplete")

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id    INTEGER PRIMARY KEY,
		label TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		folio       INTEGER PRIMARY KEY AUTOINCREMENT,
		res_date    TEXT NOT NULL,
		room_id     INTEGER NOT NULL REFERENCES rooms(id),
		shift_id    INTEGER NOT NULL REFERENCES shifts(id),
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		event_name  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'CANCELLED')),
		slot_key    TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_reservations_slot ON reservations (slot_key)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations (res_date, status)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name  VARCHAR(100) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name     VARCHAR(100) NOT NULL,
		capacity INT UNSIGNED NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id    TINYINT UNSIGNED PRIMARY KEY,
		label VARCHAR(20) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		folio       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		res_date    CHAR(10) NOT NULL,
		room_id     BIGINT UNSIGNED NOT NULL,
		shift_id    TINYINT UNSIGNED NOT NULL,
		customer_id BIGINT UNSIGNED NOT NULL,
		event_name  VARCHAR(255) NOT NULL,
		created_at  VARCHAR(40) NOT NULL,
		status      VARCHAR(10) NOT NULL DEFAULT 'ACTIVE',
		slot_key    VARCHAR(64) NULL,
		UNIQUE KEY uq_reservations_slot (slot_key),
		KEY idx_reservations_date (res_date, status),
		CONSTRAINT fk_reservations_room FOREIGN KEY (room_id) REFERENCES rooms (id),
		CONSTRAINT fk_reservations_shift FOREIGN KEY (shift_id) REFERENCES shifts (id),
		CONSTRAINT fk_reservations_customer FOREIGN KEY (customer_id) REFERENCES customers (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the schema if needed, seeds the shift catalog on first
// run and verifies it on every run.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var stmts []string
	switch dialect {
	case SQLite:
		stmts = sqliteSchema
	case MySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("database: unsupported dialect %q", dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if err := seedShifts(ctx, db); err != nil {
		return fmt.Errorf("seed shifts: %w", err)
	}
	return VerifyShifts(ctx, db)
}

func seedShifts(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, s := range model.Shifts() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shifts (id, label) VALUES (?, ?)`, s.ID(), s.Label()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// VerifyShifts checks that every catalog member has a row in the shifts
// table.
func VerifyShifts(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT id FROM shifts`)
	if err != nil {
		return err
	}
	defer rows.Close()
	present := map[model.Shift]bool{}
	for rows.Next() {
		var id uint8
		if err := rows.Scan(&id); err != nil {
			return err
		}
		present[model.Shift(id)] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, s := range model.Shifts() {
		if !present[s] {
			return fmt.Errorf("%w: no row for %s (id %d)", ErrShiftCatalog, s, s.ID())
		}
	}
	return nil
}
