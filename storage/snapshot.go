// Package storage reads the production database snapshot and maintains the
// local actions cache, both SQLite files.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"hoursync/record"

	_ "modernc.org/sqlite"
)

// ErrSnapshotMissing reports a snapshot path that does not exist. Opening
// through the driver would silently create an empty database instead.
var ErrSnapshotMissing = errors.New("snapshot database not found")

// SnapshotStore is a read-only view over a copy of the production database.
// It never creates or migrates schema; the snapshot is someone else's data.
type SnapshotStore struct {
	db *sql.DB
}

func OpenSnapshot(path string) (*SnapshotStore, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
		}
		return nil, fmt.Errorf("stat snapshot db: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// LoadEntries returns every time entry inside the date window with employee
// and customer names resolved. Entries whose customer row is gone drop out
// of the join; use HoursByEmployee when only totals matter.
func (s *SnapshotStore) LoadEntries(from, to string) ([]record.Record, error) {
	const query = `
SELECT te.work_date, e.name, c.name, te.hours
FROM time_entries te
JOIN employees e ON e.id = te.employee_id
JOIN customers c ON c.id = te.customer_id
WHERE te.work_date >= ? AND te.work_date <= ?;
`

	rows, err := s.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	entries := make([]record.Record, 0, 256)
	for rows.Next() {
		var (
			entry record.Record
			hours sql.NullFloat64
		)
		if err := rows.Scan(&entry.Date, &entry.Employee, &entry.Customer, &hours); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entry.Hours = hours.Float64
		entry.Source = "db"
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}
	return entries, nil
}

// LoadApprovedKeys returns the identity keys of every approved entry in the
// snapshot, for drift checks against parsed timesheets.
func (s *SnapshotStore) LoadApprovedKeys() (map[record.Key]struct{}, error) {
	const query = `
SELECT te.work_date, e.name, c.name, te.hours
FROM time_entries te
JOIN employees e ON e.id = te.employee_id
JOIN customers c ON c.id = te.customer_id
WHERE te.status = 'APPROVED';
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query approved entries: %w", err)
	}
	defer rows.Close()

	keys := make(map[record.Key]struct{}, 256)
	for rows.Next() {
		var (
			entry record.Record
			hours sql.NullFloat64
		)
		if err := rows.Scan(&entry.Date, &entry.Employee, &entry.Customer, &hours); err != nil {
			return nil, fmt.Errorf("scan approved entry: %w", err)
		}
		entry.Hours = hours.Float64
		keys[entry.Key()] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approved entries: %w", err)
	}
	return keys, nil
}

// EntryIDsByKey maps each identity key inside the date window to the IDs of
// the snapshot entries carrying it, in work_date then id order. The fix
// planner uses this to address db-only entries for deletion.
func (s *SnapshotStore) EntryIDsByKey(from, to string) (map[record.Key][]string, error) {
	const query = `
SELECT te.id, te.work_date, e.name, c.name, te.hours
FROM time_entries te
JOIN employees e ON e.id = te.employee_id
JOIN customers c ON c.id = te.customer_id
WHERE te.work_date >= ? AND te.work_date <= ?
ORDER BY te.work_date, te.id;
`

	rows, err := s.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query entry ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[record.Key][]string, 256)
	for rows.Next() {
		var (
			id    string
			entry record.Record
			hours sql.NullFloat64
		)
		if err := rows.Scan(&id, &entry.Date, &entry.Employee, &entry.Customer, &hours); err != nil {
			return nil, fmt.Errorf("scan entry id row: %w", err)
		}
		entry.Hours = hours.Float64
		key := entry.Key()
		ids[key] = append(ids[key], id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entry id rows: %w", err)
	}
	return ids, nil
}

// HoursByEmployee sums hours per normalized employee inside the date window.
// Unlike LoadEntries it does not require a customer row, so orphaned entries
// still count toward the total.
func (s *SnapshotStore) HoursByEmployee(from, to string) (map[string]float64, error) {
	const query = `
SELECT e.name, te.hours
FROM time_entries te
JOIN employees e ON e.id = te.employee_id
WHERE te.work_date >= ? AND te.work_date <= ?;
`

	rows, err := s.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query hours: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			hours sql.NullFloat64
		)
		if err := rows.Scan(&name, &hours); err != nil {
			return nil, fmt.Errorf("scan hours row: %w", err)
		}
		totals[record.Normalize(name)] += hours.Float64
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hours rows: %w", err)
	}
	return totals, nil
}

// LoadRates returns each employee's default pay rate keyed by normalized
// name. A missing rate reads as zero.
func (s *SnapshotStore) LoadRates() (record.RateTable, error) {
	rows, err := s.db.Query(`SELECT name, default_pay_rate FROM employees;`)
	if err != nil {
		return nil, fmt.Errorf("query employee rates: %w", err)
	}
	defer rows.Close()

	rates := make(record.RateTable)
	for rows.Next() {
		var (
			name string
			rate sql.NullFloat64
		)
		if err := rows.Scan(&name, &rate); err != nil {
			return nil, fmt.Errorf("scan employee rate: %w", err)
		}
		rates.Set(name, rate.Float64)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employee rates: %w", err)
	}
	return rates, nil
}
