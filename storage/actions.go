package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// ActionsStore caches exported Actions task sheets locally so follow-up
// queries do not have to re-read the CSV exports.
type ActionsStore struct {
	db *sql.DB
}

func OpenActions(path string) (*ActionsStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open actions db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping actions db: %w", err)
	}

	store := &ActionsStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *ActionsStore) Close() error {
	return s.db.Close()
}

func (s *ActionsStore) ensureSchema() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("enable wal mode: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS raw_rows (
	id INTEGER PRIMARY KEY,
	sheet_name TEXT,
	row_num INTEGER,
	data_json TEXT
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	raw_id INTEGER,
	source_sheet TEXT,
	title TEXT,
	due_date TEXT,
	status TEXT,
	status_color TEXT,
	category TEXT,
	comments TEXT,
	created_at INTEGER,
	updated_at INTEGER,
	FOREIGN KEY(raw_id) REFERENCES raw_rows(id)
);
CREATE INDEX IF NOT EXISTS idx_raw_sheet ON raw_rows(sheet_name);
CREATE INDEX IF NOT EXISTS idx_tasks_sheet ON tasks(source_sheet);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create actions schema: %w", err)
	}
	return nil
}

// normalizeActionHeader folds an export header to a lookup key: letters and
// digits lowered, everything else collapsed to underscores.
func normalizeActionHeader(header string) string {
	var b strings.Builder
	b.Grow(len(header))
	for _, r := range header {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// pickValue returns the first candidate column present in the row.
func pickValue(row map[string]string, candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if value, ok := row[candidate]; ok {
			return value, true
		}
	}
	return "", false
}

// statusColor buckets a task status into the traffic-light color the status
// board renders. Unknown statuses read as in flight.
func statusColor(status string) sql.NullString {
	trimmed := strings.ToLower(strings.TrimSpace(status))
	if trimmed == "" {
		return sql.NullString{}
	}
	switch trimmed {
	case "completed":
		return sql.NullString{String: "green", Valid: true}
	case "in-progress", "in progress", "pending":
		return sql.NullString{String: "yellow", Valid: true}
	case "not started", "not-started":
		return sql.NullString{String: "red", Valid: true}
	}
	return sql.NullString{String: "yellow", Valid: true}
}

// sheetNameFromPath derives the sheet name an export CSV came from:
// "Actions-Payroll.csv" ingests as sheet "Payroll".
func sheetNameFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Replace(name, "Actions-", "", 1)
}

// IngestCSV loads one exported sheet. Every data row lands in raw_rows as
// JSON; rows with a recognizable title also become tasks. It returns the
// number of tasks inserted.
func (s *ActionsStore) IngestCSV(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open actions csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read actions csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = normalizeActionHeader(header)
	}

	sheetName := sheetNameFromPath(path)
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin ingest transaction: %w", err)
	}

	inserted := 0
	for i, cells := range rows[1:] {
		row := make(map[string]string, len(headers))
		for c, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if c < len(cells) {
				value = cells[c]
			}
			row[header] = value
		}

		rawJSON, err := json.Marshal(row)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("marshal raw row: %w", err)
		}

		res, err := tx.Exec(
			`INSERT INTO raw_rows (sheet_name, row_num, data_json) VALUES (?, ?, ?);`,
			sheetName, i+1, string(rawJSON),
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert raw row: %w", err)
		}
		rawID, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("read raw row id: %w", err)
		}

		title, _ := pickValue(row, "title", "actions", "task", "item")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		dueDate, _ := pickValue(row, "due_date", "next_due")
		status, _ := pickValue(row, "status")
		comments, _ := pickValue(row, "comments", "notes")

		if _, err := tx.Exec(
			`INSERT INTO tasks
(raw_id, source_sheet, title, due_date, status, status_color, category, comments, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, strftime('%s','now'), strftime('%s','now'));`,
			rawID, sheetName, title, dueDate, status, statusColor(status), sheetName, comments,
		); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert task: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit ingest transaction: %w", err)
	}
	return inserted, nil
}

// IngestResult summarizes one ingest run.
type IngestResult struct {
	Files int
	Tasks int
}

// IngestDir ingests exported "Actions-*.csv" files from a directory. With an
// explicit sheet list only those sheets load; otherwise the all-tasks master
// export wins when present, and every sheet export loads when it is not.
func (s *ActionsStore) IngestDir(dir string, sheets []string) (IngestResult, error) {
	paths, err := selectActionCSVs(dir, sheets)
	if err != nil {
		return IngestResult{}, err
	}

	result := IngestResult{}
	for _, path := range paths {
		tasks, err := s.IngestCSV(path)
		if err != nil {
			return result, err
		}
		result.Files++
		result.Tasks += tasks
	}
	return result, nil
}

func selectActionCSVs(dir string, sheets []string) ([]string, error) {
	pattern := filepath.Join(dir, "Actions-*.csv")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob actions csvs: %w", err)
	}
	sort.Strings(matches)

	if len(sheets) > 0 {
		allow := make(map[string]struct{}, len(sheets))
		for _, sheet := range sheets {
			sheet = strings.TrimSpace(sheet)
			if sheet != "" {
				allow[sheet] = struct{}{}
			}
		}
		selected := make([]string, 0, len(matches))
		for _, path := range matches {
			if _, ok := allow[sheetNameFromPath(path)]; ok {
				selected = append(selected, path)
			}
		}
		return selected, nil
	}

	master := filepath.Join(dir, "Actions-All_Tasks.csv")
	if _, err := os.Stat(master); err == nil {
		return []string{master}, nil
	}
	return matches, nil
}

// StatusCounts returns how many tasks sit in each traffic-light bucket.
func (s *ActionsStore) StatusCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT COALESCE(status_color, ''), COUNT(*) FROM tasks GROUP BY status_color;`)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			color string
			count int
		)
		if err := rows.Scan(&color, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[color] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}
