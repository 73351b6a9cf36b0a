package storage

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"milwatch/internal/models"
)

// EventStore persists accepted sightings in a SQLite table keyed by
// (first_seen_utc, hex). Ingesting the same CSV twice yields no
// duplicates and no error.
type EventStore struct {
	db *sql.DB
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	first_seen_utc TEXT,
	hex TEXT,
	callsign TEXT,
	reg TEXT,
	model_t TEXT,
	lat REAL,
	lon REAL,
	alt_ft INTEGER,
	gs_kt REAL,
	squawk TEXT,
	ground TEXT,
	PRIMARY KEY (first_seen_utc, hex)
)`

// OpenEventStore opens (creating if necessary) the events database.
func OpenEventStore(path string) (*EventStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store %s: %w", path, err)
	}
	if _, err := db.Exec(createEventsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}
	return &EventStore{db: db}, nil
}

func (s *EventStore) Close() error {
	return s.db.Close()
}

// IngestCSV imports the CSV sink into the events table. Rows whose
// (first_seen_utc, hex) pair is already present are silently dropped.
// A missing CSV file is a warning, not an error. Returns the number of
// rows actually inserted.
func (s *EventStore) IngestCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: CSV %s not found, skipping import", path)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		log.Printf("CSV %s is empty, nothing to import", path)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO events (
		first_seen_utc, hex, callsign, reg, model_t,
		lat, lon, alt_ft, gs_kt, squawk, ground
	) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare ingest statement: %w", err)
	}
	defer stmt.Close()

	field := func(row []string, name string) string {
		if i, ok := colIdx[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	inserted, total := 0, 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV row: %w", err)
		}
		total++
		args := make([]any, len(models.EventColumns))
		for i, col := range models.EventColumns {
			args[i] = field(row, col)
		}
		res, err := stmt.Exec(args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert event row: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingest: %w", err)
	}
	log.Printf("Imported %d CSV rows (%d new after dedup)", total, inserted)
	return inserted, nil
}

// QueryRange returns every event whose first-seen date falls within the
// inclusive [startDay, endDay] range (days formatted 2006-01-02), ordered
// by timestamp ascending. An empty store yields an empty slice.
func (s *EventStore) QueryRange(startDay, endDay string) ([]models.EventRecord, error) {
	// Timestamps are fixed-width "2006-01-02 15:04:05 UTC" strings, so
	// lexical order is chronological order.
	rows, err := s.db.Query(`SELECT first_seen_utc, hex, callsign, reg, model_t,
		lat, lon, alt_ft, gs_kt, squawk, ground
		FROM events
		WHERE substr(first_seen_utc,1,10) BETWEEN ? AND ?
		ORDER BY first_seen_utc ASC`, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.EventRecord
	for rows.Next() {
		var rec models.EventRecord
		if err := rows.Scan(&rec.FirstSeenUTC, &rec.Hex, &rec.Callsign, &rec.Reg,
			&rec.ModelType, &rec.Lat, &rec.Lon, &rec.AltFt, &rec.GsKt,
			&rec.Squawk, &rec.Ground); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// Count returns the total number of stored events.
func (s *EventStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
