package clipdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roadmetrics/traffic.report/internal/report"
)

// ErrNotFound is returned when no clip with the requested name exists.
var ErrNotFound = errors.New("clipdb: clip not found")

// ClipSummary is the list-view projection of one stored clip.
type ClipSummary struct {
	Name            string    `json:"name"`
	RunID           string    `json:"run_id"`
	ProcessedAt     time.Time `json:"processed_at"`
	DurationSeconds float64   `json:"duration_s"`
	TotalVehicles   int       `json:"total_vehicles"`
	TotalViolations int       `json:"total_violations"`
	MeanSpeedKmh    float64   `json:"mean_speed_kmh"`
	MaxSpeedKmh     float64   `json:"max_speed_kmh"`
	P85SpeedKmh     float64   `json:"p85_speed_kmh"`
}

// AlertRecord is one stored alert together with its clip name.
type AlertRecord struct {
	Clip       string  `json:"clip"`
	TrackID    int64   `json:"track_id"`
	Type       string  `json:"type"`
	SpeedKmh   float64 `json:"speed_kmh"`
	ObservedAt float64 `json:"observed_at"`
}

// UpsertClip stores a processed clip's full document, replacing any
// previous results for the same clip name along with their vehicle and
// alert rows.
func (db *DB) UpsertClip(doc *report.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("clipdb: marshal %s: %w", doc.Clip, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("clipdb: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO clips (name, run_id, processed_at, duration_s,
			total_vehicles, total_violations,
			mean_speed_kmh, max_speed_kmh, p85_speed_kmh, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			run_id = excluded.run_id,
			processed_at = excluded.processed_at,
			duration_s = excluded.duration_s,
			total_vehicles = excluded.total_vehicles,
			total_violations = excluded.total_violations,
			mean_speed_kmh = excluded.mean_speed_kmh,
			max_speed_kmh = excluded.max_speed_kmh,
			p85_speed_kmh = excluded.p85_speed_kmh,
			document = excluded.document`,
		doc.Clip, doc.RunID, doc.ProcessedAt, doc.Video.DurationSeconds,
		doc.Stats.TotalVehicles, doc.Stats.TotalViolations,
		doc.Stats.MeanSpeedKmh, doc.Stats.MaxSpeedKmh, doc.Stats.P85SpeedKmh,
		string(raw))
	if err != nil {
		return fmt.Errorf("clipdb: upsert %s: %w", doc.Clip, err)
	}

	var clipID int64
	if err := tx.QueryRow("SELECT id FROM clips WHERE name = ?", doc.Clip).Scan(&clipID); err != nil {
		return fmt.Errorf("clipdb: resolve clip id: %w", err)
	}

	// Replace child rows wholesale; a reprocessed clip supersedes its
	// earlier run entirely.
	if _, err := tx.Exec("DELETE FROM vehicles WHERE clip_id = ?", clipID); err != nil {
		return fmt.Errorf("clipdb: clear vehicles: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM alerts WHERE clip_id = ?", clipID); err != nil {
		return fmt.Errorf("clipdb: clear alerts: %w", err)
	}

	for _, v := range doc.Vehicles {
		if _, err := tx.Exec(`
			INSERT INTO vehicles (clip_id, track_id, type, direction, speed_kmh, observed_at, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			clipID, v.ID, string(v.Type), string(v.Direction), v.SpeedKmh, v.Timestamp, v.Confidence); err != nil {
			return fmt.Errorf("clipdb: insert vehicle %d: %w", v.ID, err)
		}
	}
	for _, a := range doc.Alerts {
		if _, err := tx.Exec(`
			INSERT INTO alerts (clip_id, track_id, type, speed_kmh, observed_at)
			VALUES (?, ?, ?, ?, ?)`,
			clipID, a.TrackID, string(a.Type), a.SpeedKmh, a.Timestamp); err != nil {
			return fmt.Errorf("clipdb: insert alert for track %d: %w", a.TrackID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clipdb: commit %s: %w", doc.Clip, err)
	}
	return nil
}

// GetClip returns the stored document for one clip name.
func (db *DB) GetClip(name string) (*report.Document, error) {
	var raw string
	err := db.QueryRow("SELECT document FROM clips WHERE name = ?", name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("clipdb: get %s: %w", name, err)
	}

	var doc report.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("clipdb: decode %s: %w", name, err)
	}
	return &doc, nil
}

// ListClips returns summaries for all stored clips, most recently
// processed first.
func (db *DB) ListClips() ([]ClipSummary, error) {
	rows, err := db.Query(`
		SELECT name, run_id, processed_at, duration_s,
			total_vehicles, total_violations,
			mean_speed_kmh, max_speed_kmh, p85_speed_kmh
		FROM clips ORDER BY processed_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("clipdb: list clips: %w", err)
	}
	defer rows.Close()

	var clips []ClipSummary
	for rows.Next() {
		var c ClipSummary
		if err := rows.Scan(&c.Name, &c.RunID, &c.ProcessedAt, &c.DurationSeconds,
			&c.TotalVehicles, &c.TotalViolations,
			&c.MeanSpeedKmh, &c.MaxSpeedKmh, &c.P85SpeedKmh); err != nil {
			return nil, fmt.Errorf("clipdb: scan clip: %w", err)
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

// ListAlerts returns the most recent alerts across all clips, fastest
// offenders first within a clip, capped at limit.
func (db *DB) ListAlerts(limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT c.name, a.track_id, a.type, a.speed_kmh, a.observed_at
		FROM alerts a JOIN clips c ON c.id = a.clip_id
		ORDER BY c.processed_at DESC, a.speed_kmh DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("clipdb: list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []AlertRecord
	for rows.Next() {
		var a AlertRecord
		if err := rows.Scan(&a.Clip, &a.TrackID, &a.Type, &a.SpeedKmh, &a.ObservedAt); err != nil {
			return nil, fmt.Errorf("clipdb: scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
