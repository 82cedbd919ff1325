// Package report renders a processed clip's results as artifacts: a
// JSON stats document, a plain-text summary, and an HTML speed
// distribution chart.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/roadmetrics/traffic.report/internal/stats"
	"github.com/roadmetrics/traffic.report/internal/track"
)

// VideoMeta describes the source clip as reported by the detector.
type VideoMeta struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Frames          int     `json:"frames"`
	DurationSeconds float64 `json:"duration_s"`
}

// Document is the full per-clip stats record. It is what gets written
// to disk, persisted, and served by the API.
type Document struct {
	Clip        string          `json:"clip"`
	RunID       string          `json:"run_id"`
	ProcessedAt time.Time       `json:"processed_at"`
	Video       VideoMeta       `json:"video"`
	Stats       stats.ClipStats `json:"stats"`
	Vehicles    []track.Result  `json:"vehicles"`
	Alerts      []track.Alert   `json:"alerts"`
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal %s: %w", doc.Clip, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}
