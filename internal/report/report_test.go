package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/roadmetrics/traffic.report/internal/stats"
	"github.com/roadmetrics/traffic.report/internal/track"
)

func testDocument() *Document {
	summary := track.Aggregate([]track.Result{
		{ID: 1, Type: track.VehicleCar, Direction: track.DirectionOutbound, SpeedKmh: 72, Timestamp: 3.2},
		{ID: 2, Type: track.VehicleTruck, Direction: track.DirectionInbound, SpeedKmh: 95, Timestamp: 7.8},
	})
	return &Document{
		Clip:        "junction-cam-0142",
		RunID:       "2a1b9c4e-0000-4000-8000-000000000000",
		ProcessedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Video:       VideoMeta{Width: 1280, Height: 720, Frames: 250, DurationSeconds: 10},
		Stats:       stats.Compute(summary, stats.Limits{CarKmh: 90, TruckKmh: 80}, 300),
		Vehicles:    summary.Vehicles,
		Alerts: []track.Alert{
			{TrackID: 2, Type: track.VehicleTruck, SpeedKmh: 95, Timestamp: 7.8},
		},
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testDocument()); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"clip", "run_id", "processed_at", "video", "stats", "vehicles", "alerts"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("document missing %q", key)
		}
	}
	if decoded["clip"] != "junction-cam-0142" {
		t.Errorf("clip = %v", decoded["clip"])
	}
}

func TestWriteTextContents(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, testDocument()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"junction-cam-0142",
		"Vehicles: 2 (1 cars, 1 trucks)",
		"Speed violations: 1 (0 cars, 1 trucks)",
		"Alerts: 1",
		"vehicle 2 (truck) at 95.0 km/h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSpeedChartRenders(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSpeedChart(&buf, testDocument()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "<html") {
		t.Error("chart output is not an HTML document")
	}
	if !strings.Contains(out, "Speed distribution") {
		t.Error("chart output missing title")
	}
}
