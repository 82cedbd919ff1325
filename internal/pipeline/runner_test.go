package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roadmetrics/traffic.report/internal/detect"
	"github.com/roadmetrics/traffic.report/internal/stats"
	"github.com/roadmetrics/traffic.report/internal/timeutil"
	"github.com/roadmetrics/traffic.report/internal/track"
)

func testRunner() *Runner {
	return &Runner{
		Params: track.Params{
			PixelsPerMeter:        5.0,
			DistanceGatePx:        100.0,
			TimeGateSeconds:       1.0,
			GracePeriodSeconds:    3.0,
			SmoothingWindow:       3,
			MinSpeedKmh:           5.0,
			MaxSpeedKmh:           200.0,
			AlertThresholdKmh:     130.0,
			MinPositionsForResult: 3,
		},
		MinConfidence:    0.6,
		Limits:           stats.Limits{CarKmh: 90, TruckKmh: 80},
		TimeBucketSecond: 300,
		Clock:            timeutil.NewMockClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)),
	}
}

// steadyCarLog emits frames of one car moving 2 px per 0.04 s frame,
// a steady 36 km/h.
func steadyCarLog(frames int) string {
	var b strings.Builder
	for i := 0; i < frames; i++ {
		fmt.Fprintf(&b,
			`{"frame":%d,"time":%.2f,"width":1280,"height":720,"detections":[{"x":%.1f,"y":100,"w":40,"h":20,"confidence":0.9,"class_id":2}]}`+"\n",
			i, 0.04*float64(i), 100+2*float64(i))
	}
	return b.String()
}

func TestProcessClipEndToEnd(t *testing.T) {
	r := testRunner()

	doc, err := r.ProcessClip(context.Background(), "cam-0001", detect.NewReader(strings.NewReader(steadyCarLog(10))))
	if err != nil {
		t.Fatal(err)
	}

	if doc.Clip != "cam-0001" {
		t.Errorf("clip = %q", doc.Clip)
	}
	if doc.RunID == "" {
		t.Error("run id not assigned")
	}
	if doc.Video.Frames != 10 || doc.Video.Width != 1280 {
		t.Errorf("video meta = %+v", doc.Video)
	}
	if doc.Stats.TotalVehicles != 1 {
		t.Fatalf("total vehicles = %d, want 1", doc.Stats.TotalVehicles)
	}
	v := doc.Vehicles[0]
	if v.SpeedKmh < 35.9 || v.SpeedKmh > 36.1 {
		t.Errorf("speed = %f, want ~36", v.SpeedKmh)
	}
	if v.Direction != track.DirectionOutbound {
		t.Errorf("direction = %q, want outbound", v.Direction)
	}
	if len(doc.Alerts) != 0 {
		t.Errorf("got %d alerts at 36 km/h", len(doc.Alerts))
	}
}

func TestProcessClipFiltersLowConfidence(t *testing.T) {
	r := testRunner()

	// All detections far below the 0.6 threshold: nothing gets tracked.
	var b strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b,
			`{"frame":%d,"time":%.2f,"width":1280,"height":720,"detections":[{"x":%.1f,"y":100,"w":40,"h":20,"confidence":0.2,"class_id":2}]}`+"\n",
			i, 0.04*float64(i), 100+2*float64(i))
	}

	doc, err := r.ProcessClip(context.Background(), "cam-0002", detect.NewReader(strings.NewReader(b.String())))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Stats.TotalVehicles != 0 {
		t.Errorf("total vehicles = %d, want 0", doc.Stats.TotalVehicles)
	}
	if doc.Video.Frames != 5 {
		t.Errorf("frames = %d, want 5 (frames still counted)", doc.Video.Frames)
	}
}

func TestProcessClipCancellationKeepsPartial(t *testing.T) {
	r := testRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, err := r.ProcessClip(ctx, "cam-0003", detect.NewReader(strings.NewReader(steadyCarLog(10))))
	if err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if doc == nil {
		t.Fatal("cancelled run returned no document")
	}
	if doc.Video.Frames != 0 {
		t.Errorf("pre-cancelled run processed %d frames", doc.Video.Frames)
	}
	// The aggregation of whatever was processed is still well-formed.
	if doc.Stats.TotalVehicles != len(doc.Vehicles) {
		t.Errorf("summary inconsistent: %d vs %d", doc.Stats.TotalVehicles, len(doc.Vehicles))
	}
}

func TestProcessClipEmptyLog(t *testing.T) {
	r := testRunner()
	_, err := r.ProcessClip(context.Background(), "cam-0004", detect.NewReader(strings.NewReader("")))
	if err == nil {
		t.Fatal("expected error for empty detection log")
	}
}

func TestRunFileWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "cam-0005"+detect.FileExtension)
	if err := os.WriteFile(logPath, []byte(steadyCarLog(10)), 0644); err != nil {
		t.Fatal(err)
	}

	r := testRunner()
	r.OutDir = filepath.Join(dir, "out")

	doc, err := r.RunFile(context.Background(), logPath)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Clip != "cam-0005" {
		t.Errorf("clip name = %q, want cam-0005", doc.Clip)
	}

	for _, suffix := range []string{"_stats.json", "_stats.txt", "_speeds.html"} {
		path := filepath.Join(r.OutDir, "cam-0005"+suffix)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact %s missing: %v", suffix, err)
		}
	}
}

func TestClipName(t *testing.T) {
	if got := ClipName("/data/logs/cam-0001.detlog"); got != "cam-0001" {
		t.Errorf("ClipName = %q, want cam-0001", got)
	}
	if got := ClipName("plain"); got != "plain" {
		t.Errorf("ClipName = %q, want plain", got)
	}
}
