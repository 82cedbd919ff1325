// Package pipeline runs clips end-to-end: detection log in, stats
// document out, with optional persistence and report artifacts. Clips
// are independent, so a Pool fans them out across workers; each clip
// gets its own engine and is processed by exactly one goroutine.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/roadmetrics/traffic.report/internal/clipdb"
	"github.com/roadmetrics/traffic.report/internal/config"
	"github.com/roadmetrics/traffic.report/internal/detect"
	"github.com/roadmetrics/traffic.report/internal/monitoring"
	"github.com/roadmetrics/traffic.report/internal/report"
	"github.com/roadmetrics/traffic.report/internal/stats"
	"github.com/roadmetrics/traffic.report/internal/timeutil"
	"github.com/roadmetrics/traffic.report/internal/track"
)

// Runner processes clips with a fixed configuration. DB and OutDir are
// optional: a nil DB skips persistence, an empty OutDir skips report
// artifacts.
type Runner struct {
	Params           track.Params
	MinConfidence    float64
	Limits           stats.Limits
	TimeBucketSecond float64

	DB     *clipdb.DB
	OutDir string
	Clock  timeutil.Clock
}

// NewRunner builds a Runner from loaded tuning config.
func NewRunner(cfg *config.TuningConfig, db *clipdb.DB, outDir string) *Runner {
	return &Runner{
		Params:           track.ParamsFromTuning(cfg),
		MinConfidence:    cfg.GetMinDetectionConfidence(),
		Limits:           stats.Limits{CarKmh: cfg.GetCarSpeedLimitKmh(), TruckKmh: cfg.GetTruckSpeedLimitKmh()},
		TimeBucketSecond: cfg.GetTimeBucketSeconds(),
		DB:               db,
		OutDir:           outDir,
		Clock:            timeutil.RealClock{},
	}
}

// ProcessClip drives every frame of one detection log through the
// engine and reduces the output to a stats document. The context is
// checked once per frame; on cancellation the document built so far is
// returned together with the context error, and its partial
// aggregation is still internally consistent.
func (r *Runner) ProcessClip(ctx context.Context, clip string, src *detect.Reader) (*report.Document, error) {
	proc, err := track.NewProcessor(r.Params)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", clip, err)
	}

	var (
		results []track.Result
		alerts  []track.Alert
		meta    report.VideoMeta
		ctxErr  error
	)

	for {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}

		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", clip, err)
		}

		meta.Frames++
		meta.Width, meta.Height = rec.Width, rec.Height
		meta.DurationSeconds = rec.Time

		rs, as := proc.ProcessFrame(detect.Filter(rec.Detections, r.MinConfidence), rec.Time)
		results = append(results, rs...)
		alerts = append(alerts, as...)
	}

	summary := track.Aggregate(results)
	doc := &report.Document{
		Clip:        clip,
		RunID:       uuid.NewString(),
		ProcessedAt: r.Clock.Now(),
		Video:       meta,
		Stats:       stats.Compute(summary, r.Limits, r.TimeBucketSecond),
		Vehicles:    summary.Vehicles,
		Alerts:      alerts,
	}
	return doc, ctxErr
}

// RunFile processes one detection log file, persists the document, and
// writes report artifacts. A cancelled run is not persisted.
func (r *Runner) RunFile(ctx context.Context, path string) (*report.Document, error) {
	src, closer, err := detect.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	clip := ClipName(path)
	doc, err := r.ProcessClip(ctx, clip, src)
	if err != nil {
		return doc, err
	}

	monitoring.Logf("processed clip %s: %d vehicles, %d violations, %d alerts (run %s)",
		clip, doc.Stats.TotalVehicles, doc.Stats.TotalViolations, len(doc.Alerts), doc.RunID)

	if r.DB != nil {
		if err := r.DB.UpsertClip(doc); err != nil {
			return doc, err
		}
	}
	if r.OutDir != "" {
		if err := r.writeArtifacts(doc); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

func (r *Runner) writeArtifacts(doc *report.Document) error {
	if err := os.MkdirAll(r.OutDir, 0755); err != nil {
		return fmt.Errorf("pipeline: create output dir: %w", err)
	}

	writers := []struct {
		suffix string
		write  func(io.Writer, *report.Document) error
	}{
		{"_stats.json", report.WriteJSON},
		{"_stats.txt", report.WriteText},
		{"_speeds.html", report.WriteSpeedChart},
	}
	for _, art := range writers {
		path := filepath.Join(r.OutDir, doc.Clip+art.suffix)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("pipeline: create %s: %w", path, err)
		}
		if err := art.write(f, doc); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("pipeline: close %s: %w", path, err)
		}
	}
	return nil
}

// ClipName derives the clip name from a detection log path: the base
// name without its extension.
func ClipName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
