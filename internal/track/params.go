package track

import (
	"fmt"

	"github.com/roadmetrics/traffic.report/internal/config"
)

// Params holds the tunable parameters for one clip's engine. Values
// are plain (non-pointer) so a constructed engine is self-contained.
type Params struct {
	PixelsPerMeter        float64 // pixel-to-metre calibration constant
	DistanceGatePx        float64 // max centroid distance for a match
	TimeGateSeconds       float64 // max elapsed time for a match
	GracePeriodSeconds    float64 // unmatched-track retention window
	SmoothingWindow       int     // speed samples averaged for the reported speed
	MinSpeedKmh           float64 // plausibility band lower bound
	MaxSpeedKmh           float64 // plausibility band upper bound
	AlertThresholdKmh     float64 // one-shot alert threshold
	MinPositionsForResult int     // minimum history before a result is emitted
}

// DefaultParams returns engine parameters loaded from the canonical
// tuning defaults file (config/tuning.defaults.json). Panics if the
// file cannot be found — intended for tests and binaries that have
// already validated config availability.
func DefaultParams() Params {
	return ParamsFromTuning(config.MustLoadDefaultConfig())
}

// ParamsFromTuning builds engine Params from a loaded TuningConfig.
// Use this in production code where the TuningConfig is already loaded.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	return Params{
		PixelsPerMeter:        cfg.GetPixelsPerMeter(),
		DistanceGatePx:        cfg.GetDistanceGatePx(),
		TimeGateSeconds:       cfg.GetTimeGateSeconds(),
		GracePeriodSeconds:    cfg.GetGracePeriodSeconds(),
		SmoothingWindow:       cfg.GetSmoothingWindow(),
		MinSpeedKmh:           cfg.GetMinSpeedKmh(),
		MaxSpeedKmh:           cfg.GetMaxSpeedKmh(),
		AlertThresholdKmh:     cfg.GetAlertThresholdKmh(),
		MinPositionsForResult: cfg.GetMinPositionsForResult(),
	}
}

// Validate rejects out-of-range parameters before any frame is
// processed.
func (p Params) Validate() error {
	if p.PixelsPerMeter <= 0 {
		return fmt.Errorf("pixels_per_meter must be positive, got %f", p.PixelsPerMeter)
	}
	if p.DistanceGatePx <= 0 {
		return fmt.Errorf("distance_gate_px must be positive, got %f", p.DistanceGatePx)
	}
	if p.TimeGateSeconds <= 0 {
		return fmt.Errorf("time_gate_s must be positive, got %f", p.TimeGateSeconds)
	}
	if p.GracePeriodSeconds <= 0 {
		return fmt.Errorf("grace_period_s must be positive, got %f", p.GracePeriodSeconds)
	}
	if p.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be >= 1, got %d", p.SmoothingWindow)
	}
	if p.MinSpeedKmh < 0 {
		return fmt.Errorf("min_speed_kmh must be non-negative, got %f", p.MinSpeedKmh)
	}
	if p.MaxSpeedKmh <= p.MinSpeedKmh {
		return fmt.Errorf("max_speed_kmh (%f) must exceed min_speed_kmh (%f)", p.MaxSpeedKmh, p.MinSpeedKmh)
	}
	if p.AlertThresholdKmh <= 0 {
		return fmt.Errorf("alert_threshold_kmh must be positive, got %f", p.AlertThresholdKmh)
	}
	if p.MinPositionsForResult < 2 {
		return fmt.Errorf("min_positions_for_result must be >= 2, got %d", p.MinPositionsForResult)
	}
	return nil
}
