package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for clip-processing
// tuning parameters. Fields are pointers so a partial JSON file only
// overrides what it names; the Get* accessors supply compiled-in
// fallbacks for everything else.
type TuningConfig struct {
	// Calibration and matching gates
	PixelsPerMeter     *float64 `json:"pixels_per_meter,omitempty"`
	DistanceGatePx     *float64 `json:"distance_gate_px,omitempty"`
	TimeGateSeconds    *float64 `json:"time_gate_s,omitempty"`
	GracePeriodSeconds *float64 `json:"grace_period_s,omitempty"`

	// Speed estimation
	SmoothingWindow *int     `json:"smoothing_window,omitempty"`
	MinSpeedKmh     *float64 `json:"min_speed_kmh,omitempty"`
	MaxSpeedKmh     *float64 `json:"max_speed_kmh,omitempty"`

	// Alerting and result emission
	AlertThresholdKmh     *float64 `json:"alert_threshold_kmh,omitempty"`
	MinPositionsForResult *int     `json:"min_positions_for_result,omitempty"`

	// Detection intake
	MinDetectionConfidence *float64 `json:"min_detection_confidence,omitempty"`

	// Per-class speed limits used for violation statistics
	CarSpeedLimitKmh   *float64 `json:"car_speed_limit_kmh,omitempty"`
	TruckSpeedLimitKmh *float64 `json:"truck_speed_limit_kmh,omitempty"`

	// Statistics bucketing
	TimeBucketSeconds *float64 `json:"time_bucket_s,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under
// the max file size. Fields omitted from the JSON file retain their
// default values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // from cmd/tools/<tool>/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Every check
// here is a construction-time error: a config that fails validation is
// rejected before any frame is processed.
func (c *TuningConfig) Validate() error {
	if c.PixelsPerMeter != nil && *c.PixelsPerMeter <= 0 {
		return fmt.Errorf("pixels_per_meter must be positive, got %f", *c.PixelsPerMeter)
	}
	if c.DistanceGatePx != nil && *c.DistanceGatePx <= 0 {
		return fmt.Errorf("distance_gate_px must be positive, got %f", *c.DistanceGatePx)
	}
	if c.TimeGateSeconds != nil && *c.TimeGateSeconds <= 0 {
		return fmt.Errorf("time_gate_s must be positive, got %f", *c.TimeGateSeconds)
	}
	if c.GracePeriodSeconds != nil && *c.GracePeriodSeconds <= 0 {
		return fmt.Errorf("grace_period_s must be positive, got %f", *c.GracePeriodSeconds)
	}
	if c.SmoothingWindow != nil && *c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be >= 1, got %d", *c.SmoothingWindow)
	}
	if c.MinSpeedKmh != nil && *c.MinSpeedKmh < 0 {
		return fmt.Errorf("min_speed_kmh must be non-negative, got %f", *c.MinSpeedKmh)
	}
	if c.MaxSpeedKmh != nil && *c.MaxSpeedKmh <= 0 {
		return fmt.Errorf("max_speed_kmh must be positive, got %f", *c.MaxSpeedKmh)
	}
	if c.MinSpeedKmh != nil && c.MaxSpeedKmh != nil && *c.MinSpeedKmh >= *c.MaxSpeedKmh {
		return fmt.Errorf("min_speed_kmh (%f) must be below max_speed_kmh (%f)", *c.MinSpeedKmh, *c.MaxSpeedKmh)
	}
	if c.AlertThresholdKmh != nil && *c.AlertThresholdKmh <= 0 {
		return fmt.Errorf("alert_threshold_kmh must be positive, got %f", *c.AlertThresholdKmh)
	}
	if c.MinPositionsForResult != nil && *c.MinPositionsForResult < 2 {
		return fmt.Errorf("min_positions_for_result must be >= 2, got %d", *c.MinPositionsForResult)
	}
	if c.MinDetectionConfidence != nil && (*c.MinDetectionConfidence < 0 || *c.MinDetectionConfidence > 1) {
		return fmt.Errorf("min_detection_confidence must be between 0 and 1, got %f", *c.MinDetectionConfidence)
	}
	if c.CarSpeedLimitKmh != nil && *c.CarSpeedLimitKmh <= 0 {
		return fmt.Errorf("car_speed_limit_kmh must be positive, got %f", *c.CarSpeedLimitKmh)
	}
	if c.TruckSpeedLimitKmh != nil && *c.TruckSpeedLimitKmh <= 0 {
		return fmt.Errorf("truck_speed_limit_kmh must be positive, got %f", *c.TruckSpeedLimitKmh)
	}
	if c.TimeBucketSeconds != nil && *c.TimeBucketSeconds <= 0 {
		return fmt.Errorf("time_bucket_s must be positive, got %f", *c.TimeBucketSeconds)
	}
	return nil
}

// GetPixelsPerMeter returns the pixels_per_meter value or the default.
// The default derives from a 20 m dashed-line gap spanning 245 px in
// the reference camera scene.
func (c *TuningConfig) GetPixelsPerMeter() float64 {
	if c.PixelsPerMeter == nil {
		return 245.0 / 20.0
	}
	return *c.PixelsPerMeter
}

// GetDistanceGatePx returns the distance_gate_px value or the default.
func (c *TuningConfig) GetDistanceGatePx() float64 {
	if c.DistanceGatePx == nil {
		return 100.0
	}
	return *c.DistanceGatePx
}

// GetTimeGateSeconds returns the time_gate_s value or the default.
func (c *TuningConfig) GetTimeGateSeconds() float64 {
	if c.TimeGateSeconds == nil {
		return 1.0
	}
	return *c.TimeGateSeconds
}

// GetGracePeriodSeconds returns the grace_period_s value or the default.
func (c *TuningConfig) GetGracePeriodSeconds() float64 {
	if c.GracePeriodSeconds == nil {
		return 3.0
	}
	return *c.GracePeriodSeconds
}

// GetSmoothingWindow returns the smoothing_window value or the default.
func (c *TuningConfig) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return 3
	}
	return *c.SmoothingWindow
}

// GetMinSpeedKmh returns the min_speed_kmh value or the default.
func (c *TuningConfig) GetMinSpeedKmh() float64 {
	if c.MinSpeedKmh == nil {
		return 5.0
	}
	return *c.MinSpeedKmh
}

// GetMaxSpeedKmh returns the max_speed_kmh value or the default.
func (c *TuningConfig) GetMaxSpeedKmh() float64 {
	if c.MaxSpeedKmh == nil {
		return 200.0
	}
	return *c.MaxSpeedKmh
}

// GetAlertThresholdKmh returns the alert_threshold_kmh value or the default.
func (c *TuningConfig) GetAlertThresholdKmh() float64 {
	if c.AlertThresholdKmh == nil {
		return 130.0
	}
	return *c.AlertThresholdKmh
}

// GetMinPositionsForResult returns the min_positions_for_result value or the default.
func (c *TuningConfig) GetMinPositionsForResult() int {
	if c.MinPositionsForResult == nil {
		return 3
	}
	return *c.MinPositionsForResult
}

// GetMinDetectionConfidence returns the min_detection_confidence value or the default.
func (c *TuningConfig) GetMinDetectionConfidence() float64 {
	if c.MinDetectionConfidence == nil {
		return 0.6
	}
	return *c.MinDetectionConfidence
}

// GetCarSpeedLimitKmh returns the car_speed_limit_kmh value or the default.
func (c *TuningConfig) GetCarSpeedLimitKmh() float64 {
	if c.CarSpeedLimitKmh == nil {
		return 90.0
	}
	return *c.CarSpeedLimitKmh
}

// GetTruckSpeedLimitKmh returns the truck_speed_limit_kmh value or the default.
func (c *TuningConfig) GetTruckSpeedLimitKmh() float64 {
	if c.TruckSpeedLimitKmh == nil {
		return 80.0
	}
	return *c.TruckSpeedLimitKmh
}

// GetTimeBucketSeconds returns the time_bucket_s value or the default
// (5-minute reporting intervals).
func (c *TuningConfig) GetTimeBucketSeconds() float64 {
	if c.TimeBucketSeconds == nil {
		return 300.0
	}
	return *c.TimeBucketSeconds
}
