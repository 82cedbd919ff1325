package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadTuningConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, `{}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}

	if got := cfg.GetPixelsPerMeter(); got != 245.0/20.0 {
		t.Errorf("GetPixelsPerMeter = %v, want %v", got, 245.0/20.0)
	}
	if got := cfg.GetDistanceGatePx(); got != 100.0 {
		t.Errorf("GetDistanceGatePx = %v, want 100", got)
	}
	if got := cfg.GetTimeGateSeconds(); got != 1.0 {
		t.Errorf("GetTimeGateSeconds = %v, want 1.0", got)
	}
	if got := cfg.GetGracePeriodSeconds(); got != 3.0 {
		t.Errorf("GetGracePeriodSeconds = %v, want 3.0", got)
	}
	if got := cfg.GetSmoothingWindow(); got != 3 {
		t.Errorf("GetSmoothingWindow = %v, want 3", got)
	}
	if got := cfg.GetAlertThresholdKmh(); got != 130.0 {
		t.Errorf("GetAlertThresholdKmh = %v, want 130", got)
	}
	if got := cfg.GetMinPositionsForResult(); got != 3 {
		t.Errorf("GetMinPositionsForResult = %v, want 3", got)
	}
	if got := cfg.GetCarSpeedLimitKmh(); got != 90.0 {
		t.Errorf("GetCarSpeedLimitKmh = %v, want 90", got)
	}
	if got := cfg.GetTruckSpeedLimitKmh(); got != 80.0 {
		t.Errorf("GetTruckSpeedLimitKmh = %v, want 80", got)
	}
}

func TestLoadTuningConfigPartialOverride(t *testing.T) {
	path := writeTempConfig(t, `{"smoothing_window": 5, "max_speed_kmh": 150.0}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}

	if got := cfg.GetSmoothingWindow(); got != 5 {
		t.Errorf("GetSmoothingWindow = %v, want 5", got)
	}
	if got := cfg.GetMaxSpeedKmh(); got != 150.0 {
		t.Errorf("GetMaxSpeedKmh = %v, want 150", got)
	}
	// Untouched fields keep their defaults.
	if got := cfg.GetMinSpeedKmh(); got != 5.0 {
		t.Errorf("GetMinSpeedKmh = %v, want 5", got)
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("expected error for non-.json extension, got nil")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"zero pixels_per_meter", `{"pixels_per_meter": 0}`},
		{"negative pixels_per_meter", `{"pixels_per_meter": -1.5}`},
		{"zero distance gate", `{"distance_gate_px": 0}`},
		{"zero time gate", `{"time_gate_s": 0}`},
		{"zero grace period", `{"grace_period_s": 0}`},
		{"zero smoothing window", `{"smoothing_window": 0}`},
		{"negative smoothing window", `{"smoothing_window": -3}`},
		{"inverted plausibility band", `{"min_speed_kmh": 100, "max_speed_kmh": 50}`},
		{"zero alert threshold", `{"alert_threshold_kmh": 0}`},
		{"min positions below 2", `{"min_positions_for_result": 1}`},
		{"confidence above 1", `{"min_detection_confidence": 1.5}`},
		{"zero time bucket", `{"time_bucket_s": 0}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.json)
			if _, err := LoadTuningConfig(path); err == nil {
				t.Errorf("expected validation error for %s, got nil", tc.json)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("canonical defaults failed validation: %v", err)
	}
	if cfg.GetPixelsPerMeter() <= 0 {
		t.Error("canonical defaults missing pixels_per_meter")
	}
}
