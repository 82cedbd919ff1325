package track

import "github.com/roadmetrics/traffic.report/internal/monitoring"

// Alert is a one-shot high-speed event for a single track.
type Alert struct {
	TrackID   int64       `json:"track_id"`
	Type      VehicleType `json:"type"`
	SpeedKmh  float64     `json:"speed"`
	Timestamp float64     `json:"timestamp"`
	Position  Point       `json:"position"`
}

// AlertEmitter raises at most one alert per track: when the smoothed
// speed first exceeds the threshold the track's Alerted latch is set
// and no further alerts fire, even if the speed rises further.
type AlertEmitter struct {
	ThresholdKmh float64
}

// Check inspects a track after a speed update and returns an alert if
// the latch fires. Alert emission is pure value production; persisting
// or transporting the alert is the caller's concern and can never
// abort the clip.
func (a *AlertEmitter) Check(tr *Track) (Alert, bool) {
	speed, ok := tr.Speed()
	if !ok || tr.Alerted || speed <= a.ThresholdKmh {
		return Alert{}, false
	}
	tr.Alerted = true

	pos := tr.LastPosition()
	alert := Alert{
		TrackID:   tr.ID,
		Type:      tr.Type,
		SpeedKmh:  speed,
		Timestamp: pos.T,
		Position:  Point{X: pos.X, Y: pos.Y},
	}
	monitoring.Logf("[SPEED ALERT] vehicle %d (%s) exceeded %.0f km/h: %.1f km/h at t=%.2fs position=(%.0f,%.0f)",
		alert.TrackID, alert.Type, a.ThresholdKmh, alert.SpeedKmh, alert.Timestamp, pos.X, pos.Y)
	return alert, true
}
