package track

import "math"

// Direction labels a track's dominant travel direction relative to the
// camera. Derived from the whole position history, not the last two
// points, so single-frame jitter does not flip it.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Track is the accumulated state for one physical vehicle within a
// clip. Tracks are owned exclusively by their Store; the Matcher sets
// the per-frame Matched flag and appends positions, the SpeedEstimator
// appends to the speed window, and the AlertEmitter sets the Alerted
// latch. No other component mutates a track.
type Track struct {
	ID   int64
	Type VehicleType

	// Positions is append-only and strictly non-decreasing in T.
	Positions []Position

	// Matched is transient per-frame state: true iff a detection was
	// assigned to this track in the current frame.
	Matched bool

	// Alerted latches once the smoothed speed first exceeds the alert
	// threshold; it is never cleared within a clip.
	Alerted bool

	// LastSeen is the timestamp of the most recent matched detection.
	LastSeen float64

	// Confidence of the most recent matched detection.
	Confidence float64

	// Smoothed speed state, maintained by the SpeedEstimator.
	speedHistory []float64
	speedKmh     float64
	speedValid   bool
}

// Speed returns the current smoothed speed in km/h. The boolean is
// false until at least one valid speed sample has been recorded.
func (t *Track) Speed() (float64, bool) {
	return t.speedKmh, t.speedValid
}

// SpeedHistory returns a copy of the bounded window of recent valid
// speed samples (km/h), oldest first.
func (t *Track) SpeedHistory() []float64 {
	if t.speedHistory == nil {
		return nil
	}
	out := make([]float64, len(t.speedHistory))
	copy(out, t.speedHistory)
	return out
}

// recordSpeedSample appends a valid sample to the FIFO window, evicting
// the oldest when the window is full, and recomputes the smoothed speed
// as the arithmetic mean of the window. Only the SpeedEstimator calls
// this.
func (t *Track) recordSpeedSample(sampleKmh float64, window int) {
	t.speedHistory = append(t.speedHistory, sampleKmh)
	if len(t.speedHistory) > window {
		t.speedHistory = t.speedHistory[1:]
	}
	var sum float64
	for _, s := range t.speedHistory {
		sum += s
	}
	t.speedKmh = sum / float64(len(t.speedHistory))
	t.speedValid = true
}

// Direction derives the travel direction from the displacement between
// the first and most recent recorded positions: the dominant axis
// (larger of |dx|, |dy|) decides, and a negative displacement on that
// axis means inbound.
func (t *Track) Direction() Direction {
	if len(t.Positions) < 2 {
		return DirectionOutbound
	}
	first := t.Positions[0]
	last := t.Positions[len(t.Positions)-1]
	dx := last.X - first.X
	dy := last.Y - first.Y
	if (math.Abs(dx) > math.Abs(dy) && dx < 0) || (math.Abs(dy) >= math.Abs(dx) && dy < 0) {
		return DirectionInbound
	}
	return DirectionOutbound
}

// LastPosition returns the most recent position. Panics on a track with
// no positions, which cannot occur for a Store-allocated track.
func (t *Track) LastPosition() Position {
	return t.Positions[len(t.Positions)-1]
}
