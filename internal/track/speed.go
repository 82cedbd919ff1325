package track

import "math"

// SpeedEstimator converts consecutive centroid positions into smoothed
// per-track speeds. Pixel displacement is scaled to metres by the
// clip's calibration constant, divided by elapsed time, and converted
// to km/h. Samples outside the plausibility band are discarded; the
// track keeps its prior smoothed speed.
type SpeedEstimator struct {
	PixelsPerMeter  float64
	MinSpeedKmh     float64
	MaxSpeedKmh     float64
	SmoothingWindow int
}

// Observe computes a candidate instantaneous speed from the track's
// two most recent positions and folds it into the smoothed speed.
// Returns the raw sample and whether it was recorded. Non-positive
// elapsed time (duplicate or out-of-order frames) and samples outside
// [MinSpeedKmh, MaxSpeedKmh] yield recorded == false and leave the
// track untouched.
func (e *SpeedEstimator) Observe(tr *Track) (sampleKmh float64, recorded bool) {
	n := len(tr.Positions)
	if n < 2 {
		return 0, false
	}
	prev := tr.Positions[n-2]
	curr := tr.Positions[n-1]

	elapsed := curr.T - prev.T
	if elapsed <= 0 {
		return 0, false
	}

	pixels := math.Hypot(curr.X-prev.X, curr.Y-prev.Y)
	meters := pixels / e.PixelsPerMeter
	sampleKmh = (meters / elapsed) * 3.6

	if sampleKmh <= e.MinSpeedKmh || sampleKmh >= e.MaxSpeedKmh {
		return sampleKmh, false
	}

	tr.recordSpeedSample(sampleKmh, e.SmoothingWindow)
	return sampleKmh, true
}
