package track

// Result is one per-frame observation record for a qualifying track:
// matched this frame, smoothed speed defined, and enough accumulated
// history to resist jitter.
type Result struct {
	ID         int64       `json:"id"`
	Type       VehicleType `json:"type"`
	Direction  Direction   `json:"direction"`
	SpeedKmh   float64     `json:"speed"`
	Timestamp  float64     `json:"timestamp"`
	Position   Point       `json:"position"`
	Confidence float64     `json:"confidence"`
}

// Processor drives one frame through the Matcher, SpeedEstimator and
// AlertEmitter, producing zero or more Results and Alerts. One
// Processor (with its Store) serves exactly one clip and must be used
// from a single goroutine; frames must arrive in timestamp order.
type Processor struct {
	params    Params
	store     *Store
	matcher   *Matcher
	estimator *SpeedEstimator
	alerter   *AlertEmitter
}

// NewProcessor validates params and assembles a per-clip engine.
func NewProcessor(params Params) (*Processor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	store := NewStore()
	return &Processor{
		params: params,
		store:  store,
		matcher: &Matcher{
			Store:           store,
			DistanceGatePx:  params.DistanceGatePx,
			TimeGateSeconds: params.TimeGateSeconds,
		},
		estimator: &SpeedEstimator{
			PixelsPerMeter:  params.PixelsPerMeter,
			MinSpeedKmh:     params.MinSpeedKmh,
			MaxSpeedKmh:     params.MaxSpeedKmh,
			SmoothingWindow: params.SmoothingWindow,
		},
		alerter: &AlertEmitter{ThresholdKmh: params.AlertThresholdKmh},
	}, nil
}

// Store exposes the clip's track store for inspection (tests, stats).
func (p *Processor) Store() *Store {
	return p.store
}

// ProcessFrame runs one frame: associate detections, update speeds,
// raise alerts, emit qualifying results, then prune stale tracks.
// A frame with no detections simply fails to match every track and
// proceeds straight to pruning.
func (p *Processor) ProcessFrame(detections []Detection, frameTime float64) ([]Result, []Alert) {
	assignments := p.matcher.MatchFrame(detections, frameTime)

	var results []Result
	var alerts []Alert
	for _, as := range assignments {
		if !as.Continued {
			continue // fresh track: single position, nothing to estimate
		}
		tr := as.Track
		p.estimator.Observe(tr)
		if alert, ok := p.alerter.Check(tr); ok {
			alerts = append(alerts, alert)
		}

		speed, ok := tr.Speed()
		if !ok || len(tr.Positions) < p.params.MinPositionsForResult {
			continue
		}
		pos := tr.LastPosition()
		results = append(results, Result{
			ID:         tr.ID,
			Type:       tr.Type,
			Direction:  tr.Direction(),
			SpeedKmh:   speed,
			Timestamp:  frameTime,
			Position:   Point{X: pos.X, Y: pos.Y},
			Confidence: as.Detection.Confidence,
		})
	}

	p.store.Prune(frameTime, p.params.GracePeriodSeconds)
	return results, alerts
}
