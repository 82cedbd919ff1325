package track

import "math"

// Matcher associates one frame's detections with the store's live
// tracks using deterministic greedy nearest-neighbour assignment.
// Greedy first-detection-wins is an intentional O(tracks × detections)
// simplicity trade-off over optimal bipartite matching; per-frame
// object counts are small enough that it is acceptable.
type Matcher struct {
	Store           *Store
	DistanceGatePx  float64
	TimeGateSeconds float64
}

// Assignment records where one detection landed: an existing track
// (Continued) or a freshly allocated one.
type Assignment struct {
	Track     *Track
	Detection Detection
	Continued bool
}

// MatchFrame processes one frame's detections in the order supplied.
// Every existing track is first marked unmatched. Each detection then
// claims the nearest unmatched track whose last observation is within
// the time gate and whose centroid distance is below the distance
// gate; ties on distance break to the lowest track id (tracks are
// scanned in ascending id order with a strict less-than comparison).
// Detections with no candidate spawn a new track. Each track receives
// at most one detection per frame.
func (m *Matcher) MatchFrame(detections []Detection, frameTime float64) []Assignment {
	tracks := m.Store.Tracks()
	for _, tr := range tracks {
		tr.Matched = false
	}

	assignments := make([]Assignment, 0, len(detections))
	for _, det := range detections {
		cx, cy := det.Centroid()

		var best *Track
		minDist := math.Inf(1)
		for _, tr := range tracks {
			if tr.Matched {
				continue
			}
			if frameTime-tr.LastSeen >= m.TimeGateSeconds {
				continue
			}
			dist := math.Hypot(cx-tr.LastPosition().X, cy-tr.LastPosition().Y)
			if dist < m.DistanceGatePx && dist < minDist {
				best = tr
				minDist = dist
			}
		}

		if best != nil {
			best.Matched = true
			best.Positions = append(best.Positions, Position{X: cx, Y: cy, T: frameTime})
			best.LastSeen = frameTime
			best.Confidence = det.Confidence
			assignments = append(assignments, Assignment{Track: best, Detection: det, Continued: true})
			continue
		}

		fresh := m.Store.Allocate(VehicleTypeForClass(det.ClassID), cx, cy, frameTime, det.Confidence)
		assignments = append(assignments, Assignment{Track: fresh, Detection: det})
	}

	return assignments
}
