package track

import "sort"

// Summary is the clip-level reduction of the per-frame result stream:
// one record per physical vehicle plus the total count.
type Summary struct {
	Vehicles      []Result `json:"vehicles"`
	TotalVehicles int      `json:"total_vehicles"`
}

// Aggregate collapses an ordered sequence of per-frame results into
// one record per track id, keeping the record with the maximum speed
// (ties broken by the later timestamp). The result stream may be
// partial (cancelled clip); the reduction is valid regardless.
// Vehicles are returned in ascending id order for stable output.
func Aggregate(results []Result) Summary {
	best := make(map[int64]Result)
	for _, r := range results {
		prev, seen := best[r.ID]
		if !seen || r.SpeedKmh > prev.SpeedKmh ||
			(r.SpeedKmh == prev.SpeedKmh && r.Timestamp > prev.Timestamp) {
			best[r.ID] = r
		}
	}

	vehicles := make([]Result, 0, len(best))
	for _, r := range best {
		vehicles = append(vehicles, r)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })

	return Summary{
		Vehicles:      vehicles,
		TotalVehicles: len(vehicles),
	}
}
