// Package stats reduces a clip's per-vehicle summary to the figures
// the reports and the API expose: counts, violations, direction and
// time-bucket breakdowns, and distribution statistics.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/roadmetrics/traffic.report/internal/track"
)

// Limits holds the per-class speed limits used to count violations.
type Limits struct {
	CarKmh   float64
	TruckKmh float64
}

// Exceeds reports whether the speed breaks the limit for the class.
func (l Limits) Exceeds(vt track.VehicleType, speedKmh float64) bool {
	switch vt {
	case track.VehicleCar:
		return speedKmh > l.CarKmh
	case track.VehicleTruck:
		return speedKmh > l.TruckKmh
	}
	return false
}

// DirectionStats is the vehicle count and mean speed for one travel
// direction.
type DirectionStats struct {
	Direction    track.Direction `json:"direction"`
	Count        int             `json:"count"`
	MeanSpeedKmh float64         `json:"mean_speed_kmh"`
}

// TimeBucket is the vehicle count and mean speed within one fixed-width
// interval of clip time. Buckets with no vehicles are omitted.
type TimeBucket struct {
	StartSeconds float64 `json:"start_s"`
	EndSeconds   float64 `json:"end_s"`
	Count        int     `json:"count"`
	MeanSpeedKmh float64 `json:"mean_speed_kmh"`
}

// ClipStats is the full statistical reduction of one clip.
type ClipStats struct {
	TotalVehicles int `json:"total_vehicles"`
	Cars          int `json:"cars"`
	Trucks        int `json:"trucks"`

	CarViolations   int `json:"car_violations"`
	TruckViolations int `json:"truck_violations"`
	TotalViolations int `json:"total_violations"`

	MeanSpeedKmh   float64 `json:"mean_speed_kmh"`
	MaxSpeedKmh    float64 `json:"max_speed_kmh"`
	P85SpeedKmh    float64 `json:"p85_speed_kmh"`
	StdDevSpeedKmh float64 `json:"stddev_speed_kmh"`

	Directions  []DirectionStats `json:"directions"`
	TimeBuckets []TimeBucket     `json:"time_buckets"`
}

// Compute reduces a per-vehicle summary. bucketSeconds is the width of
// the time buckets; values <= 0 disable time bucketing.
func Compute(summary track.Summary, limits Limits, bucketSeconds float64) ClipStats {
	cs := ClipStats{TotalVehicles: summary.TotalVehicles}
	if summary.TotalVehicles == 0 {
		return cs
	}

	speeds := make([]float64, 0, len(summary.Vehicles))
	byDirection := make(map[track.Direction][]float64)
	byBucket := make(map[int][]float64)

	for _, v := range summary.Vehicles {
		speeds = append(speeds, v.SpeedKmh)
		byDirection[v.Direction] = append(byDirection[v.Direction], v.SpeedKmh)
		if bucketSeconds > 0 {
			idx := int(math.Floor(v.Timestamp / bucketSeconds))
			byBucket[idx] = append(byBucket[idx], v.SpeedKmh)
		}

		switch v.Type {
		case track.VehicleCar:
			cs.Cars++
		case track.VehicleTruck:
			cs.Trucks++
		}
		if limits.Exceeds(v.Type, v.SpeedKmh) {
			cs.TotalViolations++
			if v.Type == track.VehicleCar {
				cs.CarViolations++
			} else {
				cs.TruckViolations++
			}
		}
	}

	sort.Float64s(speeds)
	cs.MeanSpeedKmh = stat.Mean(speeds, nil)
	cs.MaxSpeedKmh = speeds[len(speeds)-1]
	cs.P85SpeedKmh = stat.Quantile(0.85, stat.Empirical, speeds, nil)
	if len(speeds) > 1 {
		cs.StdDevSpeedKmh = stat.StdDev(speeds, nil)
	}

	// Fixed inbound/outbound order keeps the output stable.
	for _, dir := range []track.Direction{track.DirectionInbound, track.DirectionOutbound} {
		ds, ok := byDirection[dir]
		if !ok {
			continue
		}
		cs.Directions = append(cs.Directions, DirectionStats{
			Direction:    dir,
			Count:        len(ds),
			MeanSpeedKmh: stat.Mean(ds, nil),
		})
	}

	bucketIdx := make([]int, 0, len(byBucket))
	for idx := range byBucket {
		bucketIdx = append(bucketIdx, idx)
	}
	sort.Ints(bucketIdx)
	for _, idx := range bucketIdx {
		bs := byBucket[idx]
		cs.TimeBuckets = append(cs.TimeBuckets, TimeBucket{
			StartSeconds: float64(idx) * bucketSeconds,
			EndSeconds:   float64(idx+1) * bucketSeconds,
			Count:        len(bs),
			MeanSpeedKmh: stat.Mean(bs, nil),
		})
	}

	return cs
}
