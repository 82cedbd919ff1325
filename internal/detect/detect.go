// Package detect reads and writes detection logs: the serialized
// output of the external video detector, stored as JSON Lines with one
// frame record per line. The reader is the engine's sole frame source;
// the writer backs the synthetic log generator.
package detect

import (
	"errors"
	"fmt"

	"github.com/roadmetrics/traffic.report/internal/track"
)

// FileExtension is the extension for detection log files.
const FileExtension = ".detlog"

// ErrEmptyLog is returned when a detection log contains no frame
// records at all. A clip that never produced a single frame is a
// pipeline fault, not an empty road.
var ErrEmptyLog = errors.New("detect: log contains no frames")

// FrameRecord is one video frame's worth of detector output.
type FrameRecord struct {
	Frame      int               `json:"frame"`
	Time       float64           `json:"time"` // seconds since clip start
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Detections []track.Detection `json:"detections"`
}

// Filter drops detections the engine does not track: confidence below
// the threshold or a class id outside the vehicle classes. The input
// slice is not modified.
func Filter(detections []track.Detection, minConfidence float64) []track.Detection {
	var kept []track.Detection
	for _, d := range detections {
		if d.Confidence < minConfidence {
			continue
		}
		if !track.IsVehicleClass(d.ClassID) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func (r FrameRecord) validate(prevTime float64, sawFrame bool) error {
	if r.Time < 0 {
		return fmt.Errorf("frame %d: negative timestamp %f", r.Frame, r.Time)
	}
	if sawFrame && r.Time < prevTime {
		return fmt.Errorf("frame %d: timestamp %f precedes previous frame at %f", r.Frame, r.Time, prevTime)
	}
	return nil
}
