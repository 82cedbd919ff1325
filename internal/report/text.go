package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the human-readable clip summary.
func WriteText(w io.Writer, doc *Document) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Traffic report: %s\n", doc.Clip)
	fmt.Fprintf(&b, "Processed: %s (run %s)\n", doc.ProcessedAt.Format("2006-01-02 15:04:05 MST"), doc.RunID)
	if doc.Video.Frames > 0 {
		fmt.Fprintf(&b, "Video: %dx%d, %d frames, %.1fs\n",
			doc.Video.Width, doc.Video.Height, doc.Video.Frames, doc.Video.DurationSeconds)
	}
	b.WriteString("\n")

	s := doc.Stats
	fmt.Fprintf(&b, "Vehicles: %d (%d cars, %d trucks)\n", s.TotalVehicles, s.Cars, s.Trucks)
	fmt.Fprintf(&b, "Speed violations: %d (%d cars, %d trucks)\n",
		s.TotalViolations, s.CarViolations, s.TruckViolations)
	fmt.Fprintf(&b, "Alerts: %d\n", len(doc.Alerts))

	if s.TotalVehicles > 0 {
		fmt.Fprintf(&b, "\nSpeeds (km/h): mean %.1f, max %.1f, 85th percentile %.1f\n",
			s.MeanSpeedKmh, s.MaxSpeedKmh, s.P85SpeedKmh)
	}

	if len(s.Directions) > 0 {
		b.WriteString("\nBy direction:\n")
		for _, d := range s.Directions {
			fmt.Fprintf(&b, "  %-9s %4d vehicles, mean %.1f km/h\n", d.Direction, d.Count, d.MeanSpeedKmh)
		}
	}

	if len(s.TimeBuckets) > 0 {
		b.WriteString("\nBy time:\n")
		for _, tb := range s.TimeBuckets {
			fmt.Fprintf(&b, "  %6.0fs - %6.0fs: %4d vehicles, mean %.1f km/h\n",
				tb.StartSeconds, tb.EndSeconds, tb.Count, tb.MeanSpeedKmh)
		}
	}

	if len(doc.Alerts) > 0 {
		b.WriteString("\nAlerts:\n")
		for _, a := range doc.Alerts {
			fmt.Fprintf(&b, "  t=%7.2fs vehicle %d (%s) at %.1f km/h\n",
				a.Timestamp, a.TrackID, a.Type, a.SpeedKmh)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
