package track

import "testing"

func TestDirectionDominantAxis(t *testing.T) {
	tests := []struct {
		name      string
		positions []Position
		want      Direction
	}{
		{
			"positive x dominant",
			[]Position{{100, 100, 0}, {110, 101, 0.04}, {120, 102, 0.08}},
			DirectionOutbound,
		},
		{
			"negative x dominant",
			[]Position{{120, 100, 0}, {110, 101, 0.04}, {100, 102, 0.08}},
			DirectionInbound,
		},
		{
			"negative y dominant",
			[]Position{{100, 300, 0}, {101, 200, 0.04}, {102, 100, 0.08}},
			DirectionInbound,
		},
		{
			"positive y dominant",
			[]Position{{100, 100, 0}, {101, 200, 0.04}, {102, 300, 0.08}},
			DirectionOutbound,
		},
		{
			"equal magnitudes prefer y axis",
			[]Position{{100, 100, 0}, {150, 50, 0.04}},
			DirectionInbound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := trackWithPositions(tc.positions...)
			if got := tr.Direction(); got != tc.want {
				t.Errorf("Direction() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDirectionUsesWholeHistory(t *testing.T) {
	// A single-frame jitter backwards must not flip the direction:
	// first-to-last displacement stays positive.
	tr := trackWithPositions(
		Position{100, 100, 0.00},
		Position{120, 100, 0.04},
		Position{115, 100, 0.08}, // jitter
		Position{140, 100, 0.12},
	)
	if got := tr.Direction(); got != DirectionOutbound {
		t.Errorf("Direction() = %q, want outbound despite mid-history jitter", got)
	}
}

func TestSpeedUndefinedUntilFirstSample(t *testing.T) {
	tr := trackWithPositions(Position{100, 100, 0})
	if _, ok := tr.Speed(); ok {
		t.Error("speed defined on a track with no samples")
	}
	tr.recordSpeedSample(50, 3)
	speed, ok := tr.Speed()
	if !ok || speed != 50 {
		t.Errorf("Speed() = (%v, %v), want (50, true)", speed, ok)
	}
}

func TestSpeedHistoryReturnsCopy(t *testing.T) {
	tr := trackWithPositions(Position{100, 100, 0})
	tr.recordSpeedSample(50, 3)

	h := tr.SpeedHistory()
	h[0] = 999

	if got := tr.SpeedHistory()[0]; got != 50 {
		t.Errorf("mutating the returned history leaked into the track: %v", got)
	}
}
