package detect

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/roadmetrics/traffic.report/internal/track"
)

const sampleLog = `{"frame":0,"time":0.0,"width":1280,"height":720,"detections":[{"x":100,"y":100,"w":40,"h":20,"confidence":0.9,"class_id":2}]}
{"frame":1,"time":0.04,"width":1280,"height":720,"detections":[]}
{"frame":2,"time":0.08,"width":1280,"height":720,"detections":[{"x":104,"y":100,"w":40,"h":20,"confidence":0.85,"class_id":7}]}
`

func TestReaderStreamsFrames(t *testing.T) {
	r := NewReader(strings.NewReader(sampleLog))

	frames, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	if frames[0].Frame != 0 || frames[0].Time != 0.0 {
		t.Errorf("frame 0 = %+v", frames[0])
	}
	if len(frames[0].Detections) != 1 || frames[0].Detections[0].ClassID != track.ClassIDCar {
		t.Errorf("frame 0 detections = %+v", frames[0].Detections)
	}
	if frames[2].Detections[0].ClassID != track.ClassIDTruck {
		t.Errorf("frame 2 detections = %+v", frames[2].Detections)
	}
}

func TestReaderSkipsBlankLines(t *testing.T) {
	log := "\n" + sampleLog + "\n\n"
	frames, err := NewReader(strings.NewReader(log)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Errorf("got %d frames, want 3", len(frames))
	}
}

func TestReaderEmptyLog(t *testing.T) {
	_, err := NewReader(strings.NewReader("")).Next()
	if !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("got %v, want ErrEmptyLog", err)
	}

	// Whitespace-only counts as empty too.
	_, err = NewReader(strings.NewReader("\n  \n")).Next()
	if !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("whitespace-only log: got %v, want ErrEmptyLog", err)
	}
}

func TestReaderRejectsOutOfOrderTimestamps(t *testing.T) {
	log := `{"frame":0,"time":1.0,"width":1280,"height":720,"detections":[]}
{"frame":1,"time":0.5,"width":1280,"height":720,"detections":[]}
`
	r := NewReader(strings.NewReader(log))
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for regressing timestamp")
	}
}

func TestReaderRejectsMalformedLine(t *testing.T) {
	r := NewReader(strings.NewReader("{not json}\n"))
	_, err := r.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("got %v, want a decode error", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestFilter(t *testing.T) {
	dets := []track.Detection{
		{X: 0, Y: 0, W: 10, H: 10, Confidence: 0.9, ClassID: track.ClassIDCar},
		{X: 0, Y: 0, W: 10, H: 10, Confidence: 0.3, ClassID: track.ClassIDCar},  // low confidence
		{X: 0, Y: 0, W: 10, H: 10, Confidence: 0.9, ClassID: 0},                 // person
		{X: 0, Y: 0, W: 10, H: 10, Confidence: 0.6, ClassID: track.ClassIDTruck}, // at threshold
	}

	kept := Filter(dets, 0.6)
	if len(kept) != 2 {
		t.Fatalf("got %d detections, want 2", len(kept))
	}
	if kept[0].ClassID != track.ClassIDCar || kept[1].ClassID != track.ClassIDTruck {
		t.Errorf("kept = %+v", kept)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	want := []FrameRecord{
		{Frame: 0, Time: 0.0, Width: 1280, Height: 720},
		{Frame: 1, Time: 0.04, Width: 1280, Height: 720, Detections: []track.Detection{
			{X: 100, Y: 100, W: 40, H: 20, Confidence: 0.9, ClassID: track.ClassIDCar},
		}},
	}
	for _, rec := range want {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d frames back, want %d", len(got), len(want))
	}
	if len(got[1].Detections) != 1 || got[1].Detections[0].Confidence != 0.9 {
		t.Errorf("frame 1 = %+v", got[1])
	}
}

func TestWriterRejectsRegression(t *testing.T) {
	w := NewWriter(io.Discard)
	if err := w.Write(FrameRecord{Frame: 0, Time: 1.0}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(FrameRecord{Frame: 1, Time: 0.5}); err == nil {
		t.Fatal("expected error for regressing timestamp")
	}
}
