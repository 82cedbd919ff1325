package detect

import (
	"encoding/json"
	"fmt"
	"io"
)

// Writer emits FrameRecords as JSON Lines. Records must be written in
// timestamp order; the writer enforces the same monotonicity the
// reader does so a generated log is always readable.
type Writer struct {
	enc      *json.Encoder
	prevTime float64
	sawFrame bool
}

// NewWriter wraps an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one frame record.
func (w *Writer) Write(rec FrameRecord) error {
	if err := rec.validate(w.prevTime, w.sawFrame); err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("detect: encode frame %d: %w", rec.Frame, err)
	}
	w.prevTime = rec.Time
	w.sawFrame = true
	return nil
}
