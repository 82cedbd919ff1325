package detect

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineBytes bounds one JSON line. A 4K-video frame crowded with
// detections stays well under this.
const maxLineBytes = 4 << 20

// Reader streams FrameRecords from a JSON Lines detection log. It
// enforces non-decreasing timestamps and rejects a log that ends
// without a single frame. Not safe for concurrent use.
type Reader struct {
	scanner  *bufio.Scanner
	line     int
	prevTime float64
	sawFrame bool
}

// NewReader wraps an io.Reader producing JSON Lines frame records.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: sc}
}

// Next returns the next frame record. It returns io.EOF after the last
// record, or ErrEmptyLog if the stream ended before any record.
func (r *Reader) Next() (FrameRecord, error) {
	for r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec FrameRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return FrameRecord{}, fmt.Errorf("detect: line %d: %w", r.line, err)
		}
		if err := rec.validate(r.prevTime, r.sawFrame); err != nil {
			return FrameRecord{}, fmt.Errorf("detect: line %d: %w", r.line, err)
		}
		r.prevTime = rec.Time
		r.sawFrame = true
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return FrameRecord{}, fmt.Errorf("detect: read: %w", err)
	}
	if !r.sawFrame {
		return FrameRecord{}, ErrEmptyLog
	}
	return FrameRecord{}, io.EOF
}

// ReadAll drains the reader into a slice. Intended for tests and small
// logs; the pipeline streams with Next.
func (r *Reader) ReadAll() ([]FrameRecord, error) {
	var frames []FrameRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, rec)
	}
}

// OpenFile opens a detection log on disk and returns a Reader plus a
// closer for the underlying file.
func OpenFile(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("detect: open %s: %w", path, err)
	}
	return NewReader(f), f, nil
}
