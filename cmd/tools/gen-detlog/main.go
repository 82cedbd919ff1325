// Command gen-detlog generates synthetic .detlog detection logs for
// testing and demos: a handful of vehicles crossing the frame at fixed
// speeds, one of them fast enough to trip the speed alert.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/roadmetrics/traffic.report/internal/detect"
	"github.com/roadmetrics/traffic.report/internal/track"
)

// vehicle is one synthetic actor: it enters at a frame offset and
// moves at a fixed pixel velocity.
type vehicle struct {
	classID    int
	enterFrame int
	exitFrame  int
	x, y       float64
	dx, dy     float64
	confidence float64
}

func main() {
	output := flag.String("o", "sample.detlog", "output path")
	frames := flag.Int("n", 250, "number of frames")
	fps := flag.Float64("fps", 25, "frames per second")
	seed := flag.Int64("seed", 1, "jitter seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	dt := 1.0 / *fps

	// Pixel velocities assume the default 12.25 px/m calibration:
	// 10 px/frame at 25 fps is roughly 73 km/h, 20 px/frame tops 145
	// km/h and raises an alert.
	actors := []vehicle{
		{classID: track.ClassIDCar, enterFrame: 0, exitFrame: 120, x: 0, y: 200, dx: 10, confidence: 0.92},
		{classID: track.ClassIDTruck, enterFrame: 30, exitFrame: 200, x: 1280, y: 400, dx: -8, confidence: 0.85},
		{classID: track.ClassIDCar, enterFrame: 80, exitFrame: 150, x: 0, y: 300, dx: 20, confidence: 0.88},
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	w := detect.NewWriter(f)
	for i := 0; i < *frames; i++ {
		rec := detect.FrameRecord{
			Frame:  i,
			Time:   dt * float64(i),
			Width:  1280,
			Height: 720,
		}
		for _, a := range actors {
			if i < a.enterFrame || i > a.exitFrame {
				continue
			}
			steps := float64(i - a.enterFrame)
			jx := rng.Float64()*2 - 1
			jy := rng.Float64()*2 - 1
			rec.Detections = append(rec.Detections, track.Detection{
				X:          a.x + a.dx*steps + jx,
				Y:          a.y + a.dy*steps + jy,
				W:          60,
				H:          30,
				Confidence: a.confidence,
				ClassID:    a.classID,
			})
		}
		if err := w.Write(rec); err != nil {
			log.Fatalf("failed to write frame %d: %v", i, err)
		}
	}
	log.Printf("✓ Created: %s (%d frames)", *output, *frames)
}
