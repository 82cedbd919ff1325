// Package track owns the per-clip vehicle tracking engine: greedy
// detection-to-track association, track lifecycle, pixel-to-real-world
// speed estimation with temporal smoothing, one-shot high-speed
// alerting, and end-of-clip per-vehicle aggregation.
//
// One Store owns all tracks for one clip; the processing of a clip is
// strictly sequential frame by frame. Clips are independent, so many
// clips may be processed concurrently with one engine each.
//
// No SQL/database code is allowed in this package.
package track
