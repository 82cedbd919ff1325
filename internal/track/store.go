package track

import "sort"

// Store owns the set of live tracks for one clip and hands out track
// ids. Ids are positive, monotonically assigned, and never reused
// within a clip, even after a track is pruned. The allocation counter
// never decreases.
type Store struct {
	tracks map[int64]*Track
	nextID int64
}

// NewStore creates an empty store for one clip.
func NewStore() *Store {
	return &Store{
		tracks: make(map[int64]*Track),
		nextID: 1,
	}
}

// Allocate creates a new track with a fresh id, seeded with a single
// position. The new track starts matched (its originating detection is
// the current frame's) with an empty speed history.
func (s *Store) Allocate(typ VehicleType, cx, cy, timestamp, confidence float64) *Track {
	tr := &Track{
		ID:         s.nextID,
		Type:       typ,
		Positions:  []Position{{X: cx, Y: cy, T: timestamp}},
		Matched:    true,
		LastSeen:   timestamp,
		Confidence: confidence,
	}
	s.nextID++
	s.tracks[tr.ID] = tr
	return tr
}

// Prune removes every track that is unmatched in the current frame and
// has been unseen for at least the grace period. Runs once per frame
// after matching. Removal is final; ids are never recycled. Returns the
// number of tracks removed.
func (s *Store) Prune(now, gracePeriod float64) int {
	removed := 0
	for id, tr := range s.tracks {
		if !tr.Matched && now-tr.LastSeen >= gracePeriod {
			delete(s.tracks, id)
			removed++
		}
	}
	return removed
}

// Get returns the track with the given id, or nil.
func (s *Store) Get(id int64) *Track {
	return s.tracks[id]
}

// Len returns the number of live tracks.
func (s *Store) Len() int {
	return len(s.tracks)
}

// NextID returns the id the next allocation will receive. Exposed for
// invariant checks in tests.
func (s *Store) NextID() int64 {
	return s.nextID
}

// Tracks returns the live tracks in ascending id order. Map iteration
// order is randomised in Go, so every consumer that cares about
// determinism (the matcher's tie-break above all) goes through this.
func (s *Store) Tracks() []*Track {
	out := make([]*Track, 0, len(s.tracks))
	for _, tr := range s.tracks {
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
