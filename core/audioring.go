package realtime

// AudioRing accumulates streamed PCM16 samples in a fixed-capacity
// circular buffer. Once more than its capacity has been written, the
// oldest samples are evicted one-for-one, so it always holds the most
// recent window. Appends are O(chunk length); nothing is ever shifted.
type AudioRing struct {
	samples []int16
	start   int
	length  int
}

// NewAudioRing returns a ring holding at most capacity samples.
func NewAudioRing(capacity int) *AudioRing {
	if capacity < 1 {
		capacity = 1
	}
	return &AudioRing{samples: make([]int16, capacity)}
}

// Append writes chunk into the ring, evicting the oldest samples on
// overflow. A chunk larger than the capacity keeps its trailing window.
func (r *AudioRing) Append(chunk []int16) {
	capacity := len(r.samples)
	if len(chunk) >= capacity {
		copy(r.samples, chunk[len(chunk)-capacity:])
		r.start = 0
		r.length = capacity
		return
	}

	end := (r.start + r.length) % capacity
	copied := copy(r.samples[end:], chunk)
	copy(r.samples, chunk[copied:])

	r.length += len(chunk)
	if r.length > capacity {
		r.start = (r.start + r.length - capacity) % capacity
		r.length = capacity
	}
}

// Snapshot returns the held samples in chronological order, oldest first.
// The ring is not mutated and the returned slice is freshly allocated.
func (r *AudioRing) Snapshot() []int16 {
	snapshot := make([]int16, r.length)
	copied := copy(snapshot, r.samples[r.start:min(r.start+r.length, len(r.samples))])
	copy(snapshot[copied:], r.samples[:r.length-copied])
	return snapshot
}

// Len reports how many samples the ring currently holds.
func (r *AudioRing) Len() int { return r.length }

// Capacity reports the fixed sample capacity.
func (r *AudioRing) Capacity() int { return len(r.samples) }

// Clear resets the ring to empty without releasing its storage.
func (r *AudioRing) Clear() {
	r.start = 0
	r.length = 0
}
