package audio

// StereoFrame is one sample-frame after channel up/down-mixing
type StereoFrame struct {
	Left  int16
	Right int16
}

// RingBuffer is a fixed-capacity circular buffer of StereoFrames.
// Pushing into a full buffer overwrites the oldest frame.
type RingBuffer struct {
	frames []StereoFrame
	head   int // next write index
	size   int
}

// NewRingBuffer allocates a ring holding up to capacity frames
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		panic("audio: ring buffer capacity must be positive")
	}
	return &RingBuffer{frames: make([]StereoFrame, capacity)}
}

// Push appends f, evicting the oldest frame when the buffer is full
func (r *RingBuffer) Push(f StereoFrame) {
	r.frames[r.head] = f
	r.head++
	if r.head == len(r.frames) {
		r.head = 0
	}
	if r.size < len(r.frames) {
		r.size++
	}
}

// Len returns the number of frames currently held
func (r *RingBuffer) Len() int {
	return r.size
}

// Cap returns the fixed capacity
func (r *RingBuffer) Cap() int {
	return len(r.frames)
}

// Peek copies the most recent min(len(dst), Len()) frames into dst, oldest
// first, without consuming them. Returns the number of frames copied.
func (r *RingBuffer) Peek(dst []StereoFrame) int {
	n := min(len(dst), r.size)
	if n == 0 {
		return 0
	}

	start := r.head - n
	if start < 0 {
		start += len(r.frames)
	}

	// At most two contiguous segments
	copied := copy(dst[:n], r.frames[start:])
	if copied < n {
		copy(dst[copied:n], r.frames[:n-copied])
	}
	return n
}
