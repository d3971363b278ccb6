package audiograph

import "github.com/adazoulay/wgpu-signal-processor/internal/pcm"

// Clip is a contiguous sequence of frames with a sample rate and an absolute
// start time, expressed in frames from a notional timeline origin. It owns
// its frame buffer outright — no clip is ever aliased between nodes.
//
// Clip is a type alias onto internal/pcm.Clip; see frame.go for why that
// indirection exists.
type Clip = pcm.Clip

// NewClip builds a Clip from interleaved samples. For Mono, samples is one
// value per frame; for Stereo, samples is interleaved L,R pairs and must
// have even length. Start time defaults to 0.
func NewClip(samples []float32, rate uint32, width Width) Clip {
	return pcm.NewClip(samples, rate, width)
}

// WithCapacity returns a zero-filled clip of length n at the given rate.
func WithCapacity(n int, rate uint32, width Width) Clip {
	return pcm.WithCapacity(n, rate, width)
}
