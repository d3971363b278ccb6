package audiograph

import "github.com/adazoulay/wgpu-signal-processor/internal/pcm"

// Width identifies how many channels a Frame carries.
type Width = pcm.Width

const (
	// Mono frames carry a single channel.
	Mono = pcm.Mono
	// Stereo frames carry left/right channels.
	Stereo = pcm.Stereo
)

// Frame is a fixed-width tuple of f32 samples: one value for Mono, two for
// Stereo. A processor is monomorphic in frame width for its lifetime.
//
// Frame is a type alias onto internal/pcm.Frame. That package is what lets
// the DSP conditioners internal/ingest wires in ahead of this one
// (internal/aec, internal/agc, internal/noisegate) operate directly on
// Frame/Clip without an import cycle back to this package.
type Frame = pcm.Frame

// MonoFrame builds a single-channel frame.
func MonoFrame(v float32) Frame { return pcm.MonoFrame(v) }

// StereoFrame builds a two-channel frame.
func StereoFrame(l, r float32) Frame { return pcm.StereoFrame(l, r) }
