// Package pcm holds the engine's frame/clip primitives (Frame, Clip) in a
// package the root audiograph package and its DSP-conditioning subpackages
// (internal/aec, internal/agc, internal/noisegate) can both import without
// creating a cycle: the root package depends on internal/ingest, which
// depends on the conditioners, which depend on this package — never back on
// the root package itself. audiograph.Frame and audiograph.Clip are type
// aliases onto the types defined here.
package pcm

// Width identifies how many channels a Frame carries.
type Width int

const (
	// Mono frames carry a single channel.
	Mono Width = 1
	// Stereo frames carry left/right channels.
	Stereo Width = 2
)

// Frame is a fixed-width tuple of f32 samples: one value for Mono, two for
// Stereo. A processor is monomorphic in frame width for its lifetime.
type Frame struct {
	width Width
	l, r  float32
}

// MonoFrame builds a single-channel frame.
func MonoFrame(v float32) Frame {
	return Frame{width: Mono, l: v}
}

// StereoFrame builds a two-channel frame.
func StereoFrame(l, r float32) Frame {
	return Frame{width: Stereo, l: l, r: r}
}

// Width reports how many channels f carries.
func (f Frame) Width() Width { return f.width }

// Left returns the single sample of a mono frame, or the left channel of a
// stereo frame.
func (f Frame) Left() float32 { return f.l }

// Right returns the right channel of a stereo frame. Zero for mono.
func (f Frame) Right() float32 { return f.r }

// Samples returns the frame's channel values as a slice, length 1 or 2.
func (f Frame) Samples() []float32 {
	if f.width == Stereo {
		return []float32{f.l, f.r}
	}
	return []float32{f.l}
}

// Equilibrium returns the zero frame for w.
func Equilibrium(w Width) Frame {
	return Frame{width: w}
}

// Add returns the frame-wise sum of a and b. Both must share width.
func Add(a, b Frame) Frame {
	return Frame{width: a.width, l: a.l + b.l, r: a.r + b.r}
}

// Sub returns the frame-wise difference a - b.
func Sub(a, b Frame) Frame {
	return Frame{width: a.width, l: a.l - b.l, r: a.r - b.r}
}

// Mul returns the frame-wise product a * b.
func Mul(a, b Frame) Frame {
	return Frame{width: a.width, l: a.l * b.l, r: a.r * b.r}
}

// Scale returns a scaled by k.
func Scale(a Frame, k float32) Frame {
	return Frame{width: a.width, l: a.l * k, r: a.r * k}
}

// Lerp linearly interpolates between a and b at t in [0, 1].
func Lerp(a, b Frame, t float32) Frame {
	return Frame{width: a.width, l: a.l + (b.l-a.l)*t, r: a.r + (b.r-a.r)*t}
}
