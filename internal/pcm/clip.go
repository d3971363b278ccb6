package pcm

// Clip is a contiguous sequence of frames with a sample rate and an absolute
// start time, expressed in frames from a notional timeline origin. It owns
// its frame buffer outright — no clip is ever aliased between nodes.
type Clip struct {
	frames []Frame
	rate   uint32
	start  int
	width  Width
}

// NewClip builds a Clip from interleaved samples. For Mono, samples is one
// value per frame; for Stereo, samples is interleaved L,R pairs and must
// have even length. Start time defaults to 0.
func NewClip(samples []float32, rate uint32, width Width) Clip {
	switch width {
	case Stereo:
		frames := make([]Frame, len(samples)/2)
		for i := range frames {
			frames[i] = StereoFrame(samples[2*i], samples[2*i+1])
		}
		return Clip{frames: frames, rate: rate, width: Stereo}
	default:
		frames := make([]Frame, len(samples))
		for i, s := range samples {
			frames[i] = MonoFrame(s)
		}
		return Clip{frames: frames, rate: rate, width: Mono}
	}
}

// FromFrames builds a Clip directly from frames, taking ownership of the
// slice. Used by conditioning stages that need to slice an existing clip
// (internal/ingest's silence trim) without round-tripping through
// interleaved samples.
func FromFrames(frames []Frame, rate uint32, width Width) Clip {
	return Clip{frames: frames, rate: rate, width: width}
}

// WithCapacity returns a zero-filled clip of length n at the given rate.
func WithCapacity(n int, rate uint32, width Width) Clip {
	frames := make([]Frame, n)
	z := Equilibrium(width)
	for i := range frames {
		frames[i] = z
	}
	return Clip{frames: frames, rate: rate, width: width}
}

// Len returns the number of frames in the clip.
func (c Clip) Len() int { return len(c.frames) }

// Rate returns the clip's sample rate in Hz.
func (c Clip) Rate() uint32 { return c.rate }

// Start returns the clip's absolute start time in frames.
func (c Clip) Start() int { return c.start }

// SetStart sets the clip's absolute start time without touching its content.
func (c *Clip) SetStart(start int) { c.start = start }

// Width reports whether the clip is mono or stereo.
func (c Clip) Width() Width { return c.width }

// At returns the frame at clip-local index idx, and false if idx is out of
// bounds (the "absent" read policy of §4.1).
func (c Clip) At(idx int) (Frame, bool) {
	if idx < 0 || idx >= len(c.frames) {
		return Frame{}, false
	}
	return c.frames[idx], true
}

// Set overwrites the frame at clip-local index idx. Silently rejected
// out-of-bounds — write access past clip length is a precondition violation
// for internal callers, never a runtime condition on this path.
func (c *Clip) Set(idx int, f Frame) {
	if idx < 0 || idx >= len(c.frames) {
		return
	}
	c.frames[idx] = f
}

// Frames exposes the clip's backing slice for read-only iteration.
func (c Clip) Frames() []Frame { return c.frames }

// Clone returns a deep copy of c; used wherever a snapshot must not alias
// the original (commit's current→previous copy, §4.2).
func (c Clip) Clone() Clip {
	frames := make([]Frame, len(c.frames))
	copy(frames, c.frames)
	return Clip{frames: frames, rate: c.rate, start: c.start, width: c.width}
}

// Resample returns a new clip at targetRate. If rates already match, returns
// a clone. Otherwise linearly interpolates between consecutive frames; the
// final segment extrapolates with the last frame, matching the boundary
// policy the original Rust resampler (dasp's Linear interpolator) applies
// when it runs out of lookahead. Output length is
// ceil(len * targetRate / rate). Does not mutate c.
func (c Clip) Resample(targetRate uint32) Clip {
	if targetRate == c.rate || len(c.frames) == 0 {
		out := c.Clone()
		out.rate = targetRate
		return out
	}

	outLen := (len(c.frames)*int(targetRate) + int(c.rate) - 1) / int(c.rate)
	frames := make([]Frame, outLen)
	ratio := float64(c.rate) / float64(targetRate)

	for i := range frames {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := float32(srcPos - float64(idx))

		a := c.frames[idx]
		var b Frame
		if idx+1 < len(c.frames) {
			b = c.frames[idx+1]
		} else {
			// Extrapolate with the final frame once lookahead runs out.
			b = a
		}
		frames[i] = Lerp(a, b, frac)
	}

	return Clip{frames: frames, rate: targetRate, start: c.start, width: c.width}
}

// Resize grows or truncates the clip to newLen frames, preserving start
// time. Growth appends fill; shrink truncates from the end.
func (c *Clip) Resize(newLen int, fill Frame) {
	if newLen <= len(c.frames) {
		c.frames = c.frames[:newLen]
		return
	}
	grown := make([]Frame, newLen)
	copy(grown, c.frames)
	for i := len(c.frames); i < newLen; i++ {
		grown[i] = fill
	}
	c.frames = grown
}

// PadLeft prepends k zero-frames, increasing length by k. The clip's
// numeric start time is left unchanged here — per §4.2 it is the caller's
// responsibility (normalizeBounds) to adjust the logical start time to
// match, since PadLeft alone only knows it grew, not where it now begins.
func (c *Clip) PadLeft(k int) {
	if k <= 0 {
		return
	}
	grown := make([]Frame, len(c.frames)+k)
	z := Equilibrium(c.width)
	for i := 0; i < k; i++ {
		grown[i] = z
	}
	copy(grown[k:], c.frames)
	c.frames = grown
}

// Reset overwrites all frames with zero, preserving length, rate and start.
func (c *Clip) Reset() {
	z := Equilibrium(c.width)
	for i := range c.frames {
		c.frames[i] = z
	}
}

// ToStereo duplicates the mono channel into both stereo channels. No-op
// (returns a clone) if c is already stereo.
func (c Clip) ToStereo() Clip {
	if c.width == Stereo {
		return c.Clone()
	}
	frames := make([]Frame, len(c.frames))
	for i, f := range c.frames {
		frames[i] = StereoFrame(f.l, f.l)
	}
	return Clip{frames: frames, rate: c.rate, start: c.start, width: Stereo}
}

// ToMono averages L and R into a single channel. No-op (returns a clone) if
// c is already mono.
func (c Clip) ToMono() Clip {
	if c.width == Mono {
		return c.Clone()
	}
	frames := make([]Frame, len(c.frames))
	for i, f := range c.frames {
		frames[i] = MonoFrame((f.l + f.r) / 2.0)
	}
	return Clip{frames: frames, rate: c.rate, start: c.start, width: Mono}
}

// Planes de-interleaves c into one slice of samples per channel: length 1
// for Mono, 2 ([L, R]) for Stereo. Conditioning stages (internal/aec,
// internal/agc, internal/noisegate) run their single-channel algorithm
// independently over each plane rather than treating a stereo clip as one
// undifferentiated stream.
func (c Clip) Planes() [][]float32 {
	planes := make([][]float32, int(c.width))
	for ch := range planes {
		planes[ch] = make([]float32, len(c.frames))
	}
	for i, f := range c.frames {
		planes[0][i] = f.l
		if c.width == Stereo {
			planes[1][i] = f.r
		}
	}
	return planes
}

// SetPlanes overwrites c's content from per-channel sample planes of the
// same shape Planes would have produced for c.
func (c *Clip) SetPlanes(planes [][]float32) {
	for i := range c.frames {
		if c.width == Stereo && len(planes) > 1 {
			c.frames[i] = StereoFrame(planes[0][i], planes[1][i])
			continue
		}
		c.frames[i] = MonoFrame(planes[0][i])
	}
}
