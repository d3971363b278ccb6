// Package aec provides a Normalized Least Mean Squares (NLMS) acoustic echo
// canceller. An ingest-conditioning stage (see internal/ingest) feeds it a
// caller-supplied far-end reference Clip once and then runs one Process pass
// over the whole near-end Clip, rather than the streaming per-frame usage
// the filter was originally designed for. Stereo clips are cancelled as two
// independent mono channels — each plane of the Clip gets its own adaptive
// filter and its own far-end ring buffer, since left and right echo paths
// need not agree.
//
// Usage:
//
//	canceller := aec.New(clip.Len(), clip.Width())
//	canceller.FeedFarEnd(reference)
//	canceller.Process(&clip) // modifies clip in-place
package aec

import (
	"sync"

	"github.com/adazoulay/wgpu-signal-processor/internal/pcm"
)

const (
	// DefaultDelay is the bulk delay (samples) assumed between playback and the
	// echo arriving at the microphone. 1920 samples = 40 ms at 48 kHz, which
	// covers typical system latency (DAC + acoustic path + ADC).
	DefaultDelay = 1920

	// DefaultTaps is the NLMS filter length (samples). 480 samples = 10 ms at
	// 48 kHz. The filter handles residual delay and room response within this
	// window after the bulk delay.
	DefaultTaps = 480

	// DefaultStep is the NLMS step size mu (0 < mu < 2). Smaller values
	// converge more slowly but are more stable; 0.1 is conservative.
	DefaultStep = 0.1
)

// channelFilter is the NLMS state for a single Clip plane: its adaptive
// weights and its own far-end circular buffer, cancelled independently of
// any other channel's.
type channelFilter struct {
	weights []float64 // adaptive filter coefficients [tapLen]

	// Circular buffer for this channel's far-end (playback) reference signal.
	// Size = frameSize + delayLen + tapLen; large enough that the writer
	// (FeedFarEnd) and reader (Process) are always in disjoint regions.
	farBuf  []float32
	farHead int
}

func newChannelFilter(bufLen, tapLen int) *channelFilter {
	return &channelFilter{
		weights: make([]float64, tapLen),
		farBuf:  make([]float32, bufLen),
	}
}

// AEC is an NLMS-based acoustic echo canceller operating over a Clip's
// channel planes. The mutex is only held briefly, for the per-channel
// reference-window copy and for configuration changes; NLMS itself runs
// outside the lock.
type AEC struct {
	mu      sync.Mutex
	enabled bool

	channels []*channelFilter
	width    pcm.Width
	tapLen   int
	step     float64 // NLMS step size (mu)

	bufLen    int
	delayLen  int
	frameSize int
}

// New creates an AEC sized for a single pass over a clip of frameSize frames
// and the given channel width — the whole ingest buffer, not a fixed 20 ms
// streaming frame.
func New(frameSize int, width pcm.Width) *AEC {
	bufLen := frameSize + DefaultDelay + DefaultTaps
	channels := make([]*channelFilter, int(width))
	for i := range channels {
		channels[i] = newChannelFilter(bufLen, DefaultTaps)
	}
	return &AEC{
		enabled:   true,
		channels:  channels,
		width:     width,
		tapLen:    DefaultTaps,
		step:      DefaultStep,
		bufLen:    bufLen,
		delayLen:  DefaultDelay,
		frameSize: frameSize,
	}
}

// SetEnabled enables or disables echo cancellation. Enabling resets every
// channel's filter weights so each adapts cleanly from scratch.
func (a *AEC) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	if enabled {
		for _, ch := range a.channels {
			for i := range ch.weights {
				ch.weights[i] = 0
			}
		}
	}
	a.mu.Unlock()
}

// FeedFarEnd stores ref as the far-end reference signal, one plane per
// channel. Called once by ingest conditioning, before Process, with the
// caller-supplied reference clip for the whole buffer being conditioned. ref
// is de-interleaved via its own Planes so a mono reference still feeds every
// channel of a stereo near-end clip.
func (a *AEC) FeedFarEnd(ref pcm.Clip) {
	planes := ref.Planes()
	a.mu.Lock()
	for i, ch := range a.channels {
		plane := planes[0]
		if i < len(planes) {
			plane = planes[i]
		}
		for _, s := range plane {
			ch.farBuf[ch.farHead] = s
			ch.farHead = (ch.farHead + 1) % a.bufLen
		}
	}
	a.mu.Unlock()
}

// Process applies echo cancellation to c in-place, independently for each
// channel plane — in ingest conditioning, c is the entire near-end clip
// rather than one 20 ms tick.
//
// The algorithm, run once per channel:
//  1. Copies the relevant far-end reference window (locked briefly).
//  2. Runs NLMS sample-by-sample outside the lock.
//  3. Output sample = near_end[i] − Σ w[k]*far_end[i+tapLen−1−k].
//     The NLMS update adapts the weights toward the actual echo path.
func (a *AEC) Process(c *pcm.Clip) {
	a.mu.Lock()
	if !a.enabled {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	planes := c.Planes()
	for i, ch := range a.channels {
		if i >= len(planes) {
			break
		}
		a.processChannel(ch, planes[i])
	}
	c.SetPlanes(planes)
}

func (a *AEC) processChannel(ch *channelFilter, frame []float32) {
	a.mu.Lock()
	// Copy the reference window into a contiguous slice so NLMS runs outside
	// the mutex. We need frameSize+tapLen−1 samples, starting at:
	//   startIdx = farHead − frameSize − delayLen − tapLen + 1
	// For sample i, tap k: ref[i + tapLen − 1 − k].
	refLen := a.frameSize + a.tapLen - 1
	ref := make([]float32, refLen)
	startIdx := ch.farHead - a.frameSize - a.delayLen - a.tapLen + 1
	for j := range refLen {
		// Add 3*bufLen to guarantee a positive dividend before modulo.
		idx := ((startIdx + j) % a.bufLen + 3*a.bufLen) % a.bufLen
		ref[j] = ch.farBuf[idx]
	}
	a.mu.Unlock()

	// NLMS processing: weights are only modified here (single goroutine per
	// channel, and channels are processed one at a time by Process).
	for i := range frame {
		// refBase: index into ref of the most-recent tap (k=0) for sample i.
		refBase := i + a.tapLen - 1

		// Compute filter output y and power of the reference vector.
		var y, powerSum float64
		for k := 0; k < a.tapLen; k++ {
			x := float64(ref[refBase-k])
			y += ch.weights[k] * x
			powerSum += x * x
		}

		// Error = near-end − echo estimate.
		e := float64(frame[i]) - y

		// Normalised weight update: w[k] += mu * e * x[k] / (||x||² + ε).
		if powerSum > 1e-10 {
			step := a.step * e / powerSum
			for k := 0; k < a.tapLen; k++ {
				ch.weights[k] += step * float64(ref[refBase-k])
			}
		}

		frame[i] = float32(e)
	}
}
