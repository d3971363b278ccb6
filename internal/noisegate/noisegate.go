// Package noisegate implements a hard noise gate for float32 PCM audio Clips.
//
// Channel planes with RMS below the configured threshold are zeroed out
// entirely. The gate is independent of VAD: it cleans the signal before VAD
// decides whether to transmit. A short hold period prevents the gate from
// chopping speech during brief pauses. internal/ingest runs a single Process
// call over the whole clip, treating it as one frame per channel, rather
// than gating a live stream frame by frame. Each channel of a stereo clip
// holds its own open/remaining state, so a quiet left channel doesn't get
// held open by noise bleeding into the right.
package noisegate

import (
	"github.com/adazoulay/wgpu-signal-processor/internal/pcm"
	"github.com/adazoulay/wgpu-signal-processor/internal/vad"
)

const (
	// DefaultThreshold is the RMS level below which audio is gated (~-40 dBFS).
	DefaultThreshold = float32(0.01)

	// DefaultHold is the number of frames to keep the gate open after the
	// signal drops below threshold (200 ms at 20 ms / frame).
	DefaultHold = 10
)

// channelState is the gate's per-channel hold/open bookkeeping.
type channelState struct {
	remaining int // frames left in current hold
	open      bool
}

// Gate is a hard noise gate that zeroes channel planes below a threshold,
// tracking hold state independently per channel.
type Gate struct {
	threshold float32
	hold      int // configured hold length in frames
	enabled   bool

	channels []channelState
}

// New returns a Gate sized for width channels, with DefaultThreshold and
// DefaultHold, enabled by default.
func New(width pcm.Width) *Gate {
	return &Gate{
		threshold: DefaultThreshold,
		hold:      DefaultHold,
		enabled:   true,
		channels:  make([]channelState, int(width)),
	}
}

// SetEnabled enables or disables the gate. When disabled, Process is a no-op.
func (g *Gate) SetEnabled(enabled bool) {
	g.enabled = enabled
	if !enabled {
		for i := range g.channels {
			g.channels[i] = channelState{}
		}
	}
}

// Enabled reports whether the gate is currently enabled.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// SetThreshold sets the RMS gate threshold. level is in [0, 100] and maps
// to an RMS range of [0.001, 0.10]. Lower values open the gate more easily.
func (g *Gate) SetThreshold(level int) {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	// Map [0,100] -> [0.001, 0.10]
	g.threshold = 0.001 + float32(level)/100.0*0.099
}

// Threshold returns the current RMS threshold (linear amplitude).
func (g *Gate) Threshold() float32 {
	return g.threshold
}

// IsOpen reports whether channel ch is currently passing audio. Out-of-range
// ch reports true (fail-open).
func (g *Gate) IsOpen(ch int) bool {
	if ch < 0 || ch >= len(g.channels) {
		return true
	}
	return g.channels[ch].open
}

// Process applies the gate to c in-place, per channel plane. If a channel's
// RMS is below the threshold and that channel's hold period has expired, its
// plane is zeroed. Returns the per-channel RMS measured before gating
// (useful for level meters).
func (g *Gate) Process(c *pcm.Clip) []float32 {
	planes := c.Planes()
	rms := make([]float32, len(planes))
	for i := range planes {
		if i >= len(g.channels) {
			break
		}
		rms[i] = g.processChannel(i, planes[i])
	}
	c.SetPlanes(planes)
	return rms
}

func (g *Gate) processChannel(ch int, frame []float32) float32 {
	rms := vad.RMS(frame)
	state := &g.channels[ch]

	if !g.enabled {
		state.open = true
		return rms
	}

	if rms >= g.threshold {
		state.remaining = g.hold
		state.open = true
		return rms
	}

	if state.remaining > 0 {
		state.remaining--
		state.open = true
		return rms
	}

	// Below threshold and hold expired: zero the channel.
	for i := range frame {
		frame[i] = 0
	}
	state.open = false
	return rms
}

// Reset clears every channel's hold counter without changing settings.
func (g *Gate) Reset() {
	for i := range g.channels {
		g.channels[i] = channelState{}
	}
}
