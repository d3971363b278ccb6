// Package agc implements a simple software Automatic Gain Control processor
// for float32 PCM audio Clips.
//
// The AGC continuously monitors the short-term RMS of each channel plane and
// adjusts a per-channel multiplicative gain toward a desired target level
// using independent attack/release time constants. Gain is clamped to
// [MinGain, MaxGain] to prevent silence amplification from going wild.
// internal/ingest runs a single Process call over an entire clip at ingest
// time, rather than the continuous per-frame usage the gain smoothing was
// tuned for. A stereo clip gets one gain estimate per channel, so a loud
// signal on the right doesn't duck the left.
package agc

import (
	"github.com/adazoulay/wgpu-signal-processor/internal/pcm"
	"github.com/adazoulay/wgpu-signal-processor/internal/vad"
)

const (
	// DefaultTarget is the desired RMS level (linear, ~-14 dBFS).
	DefaultTarget = 0.20

	// MinGain limits attenuation of loud signals to -20 dB.
	MinGain = 0.1
	// MaxGain allows up to +20 dB of amplification.
	MaxGain = 10.0

	// AttackCoeff controls how quickly gain is reduced when level exceeds target.
	// Higher → faster attack. Value chosen for ~5 ms effective time at 48 kHz/960.
	AttackCoeff = 0.80
	// ReleaseCoeff controls how quickly gain recovers after a loud transient.
	// Slower than attack to avoid pumping artefacts.
	ReleaseCoeff = 0.02

	// minRMS suppresses gain updates on silent frames (below noise floor).
	minRMS = 0.001
)

// AGC is an automatic gain control processor holding one gain estimate per
// channel of the Clip width it was built for. Zero value is not usable; use
// New().
type AGC struct {
	target float64   // desired RMS level [0.0, 1.0], shared across channels
	gains  []float64 // current linear gain multiplier, one per channel
}

// New returns an AGC sized for width channels, each starting at DefaultTarget
// and unity gain.
func New(width pcm.Width) *AGC {
	gains := make([]float64, int(width))
	for i := range gains {
		gains[i] = 1.0
	}
	return &AGC{target: DefaultTarget, gains: gains}
}

// SetTarget sets the desired RMS level. level is in the range [0, 100] and is
// mapped linearly to [0.01, 0.50].
func (a *AGC) SetTarget(level int) {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	// Map [0,100] → [0.01, 0.50]
	a.target = 0.01 + float64(level)/100.0*0.49
}

// Process applies gain to c in-place, one channel plane at a time, and
// updates each channel's gain estimate independently.
func (a *AGC) Process(c *pcm.Clip) {
	planes := c.Planes()
	for i := range planes {
		if i >= len(a.gains) {
			break
		}
		a.processChannel(i, planes[i])
	}
	c.SetPlanes(planes)
}

func (a *AGC) processChannel(ch int, frame []float32) {
	if len(frame) == 0 {
		return
	}

	rms := float64(vad.RMS(frame))
	gain := a.gains[ch]

	// Apply current gain before updating, so the listener hears the result.
	for i, s := range frame {
		v := s * float32(gain)
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		frame[i] = v
	}

	// Skip gain update on near-silence to avoid boosting noise floor.
	if rms < minRMS {
		return
	}

	// Desired gain to hit target.
	desired := a.target / rms
	if desired < MinGain {
		desired = MinGain
	} else if desired > MaxGain {
		desired = MaxGain
	}

	// Asymmetric smoothing: attack (gain down) is fast, release (gain up) slow.
	var coeff float64
	if desired < gain {
		coeff = AttackCoeff
	} else {
		coeff = ReleaseCoeff
	}
	a.gains[ch] = gain + coeff*(desired-gain)
}

// Gain returns channel ch's current linear gain multiplier (informational).
// Out-of-range ch returns unity.
func (a *AGC) Gain(ch int) float64 {
	if ch < 0 || ch >= len(a.gains) {
		return 1.0
	}
	return a.gains[ch]
}

// Reset resets every channel's gain to unity without changing the target.
func (a *AGC) Reset() {
	for i := range a.gains {
		a.gains[i] = 1.0
	}
}
