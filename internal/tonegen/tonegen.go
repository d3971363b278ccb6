// Package tonegen synthesizes simple sine-tone PCM buffers, adapted from
// the teacher's UI notification chime generator into a reusable test/demo
// fixture: given a frequency and duration it returns one contiguous float32
// buffer (rather than notification.go's frameSize-chunked channel feed),
// since callers here are Processor.Ingest and tests, not a live audio
// callback.
package tonegen

import "math"

// fadeMs is the linear fade-in/fade-out envelope length, avoiding the click
// a hard-edged tone would introduce at the mix boundary.
const fadeMs = 5

// Sine returns durationMs milliseconds of a sine tone at freqHz, sampled at
// rate Hz, peak amplitude amplitude (0, 1].
func Sine(freqHz float64, durationMs int, rate uint32, amplitude float32) []float32 {
	total := int(rate) * durationMs / 1000
	out := make([]float32, total)

	fadeLen := int(rate) * fadeMs / 1000
	if fadeLen > total/2 {
		fadeLen = total / 2
	}

	for i := range out {
		t := float64(i) / float64(rate)
		s := float32(math.Sin(2 * math.Pi * freqHz * t))

		env := float32(1.0)
		if i < fadeLen {
			env = float32(i) / float32(fadeLen)
		} else if i >= total-fadeLen {
			env = float32(total-1-i) / float32(fadeLen)
		}
		out[i] = s * env * amplitude
	}
	return out
}

// Silence returns durationMs milliseconds of zero-valued samples at rate.
func Silence(durationMs int, rate uint32) []float32 {
	return make([]float32, int(rate)*durationMs/1000)
}
