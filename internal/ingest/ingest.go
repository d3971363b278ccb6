// Package ingest runs optional one-shot signal conditioning over a clip
// before Processor.Ingest inserts it into the graph. It adapts the teacher's
// real-time, 20 ms-frame capture pipeline (aec → noisegate → agc → vad) to
// operate once, synchronously, over a whole offline Clip of arbitrary
// length, with every stage running directly on the Clip's channel planes
// rather than a flat interleaved buffer.
package ingest

import (
	"github.com/adazoulay/wgpu-signal-processor/internal/aec"
	"github.com/adazoulay/wgpu-signal-processor/internal/agc"
	"github.com/adazoulay/wgpu-signal-processor/internal/noisegate"
	"github.com/adazoulay/wgpu-signal-processor/internal/pcm"
	"github.com/adazoulay/wgpu-signal-processor/internal/vad"
)

// trimWindow is the frame size used to scan for leading/trailing silence
// when TrimSilence is set — the same 20 ms-at-48kHz window size the capture
// path's VAD is tuned against.
const trimWindow = 960

// Options selects which conditioning stages Apply runs, and in what
// configuration. The zero value runs no conditioning.
type Options struct {
	// CancelEcho, if non-empty, is a mono far-end reference signal; NLMS echo
	// cancellation runs against it before any other stage. Widened to match
	// the near-end clip's channel count if it differs.
	CancelEcho []float32
	// Gate hard-zeroes a channel plane if its overall RMS never clears the
	// noise gate threshold.
	Gate bool
	// Normalize applies one AGC gain pass per channel toward the default
	// target RMS.
	Normalize bool
	// TrimSilence removes leading/trailing windows whose combined-channel RMS
	// stays under the VAD threshold. Interior audio is never trimmed.
	TrimSilence bool
}

// Apply runs the requested stages over clip in the fixed order
// AEC → gate → AGC → VAD-trim, mirroring audio.go's captureLoop order, and
// returns the conditioned clip. clip is not modified in place; Apply works
// against a clone.
func Apply(clip pcm.Clip, opts Options) pcm.Clip {
	out := clip.Clone()

	if len(opts.CancelEcho) > 0 {
		ref := pcm.NewClip(opts.CancelEcho, out.Rate(), pcm.Mono)
		if out.Width() == pcm.Stereo {
			ref = ref.ToStereo()
		}
		canceller := aec.New(out.Len(), out.Width())
		canceller.FeedFarEnd(ref)
		canceller.Process(&out)
	}

	if opts.Gate {
		noisegate.New(out.Width()).Process(&out)
	}

	if opts.Normalize {
		agc.New(out.Width()).Process(&out)
	}

	if opts.TrimSilence {
		out = trimSilence(out)
	}

	return out
}

// trimSilence drops leading and trailing windows whose RMS does not exceed
// the VAD threshold, leaving interior audio untouched. The RMS driving
// each window's VAD decision is computed over the clip's channels combined
// (summed planes), since a clip is either silent or not as a whole — a
// signal present on only one channel of a stereo clip still counts as
// content. The forward scan finds the first loud window and the reverse scan
// the last one, each with a fresh VAD instance; both stop at the first loud
// window, so the VAD's hangover never extends the kept range and no tail
// past the last loud window is kept.
func trimSilence(c pcm.Clip) pcm.Clip {
	frames := c.Frames()
	if len(frames) == 0 {
		return c
	}

	combined := combinedEnergy(c)

	lo := 0
	fwd := vad.New()
	for lo < len(frames) {
		hi := lo + trimWindow
		if hi > len(frames) {
			hi = len(frames)
		}
		if fwd.ShouldSend(vad.RMS(combined[lo:hi])) {
			break
		}
		lo = hi
	}

	hi := len(frames)
	rev := vad.New()
	for hi > lo {
		winLo := hi - trimWindow
		if winLo < lo {
			winLo = lo
		}
		if rev.ShouldSend(vad.RMS(combined[winLo:hi])) {
			break
		}
		hi = winLo
	}

	if lo >= hi {
		return pcm.FromFrames(nil, c.Rate(), c.Width())
	}

	trimmed := make([]pcm.Frame, hi-lo)
	copy(trimmed, frames[lo:hi])
	out := pcm.FromFrames(trimmed, c.Rate(), c.Width())
	out.SetStart(c.Start() + lo)
	return out
}

// combinedEnergy sums c's channel planes sample-by-sample into one mono
// series purely for silence-detection purposes; the trimmed clip returned by
// trimSilence still carries its original channel content untouched.
func combinedEnergy(c pcm.Clip) []float32 {
	planes := c.Planes()
	out := make([]float32, c.Len())
	for _, plane := range planes {
		for i, s := range plane {
			out[i] += s
		}
	}
	return out
}
