// Package opusingest decodes Opus-compressed audio into the
// (samples, rate, channels) tuple audiograph.Processor.Ingest expects. It
// exercises gopkg.in/hraban/opus.v2 the same way audio.go's decoder does,
// but offline and packet-by-packet rather than against a live stream.
package opusingest

import (
	"fmt"

	"gopkg.in/hraban/opus.v2"
)

// maxFrameSamples bounds a single decoded Opus frame per channel: 120ms at
// 48kHz, the largest frame size the Opus spec allows.
const maxFrameSamples = 5760

// Decoder turns a sequence of Opus packets, all encoded at the same rate and
// channel count, into one contiguous float32 PCM buffer.
type Decoder struct {
	rate     int
	channels int
	dec      *opus.Decoder
}

// NewDecoder returns a Decoder for rate Hz and channels (1 or 2).
func NewDecoder(rate, channels int) (*Decoder, error) {
	dec, err := opus.NewDecoder(rate, channels)
	if err != nil {
		return nil, fmt.Errorf("opusingest: new decoder: %w", err)
	}
	return &Decoder{rate: rate, channels: channels, dec: dec}, nil
}

// Rate returns the decoder's configured sample rate.
func (d *Decoder) Rate() uint32 { return uint32(d.rate) }

// Channels returns the decoder's configured channel count.
func (d *Decoder) Channels() int { return d.channels }

// DecodeAll decodes every packet in order and concatenates the resulting
// PCM into one interleaved float32 buffer, ready for Processor.Ingest.
func (d *Decoder) DecodeAll(packets [][]byte) ([]float32, error) {
	var out []float32
	pcm := make([]float32, maxFrameSamples*d.channels)
	for i, pkt := range packets {
		n, err := d.dec.DecodeFloat32(pkt, pcm)
		if err != nil {
			return nil, fmt.Errorf("opusingest: decode packet %d: %w", i, err)
		}
		frame := make([]float32, n*d.channels)
		copy(frame, pcm[:n*d.channels])
		out = append(out, frame...)
	}
	return out, nil
}
