// Command enginedemo drives the mixing engine against a real output
// device: it ingests two demo tones, connects them additively into root,
// and streams the result through PortAudio, optionally fanning the same
// frames out to a websocket visualizer. It is the external "driver thread"
// collaborator the engine's interfaces describe, demonstrated standalone
// rather than embedded in the engine.
package main

import (
	"log"
	"net/http"

	"github.com/gordonklaus/portaudio"

	audiograph "github.com/adazoulay/wgpu-signal-processor"
	"github.com/adazoulay/wgpu-signal-processor/internal/config"
	"github.com/adazoulay/wgpu-signal-processor/internal/tonegen"
	"github.com/adazoulay/wgpu-signal-processor/internal/visualizer"
)

func main() {
	cfg := config.Load()

	width := audiograph.Mono
	channels := 1
	if cfg.Stereo {
		width = audiograph.Stereo
		channels = 2
	}

	proc := audiograph.NewProcessorWithRate(width, cfg.SampleRate)

	toneA, err := proc.Ingest(tonegen.Sine(440, 1500, cfg.SampleRate, 0.3), cfg.SampleRate, 1, "tone-a")
	if err != nil {
		log.Fatalf("ingest tone-a: %v", err)
	}
	toneB, err := proc.Ingest(tonegen.Sine(659.25, 1500, cfg.SampleRate, 0.3), cfg.SampleRate, 1, "tone-b")
	if err != nil {
		log.Fatalf("ingest tone-b: %v", err)
	}

	if _, err := proc.Connect(toneA, nil, audiograph.Add); err != nil {
		log.Fatalf("connect tone-a: %v", err)
	}
	if _, err := proc.Connect(toneB, nil, audiograph.Add); err != nil {
		log.Fatalf("connect tone-b: %v", err)
	}

	if cfg.VisualizerOn {
		sink := visualizer.NewSink()
		stop := make(chan struct{})
		frames := make(chan visualizer.Frame, 256)
		go func() {
			for f := range proc.Tap() {
				select {
				case frames <- f:
				default:
				}
			}
		}()
		go sink.Run(frames, stop)

		mux := http.NewServeMux()
		mux.Handle("/ws", sink)
		go func() {
			log.Printf("[enginedemo] visualizer listening on %s", cfg.VisualizerAddr)
			if err := http.ListenAndServe(cfg.VisualizerAddr, mux); err != nil {
				log.Printf("[enginedemo] visualizer server stopped: %v", err)
			}
		}()
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatalf("portaudio init: %v", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		log.Fatalf("list devices: %v", err)
	}
	outputDev, err := resolveOutputDevice(devices, cfg.OutputDeviceID)
	if err != nil {
		log.Fatalf("resolve output device: %v", err)
	}

	const framesPerBuffer = 512
	buf := make([]float32, framesPerBuffer*channels)

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   outputDev,
			Channels: channels,
			Latency:  outputDev.DefaultLowOutputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		log.Fatalf("open stream: %v", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Fatalf("start stream: %v", err)
	}
	defer stream.Stop()

	log.Printf("[enginedemo] streaming to %s at %d Hz", outputDev.Name, cfg.SampleRate)
	playbackLoop(proc, stream, buf, channels)
}

// playbackLoop fills buf from proc one output cycle at a time and writes it
// to stream until the mix is exhausted, mirroring audio.go's playbackLoop
// shape (fill buffer, then blocking Write) without the jitter-buffer
// network concerns that loop also handles.
func playbackLoop(proc *audiograph.Processor, stream *portaudio.Stream, buf []float32, channels int) {
	for {
		if !fillBuffer(proc, buf, channels) {
			return
		}
		if err := stream.Write(); err != nil {
			log.Printf("[enginedemo] playback write: %v", err)
			return
		}
	}
}

// fillBuffer pulls one frame per output sample slot from proc into buf,
// reporting false once the mix is exhausted (after writing any trailing
// silence into the rest of buf).
func fillBuffer(proc *audiograph.Processor, buf []float32, channels int) bool {
	any := false
	for i := 0; i < len(buf); i += channels {
		f, ok := proc.PullFrame()
		if !ok {
			for j := i; j < len(buf); j++ {
				buf[j] = 0
			}
			return any
		}
		any = true
		samples := f.Samples()
		for c := 0; c < channels; c++ {
			if c < len(samples) {
				buf[i+c] = samples[c]
			} else {
				buf[i+c] = samples[0]
			}
		}
	}
	return true
}

// resolveOutputDevice returns the device at idx if valid, otherwise the
// system default output device.
func resolveOutputDevice(devices []*portaudio.DeviceInfo, idx int) (*portaudio.DeviceInfo, error) {
	if idx >= 0 && idx < len(devices) && devices[idx].MaxOutputChannels > 0 {
		return devices[idx], nil
	}
	return portaudio.DefaultOutputDevice()
}
