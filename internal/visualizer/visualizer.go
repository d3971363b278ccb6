// Package visualizer fans Processor.Tap frames out to connected websocket
// clients, entirely outside the engine's graph lock — the "visualizer sink"
// collaborator the engine's external interfaces describe. Wiring is the
// same shape as the teacher's own websocket handler (upgrade, per-conn
// write loop, drop-on-backpressure), adapted from request/response
// messages to a continuous one-way binary stream.
package visualizer

import (
	"encoding/binary"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// Frame is the minimal shape visualizer needs from audiograph.Frame,
// avoiding a direct import of the root package. audiograph.Frame values
// satisfy this interface individually; the caller forwards them from
// Processor.Tap() into a chan Frame since Go channel element types don't
// satisfy interfaces structurally.
type Frame interface {
	Samples() []float32
}

// Sink streams every frame it receives on the channel given to Run to all connected
// websocket clients as little-endian float32 samples.
type Sink struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte
}

// NewSink returns a Sink that accepts connections from any origin, matching
// the teacher server's permissive CheckOrigin (this is a local debugging
// aid, not an internet-facing service).
func NewSink() *Sink {
	return &Sink{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]chan []byte),
	}
}

// Run drains ch until stop is closed or ch closes, broadcasting every frame
// to all currently connected clients.
func (s *Sink) Run(ch <-chan Frame, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case f, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(encodeFrame(f))
		}
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as a broadcast target until it disconnects.
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[visualizer] upgrade failed: %v", err)
		return
	}

	out := make(chan []byte, 64)
	s.mu.Lock()
	s.conns[conn] = out
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		// Safe to close here: broadcast only ever sends to channels still in
		// s.conns, and the delete above happened under the same lock.
		close(out)
		s.mu.Unlock()
		conn.Close()
	}()

	for buf := range out {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
			return
		}
	}
}

// broadcast sends buf to every connection's outbound channel, dropping it
// for any client whose channel is full rather than blocking the tap drain.
func (s *Sink) broadcast(buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, out := range s.conns {
		select {
		case out <- buf:
		default:
		}
	}
}

// encodeFrame packs a frame's channel samples as little-endian float32.
func encodeFrame(f Frame) []byte {
	samples := f.Samples()
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(s))
	}
	return buf
}
