package audiograph

import "testing"

// newTestProcessor returns a processor at rate 1 Hz so the default 5-second
// root clip is just 5 frames long — small enough to assert on directly.
func newTestProcessor() *Processor {
	return NewProcessorWithRate(Mono, 1)
}

func samplesOf(t *testing.T, p *Processor, id NodeID, n int) []float32 {
	t.Helper()
	frames, ok := p.CurrentFrames(id)
	if !ok {
		t.Fatalf("node %d not found", id)
	}
	out := make([]float32, n)
	for i := 0; i < n && i < len(frames); i++ {
		out[i] = frames[i].Left()
	}
	return out
}

func TestIngestRejectsInvalidChannels(t *testing.T) {
	p := newTestProcessor()
	if _, err := p.Ingest([]float32{1}, 1, 3, "bad"); err == nil {
		t.Fatal("expected an error for channels=3")
	}
}

func TestIngestRegistersNameLookup(t *testing.T) {
	p := newTestProcessor()
	id, err := p.Ingest([]float32{1, 2, 3}, 1, 1, "tone")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	got, ok := p.NodeByName("tone")
	if !ok || got != id {
		t.Errorf("NodeByName(tone) = %d, %v; want %d, true", got, ok, id)
	}
}

func TestTwoSourcesAddIntoRoot(t *testing.T) {
	p := newTestProcessor()
	a, err := p.Ingest([]float32{1, 2, 3}, 1, 1, "a")
	if err != nil {
		t.Fatalf("ingest a: %v", err)
	}
	b, err := p.Ingest([]float32{1, 2, 3}, 1, 1, "b")
	if err != nil {
		t.Fatalf("ingest b: %v", err)
	}

	if _, err := p.Connect(a, nil, Add); err != nil {
		t.Fatalf("connect a: %v", err)
	}
	if _, err := p.Connect(b, nil, Add); err != nil {
		t.Fatalf("connect b: %v", err)
	}

	got := samplesOf(t, p, p.RootID(), 3)
	want := []float32{2, 4, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("root[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChainAccumulationThroughIntermediateNodes(t *testing.T) {
	p := newTestProcessor()
	a, _ := p.Ingest([]float32{2, 4, 6}, 1, 1, "a")
	b, _ := p.Ingest([]float32{2, 4, 6}, 1, 1, "b")
	c, _ := p.Ingest([]float32{0, 0, 0}, 1, 1, "c")
	d, _ := p.Ingest([]float32{0, 0, 0}, 1, 1, "d")

	if _, err := p.Connect(a, &c, Add); err != nil {
		t.Fatalf("a->c: %v", err)
	}
	if _, err := p.Connect(b, &c, Add); err != nil {
		t.Fatalf("b->c: %v", err)
	}
	if _, err := p.Connect(c, &d, Add); err != nil {
		t.Fatalf("c->d: %v", err)
	}
	if _, err := p.Connect(d, nil, Add); err != nil {
		t.Fatalf("d->root: %v", err)
	}

	gotD := samplesOf(t, p, d, 3)
	want := []float32{4, 8, 12}
	for i := range want {
		if gotD[i] != want[i] {
			t.Errorf("d[%d] = %v, want %v", i, gotD[i], want[i])
		}
	}
	gotRoot := samplesOf(t, p, p.RootID(), 3)
	for i := range want {
		if gotRoot[i] != want[i] {
			t.Errorf("root[%d] = %v, want %v", i, gotRoot[i], want[i])
		}
	}
}

func TestFanInPropagatesEditOfAlreadyWiredIntermediateNode(t *testing.T) {
	p := newTestProcessor()
	h, _ := p.Ingest([]float32{0, 0, 0}, 1, 1, "h")
	a, _ := p.Ingest([]float32{5, 5, 5}, 1, 1, "a")

	// Wire h into root first, while h is still silent.
	if _, err := p.Connect(h, nil, Add); err != nil {
		t.Fatalf("h->root: %v", err)
	}
	if got := samplesOf(t, p, p.RootID(), 3); got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Fatalf("root should still be silent before a is wired in, got %v", got)
	}

	// Now edit h by wiring a into it; h's resulting delta must reach root
	// through the already-existing h->root edge.
	if _, err := p.Connect(a, &h, Add); err != nil {
		t.Fatalf("a->h: %v", err)
	}

	gotH := samplesOf(t, p, h, 3)
	want := []float32{5, 5, 5}
	for i := range want {
		if gotH[i] != want[i] {
			t.Errorf("h[%d] = %v, want %v", i, gotH[i], want[i])
		}
	}
	gotRoot := samplesOf(t, p, p.RootID(), 3)
	for i := range want {
		if gotRoot[i] != want[i] {
			t.Errorf("root[%d] = %v, want %v", i, gotRoot[i], want[i])
		}
	}
}

func TestRepeatedIdenticalConnectIsRejectedAndLeavesRootUnchanged(t *testing.T) {
	p := newTestProcessor()
	a, _ := p.Ingest([]float32{1, 2, 3}, 1, 1, "a")

	if _, err := p.Connect(a, nil, Add); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	before := samplesOf(t, p, p.RootID(), 3)
	metricsBefore := p.Metrics()

	if _, err := p.Connect(a, nil, Add); err == nil {
		t.Fatal("identical second connect must be rejected")
	}

	after := samplesOf(t, p, p.RootID(), 3)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("root[%d] changed from %v to %v after rejected duplicate connect", i, before[i], after[i])
		}
	}
	metricsAfter := p.Metrics()
	if metricsAfter.EdgeCount != metricsBefore.EdgeCount {
		t.Errorf("edge count changed from %d to %d on a rejected connect", metricsBefore.EdgeCount, metricsAfter.EdgeCount)
	}
}

func TestPullFrameYieldsRootLengthThenAbsent(t *testing.T) {
	p := newTestProcessor()
	count := 0
	for {
		_, ok := p.PullFrame()
		if !ok {
			break
		}
		count++
	}
	if count != p.Metrics().RootLen {
		t.Errorf("pulled %d frames, want %d (root length)", count, p.Metrics().RootLen)
	}
	if _, ok := p.PullFrame(); ok {
		t.Error("PullFrame should stay absent once the cursor runs past root length")
	}
}

func TestSetCursorSeeks(t *testing.T) {
	p := newTestProcessor()
	p.SetCursor(2)
	if p.Cursor() != 2 {
		t.Fatalf("Cursor() = %d, want 2", p.Cursor())
	}
	f, ok := p.PullFrame()
	if !ok {
		t.Fatal("expected a frame at cursor 2 within a 5-frame root")
	}
	if f.Left() != 0 {
		t.Errorf("frame content = %v, want 0 (root starts silent)", f.Left())
	}
	if p.Cursor() != 3 {
		t.Errorf("Cursor() after pull = %d, want 3", p.Cursor())
	}
}

func TestTapReceivesPulledFrames(t *testing.T) {
	p := newTestProcessor()
	ch := p.Tap()
	if _, err := p.Ingest([]float32{1}, 1, 1, "a"); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, ok := p.PullFrame(); !ok {
		t.Fatal("expected a frame")
	}

	select {
	case <-ch:
	default:
		t.Error("tap channel should have received the pulled frame")
	}
}

func TestMetricsReflectsGraphShape(t *testing.T) {
	p := newTestProcessor()
	base := p.Metrics()
	a, _ := p.Ingest([]float32{1}, 1, 1, "a")
	if _, err := p.Connect(a, nil, Add); err != nil {
		t.Fatalf("connect: %v", err)
	}
	after := p.Metrics()
	if after.NodeCount != base.NodeCount+1 {
		t.Errorf("NodeCount = %d, want %d", after.NodeCount, base.NodeCount+1)
	}
	if after.EdgeCount != base.EdgeCount+1 {
		t.Errorf("EdgeCount = %d, want %d", after.EdgeCount, base.EdgeCount+1)
	}
}

func TestIngestResamplesToProcessorRate(t *testing.T) {
	p := NewProcessorWithRate(Mono, 2)
	id, err := p.Ingest([]float32{1, 2, 3, 4}, 4, 1, "hi-rate")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	frames, ok := p.CurrentFrames(id)
	if !ok {
		t.Fatal("node not found")
	}
	// 4 frames at 4Hz resampled to 2Hz halves the length.
	wantLen := (4*2 + 4 - 1) / 4
	if len(frames) != wantLen {
		t.Errorf("resampled len = %d, want %d", len(frames), wantLen)
	}
}

func TestIngestConvertsWidthToMatchProcessor(t *testing.T) {
	p := NewProcessorWithRate(Stereo, 1)
	id, err := p.Ingest([]float32{1, 2, 3}, 1, 1, "mono-in")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	frames, _ := p.CurrentFrames(id)
	for i, f := range frames {
		if f.Width() != Stereo {
			t.Fatalf("frame %d width = %v, want Stereo", i, f.Width())
		}
		if f.Left() != f.Right() {
			t.Errorf("frame %d: mono source duplicated unevenly L=%v R=%v", i, f.Left(), f.Right())
		}
	}
}
