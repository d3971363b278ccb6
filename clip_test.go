package audiograph

import "testing"

func TestNewClipMono(t *testing.T) {
	c := NewClip([]float32{1, 2, 3}, 48000, Mono)
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	f, ok := c.At(1)
	if !ok || f.Left() != 2 {
		t.Errorf("At(1) = %v, %v; want 2, true", f, ok)
	}
}

func TestNewClipStereo(t *testing.T) {
	c := NewClip([]float32{1, -1, 2, -2}, 48000, Stereo)
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	f, _ := c.At(0)
	if f.Left() != 1 || f.Right() != -1 {
		t.Errorf("frame 0 = (%v, %v), want (1, -1)", f.Left(), f.Right())
	}
}

func TestClipAtOutOfBounds(t *testing.T) {
	c := NewClip([]float32{1, 2}, 48000, Mono)
	if _, ok := c.At(-1); ok {
		t.Error("At(-1) should be absent")
	}
	if _, ok := c.At(2); ok {
		t.Error("At(len) should be absent")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	c := NewClip([]float32{1, 2, 3}, 48000, Mono)
	clone := c.Clone()
	clone.Set(0, MonoFrame(99))
	if f, _ := c.At(0); f.Left() != 1 {
		t.Error("mutating clone affected original")
	}
}

func TestResizeGrowAndShrink(t *testing.T) {
	c := NewClip([]float32{1, 2}, 48000, Mono)
	c.Resize(4, MonoFrame(0))
	if c.Len() != 4 {
		t.Fatalf("len = %d, want 4", c.Len())
	}
	if f, _ := c.At(3); f.Left() != 0 {
		t.Errorf("appended fill = %v, want 0", f.Left())
	}

	c.Resize(1, MonoFrame(0))
	if c.Len() != 1 {
		t.Fatalf("len after shrink = %d, want 1", c.Len())
	}
	if f, _ := c.At(0); f.Left() != 1 {
		t.Errorf("surviving frame = %v, want 1", f.Left())
	}
}

func TestPadLeft(t *testing.T) {
	c := NewClip([]float32{5, 6}, 48000, Mono)
	c.PadLeft(2)
	if c.Len() != 4 {
		t.Fatalf("len = %d, want 4", c.Len())
	}
	for i := 0; i < 2; i++ {
		if f, _ := c.At(i); f.Left() != 0 {
			t.Errorf("pad frame %d = %v, want 0", i, f.Left())
		}
	}
	if f, _ := c.At(2); f.Left() != 5 {
		t.Errorf("shifted frame 2 = %v, want 5", f.Left())
	}
}

func TestPadLeftZeroIsNoOp(t *testing.T) {
	c := NewClip([]float32{5, 6}, 48000, Mono)
	c.PadLeft(0)
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2 after no-op pad", c.Len())
	}
}

func TestResetZeroesWithoutResizing(t *testing.T) {
	c := NewClip([]float32{1, 2, 3}, 48000, Mono)
	c.Reset()
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	for i := 0; i < 3; i++ {
		if f, _ := c.At(i); f.Left() != 0 {
			t.Errorf("frame %d = %v, want 0 after Reset", i, f.Left())
		}
	}
}

func TestToStereoAndBackIsIdentityForBalancedInput(t *testing.T) {
	mono := NewClip([]float32{1, -1, 0.5}, 48000, Mono)
	stereo := mono.ToStereo()
	if stereo.Width() != Stereo {
		t.Fatalf("width = %v, want Stereo", stereo.Width())
	}
	for i := 0; i < mono.Len(); i++ {
		f, _ := stereo.At(i)
		if f.Left() != f.Right() {
			t.Errorf("frame %d: L=%v R=%v, want equal after duplication", i, f.Left(), f.Right())
		}
	}
	back := stereo.ToMono()
	for i := 0; i < mono.Len(); i++ {
		want, _ := mono.At(i)
		got, _ := back.At(i)
		if got.Left() != want.Left() {
			t.Errorf("round trip frame %d = %v, want %v", i, got.Left(), want.Left())
		}
	}
}

func TestToMonoAverages(t *testing.T) {
	stereo := NewClip([]float32{1, 3}, 48000, Stereo)
	mono := stereo.ToMono()
	f, _ := mono.At(0)
	if f.Left() != 2 {
		t.Errorf("averaged sample = %v, want 2", f.Left())
	}
}

func TestToStereoNoOpWhenAlreadyStereo(t *testing.T) {
	stereo := NewClip([]float32{1, 2}, 48000, Stereo)
	out := stereo.ToStereo()
	if out.Width() != Stereo {
		t.Errorf("width = %v, want Stereo", out.Width())
	}
}

func TestResampleSameRateClones(t *testing.T) {
	c := NewClip([]float32{1, 2, 3}, 48000, Mono)
	out := c.Resample(48000)
	if out.Len() != c.Len() {
		t.Errorf("len changed on same-rate resample: %d vs %d", out.Len(), c.Len())
	}
	out.Set(0, MonoFrame(99))
	if f, _ := c.At(0); f.Left() == 99 {
		t.Error("resample at same rate aliased the original")
	}
}

func TestResampleUpsampleLength(t *testing.T) {
	c := NewClip([]float32{0, 1, 0, -1}, 8000, Mono)
	out := c.Resample(16000)
	want := (4*16000 + 8000 - 1) / 8000
	if out.Len() != want {
		t.Errorf("resampled len = %d, want %d", out.Len(), want)
	}
	if out.Rate() != 16000 {
		t.Errorf("resampled rate = %d, want 16000", out.Rate())
	}
}

func TestResampleDownsamplePreservesFirstFrame(t *testing.T) {
	c := NewClip([]float32{0, 0.5, 1, 0.5}, 16000, Mono)
	out := c.Resample(8000)
	first, _ := out.At(0)
	if first.Left() != 0 {
		t.Errorf("first resampled frame = %v, want 0", first.Left())
	}
}
