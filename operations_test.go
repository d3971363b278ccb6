package audiograph

import "testing"

func applyOp(kind OpKind, parentSamples, childSamples []float32) []float32 {
	parent := NewNode(0, "p", NewClip(parentSamples, 48000, Mono))
	child := NewNode(1, "c", NewClip(childSamples, 48000, Mono))
	lo, hi := child.NormalizeBounds(parent)
	operationFor(kind).Apply(parent, child, lo, hi)
	out := make([]float32, child.Current().Len())
	for i := range out {
		f, _ := child.Current().At(i)
		out[i] = f.Left()
	}
	return out
}

func TestAddOp(t *testing.T) {
	out := applyOp(Add, []float32{1, 2, 3}, []float32{10, 10, 10})
	want := []float32{11, 12, 13}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestSubtractOp(t *testing.T) {
	out := applyOp(Subtract, []float32{1, 2, 3}, []float32{10, 10, 10})
	want := []float32{9, 8, 7}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestMultiplyOp(t *testing.T) {
	out := applyOp(Multiply, []float32{2, 0, -1}, []float32{5, 5, 5})
	want := []float32{10, 0, -5}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestBypassOpLeavesChildUntouched(t *testing.T) {
	out := applyOp(Bypass, []float32{99, 99, 99}, []float32{1, 2, 3})
	want := []float32{1, 2, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v (bypass must not change child)", i, out[i], want[i])
		}
	}
}

func TestCrossfadeOpRampsFromChildToParent(t *testing.T) {
	out := applyOp(Crossfade, []float32{10, 10, 10, 10}, []float32{0, 0, 0, 0})
	if out[0] != 0 {
		t.Errorf("crossfade[0] = %v, want 0 (ramp starts at child)", out[0])
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Errorf("crossfade ramp is not monotonic at index %d", i)
		}
	}
}

func TestCrossfadeOpZeroSpanIsNoOp(t *testing.T) {
	parent := NewNode(0, "p", NewClip([]float32{1, 2}, 48000, Mono))
	child := NewNode(1, "c", NewClip([]float32{5, 6}, 48000, Mono))
	crossfadeOp{}.Apply(parent, child, 1, 1)
	f0, _ := child.Current().At(0)
	f1, _ := child.Current().At(1)
	if f0.Left() != 5 || f1.Left() != 6 {
		t.Error("zero-length span crossfade must not touch child")
	}
}

func TestOpKindStringNames(t *testing.T) {
	cases := []struct {
		kind OpKind
		want string
	}{
		{Add, "Add"},
		{Subtract, "Subtract"},
		{Multiply, "Multiply"},
		{Crossfade, "Crossfade"},
		{Bypass, "Bypass"},
	}
	for _, c := range cases {
		if c.kind.String() != c.want {
			t.Errorf("%v.String() = %q, want %q", c.kind, c.kind.String(), c.want)
		}
	}
}
