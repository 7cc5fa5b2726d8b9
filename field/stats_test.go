package field

import (
	"math"
	"testing"
)

func TestComputeStatsUniform(t *testing.T) {
	g := NewGrid(8, 8)
	for i := range g.Res {
		g.Res[i] = 2.0
		g.Waste[i] = 0.5
	}

	s := ComputeStats(g)
	if math.Abs(s.MeanR-2.0) > 1e-9 || math.Abs(s.MeanW-0.5) > 1e-9 {
		t.Errorf("means = (%v, %v), want (2, 0.5)", s.MeanR, s.MeanW)
	}
	if s.VarR != 0 || s.VarW != 0 {
		t.Errorf("variance of uniform field = (%v, %v), want 0", s.VarR, s.VarW)
	}
	if s.MinR != 2.0 || s.MaxR != 2.0 {
		t.Errorf("min/max R = (%v, %v), want 2", s.MinR, s.MaxR)
	}
	if s.MeanGradR != 0 {
		t.Errorf("gradient of uniform field = %v, want 0", s.MeanGradR)
	}
}

func TestComputeStatsTwoValues(t *testing.T) {
	g := NewGrid(2, 1)
	g.Res[0] = 0
	g.Res[1] = 1

	s := ComputeStats(g)
	if math.Abs(s.MeanR-0.5) > 1e-9 {
		t.Errorf("MeanR = %v, want 0.5", s.MeanR)
	}
	if math.Abs(s.VarR-0.25) > 1e-9 {
		t.Errorf("VarR = %v, want 0.25", s.VarR)
	}
	if s.MinR != 0 || s.MaxR != 1 {
		t.Errorf("min/max = (%v, %v), want (0, 1)", s.MinR, s.MaxR)
	}
}

func TestCheckFinite(t *testing.T) {
	g := NewGrid(4, 4)
	if i, _ := CheckFinite(g); i != -1 {
		t.Fatalf("zero grid flagged at %d", i)
	}

	g.Res[5] = float32(math.NaN())
	if i, ch := CheckFinite(g); i != 5 || ch != "R" {
		t.Errorf("NaN: got (%d, %s), want (5, R)", i, ch)
	}
	g.Res[5] = 0

	g.Waste[7] = float32(math.Inf(1))
	if i, ch := CheckFinite(g); i != 7 || ch != "W" {
		t.Errorf("Inf: got (%d, %s), want (7, W)", i, ch)
	}
	g.Waste[7] = 0

	g.Res[2] = -0.001
	if i, ch := CheckFinite(g); i != 2 || ch != "R" {
		t.Errorf("negative: got (%d, %s), want (2, R)", i, ch)
	}
}
