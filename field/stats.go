package field

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the field state for telemetry.
type Stats struct {
	MeanR, MeanW float64
	VarR, VarW   float64
	MinR, MinW   float64
	MaxR, MaxW   float64
	MeanGradR    float64 // mean |∇R| over interior cells
}

// ComputeStats collects channel statistics over the whole grid.
func ComputeStats(g *Grid) Stats {
	n := len(g.Res)
	if n == 0 {
		return Stats{}
	}

	rs := make([]float64, n)
	ws := make([]float64, n)
	minR, minW := math.Inf(1), math.Inf(1)
	maxR, maxW := math.Inf(-1), math.Inf(-1)

	for i := 0; i < n; i++ {
		r := float64(g.Res[i])
		w := float64(g.Waste[i])
		rs[i] = r
		ws[i] = w
		minR = math.Min(minR, r)
		minW = math.Min(minW, w)
		maxR = math.Max(maxR, r)
		maxW = math.Max(maxW, w)
	}

	s := Stats{
		MeanR: stat.Mean(rs, nil),
		MeanW: stat.Mean(ws, nil),
		MinR:  minR,
		MinW:  minW,
		MaxR:  maxR,
		MaxW:  maxW,
	}
	// Population variance to match the mean over all cells.
	s.VarR = stat.PopVariance(rs, nil)
	s.VarW = stat.PopVariance(ws, nil)

	// Mean gradient magnitude, central differences over the interior.
	var sumGrad float64
	for y := 1; y < g.H-1; y++ {
		for x := 1; x < g.W-1; x++ {
			dx := float64(g.Res[g.Idx(x+1, y)]-g.Res[g.Idx(x-1, y)]) / 2
			dy := float64(g.Res[g.Idx(x, y+1)]-g.Res[g.Idx(x, y-1)]) / 2
			sumGrad += math.Sqrt(dx*dx + dy*dy)
		}
	}
	s.MeanGradR = sumGrad / float64(n)

	return s
}

// CheckFinite reports whether every field value is finite and non-negative.
// Returns the first offending cell index and channel name, or -1 if clean.
// This backs the monitored numerical-stability invariant: parameters are
// expected to stay in a stable regime, and this sweep catches drift out of
// it instead of letting the run silently diverge.
func CheckFinite(g *Grid) (int, string) {
	for i, r := range g.Res {
		if r < 0 || math.IsNaN(float64(r)) || math.IsInf(float64(r), 0) {
			return i, "R"
		}
	}
	for i, w := range g.Waste {
		if w < 0 || math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
			return i, "W"
		}
	}
	return -1, ""
}
