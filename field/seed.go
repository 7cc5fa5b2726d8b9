package field

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// SeedParams shapes the initial resource distribution.
type SeedParams struct {
	CenterAmplitude float32
	CenterSigmaPct  float32 // fraction of min grid dimension
	ClusterSigmaPct float32
	SourceSigmaPct  float32
	RampAmplitude   float32 // fraction of CenterAmplitude
	SimplexAmp      float32 // structured noise layer amplitude, 0 disables
	SimplexScale    float32 // noise features per min dimension
}

// DefaultSeedParams returns the baseline seeding shape.
func DefaultSeedParams() SeedParams {
	return SeedParams{
		CenterAmplitude: 0.8,
		CenterSigmaPct:  0.07,
		ClusterSigmaPct: 0.05,
		SourceSigmaPct:  0.02,
		RampAmplitude:   0.15,
		SimplexAmp:      0.05,
		SimplexScale:    8.0,
	}
}

// seededRNG builds a deterministic ChaCha8 stream from a 64-bit seed.
func seededRNG(seed int64) *rand.Rand {
	var key [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[i*8:], uint64(seed)+uint64(i))
	}
	return rand.New(rand.NewChaCha8(key))
}

// SeedResources initializes the resource channel: a primary center source,
// a handful of clusters, scattered point sources, and a gentle directional
// ramp, optionally overlaid with low-amplitude simplex noise. The waste
// channel starts at zero. Deterministic for a given seed.
func SeedResources(g *Grid, seed int64, p SeedParams) {
	rng := seededRNG(seed)

	w := float32(g.W)
	h := float32(g.H)
	minDim := min(w, h)

	g.Zero()

	// Primary center source.
	centerX := 0.5 * w
	centerY := 0.5 * h
	sigCenter := sigmaPx(minDim, p.CenterSigmaPct, 2.0)
	addGaussian(g, centerX, centerY, p.CenterAmplitude, sigCenter)

	// Clusters, count scaled by grid size.
	numClusters := 8
	if minDim < 192 {
		numClusters = 4
	}
	cxLo, cxHi := spanPct(w, 0.15, 0.85)
	cyLo, cyHi := spanPct(h, 0.15, 0.85)
	for i := 0; i < numClusters; i++ {
		cx := randRange(rng, cxLo, cxHi)
		cy := randRange(rng, cyLo, cyHi)
		amp := randRange(rng, 0.3, 0.7)
		addGaussian(g, cx, cy, amp, sigmaPx(minDim, p.ClusterSigmaPct, 2.0))
	}

	// Scattered point sources.
	numSources := 15
	if minDim < 192 {
		numSources = 8
	}
	sxLo, sxHi := spanPct(w, 0.05, 0.95)
	syLo, syHi := spanPct(h, 0.05, 0.95)
	for i := 0; i < numSources; i++ {
		cx := randRange(rng, sxLo, sxHi)
		cy := randRange(rng, syLo, syHi)
		amp := randRange(rng, 0.2, 0.5)
		addGaussian(g, cx, cy, amp, sigmaPx(minDim, p.SourceSigmaPct, 1.5))
	}

	// Gentle directional ramp.
	theta := randRange(rng, 0, 2*math.Pi)
	dirX := float32(math.Cos(float64(theta)))
	dirY := float32(math.Sin(float64(theta)))
	gradAmp := p.RampAmplitude * p.CenterAmplitude
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			dx := float32(x) - centerX
			dy := float32(y) - centerY
			proj := (dx*dirX + dy*dirY) / minDim
			if proj > 0.5 {
				proj = 0.5
			} else if proj < -0.5 {
				proj = -0.5
			}
			g.Res[g.Idx(x, y)] += proj * gradAmp
		}
	}

	// Structured noise layer.
	if p.SimplexAmp > 0 && p.SimplexScale > 0 {
		noise := opensimplex.NewNormalized(seed)
		freq := float64(p.SimplexScale / minDim)
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				n := noise.Eval2(float64(x)*freq, float64(y)*freq)
				g.Res[g.Idx(x, y)] += p.SimplexAmp * float32(n)
			}
		}
	}

	// Concentrations never go negative.
	for i := range g.Res {
		if g.Res[i] < 0 {
			g.Res[i] = 0
		}
	}
}

// AddNoise perturbs the resource channel with uniform noise in
// [-sigma, sigma), clamped non-negative. Deterministic for a given seed.
func AddNoise(g *Grid, sigma float32, seed int64) {
	if sigma <= 0 {
		return
	}
	rng := seededRNG(seed)
	for i := range g.Res {
		v := g.Res[i] + randRange(rng, -sigma, sigma)
		if v < 0 {
			v = 0
		}
		g.Res[i] = v
	}
}

// addGaussian accumulates a gaussian blob into the resource channel.
func addGaussian(g *Grid, cx, cy, amp, sigma float32) {
	inv := 1.0 / (2 * sigma * sigma)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			dx := float32(x) - cx
			dy := float32(y) - cy
			r2 := (dx*dx + dy*dy) * inv
			g.Res[g.Idx(x, y)] += amp * float32(math.Exp(float64(-r2)))
		}
	}
}

// sigmaPx clamps a percentage-of-dimension sigma to a pixel floor so tiny
// grids don't get needle-thin gaussians.
func sigmaPx(minDim, pct, minPx float32) float32 {
	s := minDim * pct
	if s < minPx {
		return minPx
	}
	return s
}

// spanPct converts a percent span to an absolute [lo, hi] range, always
// non-empty for positive sizes.
func spanPct(size, loPct, hiPct float32) (float32, float32) {
	lo := size * loPct
	hi := size * hiPct
	if hi <= lo {
		c := 0.5 * size
		return c - 1, c + 1
	}
	return lo, hi
}

func randRange(rng *rand.Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}
