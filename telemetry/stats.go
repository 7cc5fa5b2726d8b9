// Package telemetry writes run metrics, snapshots, and pass timings for
// headless and interactive runs.
package telemetry

import (
	"github.com/vireolab/vireo/field"
	"github.com/vireolab/vireo/sim"
)

// historyCap bounds the alive-count history kept for cycle detection.
const historyCap = 200

// StepStats is one metrics.csv row.
type StepStats struct {
	Step int `csv:"step"`

	MeanR     float64 `csv:"mean_r"`
	MeanW     float64 `csv:"mean_w"`
	VarR      float64 `csv:"var_r"`
	VarW      float64 `csv:"var_w"`
	MeanGradR float64 `csv:"mean_grad_r"`
	MaxR      float64 `csv:"max_r"`
	MaxW      float64 `csv:"max_w"`
	MinR      float64 `csv:"min_r"`
	MinW      float64 `csv:"min_w"`

	AliveCount         int     `csv:"alive_count"`
	TotalEnergy        float64 `csv:"total_energy"`
	MeanEnergy         float64 `csv:"mean_energy"`
	MeanVelocity       float64 `csv:"mean_velocity"`
	ForagingEfficiency float64 `csv:"foraging_efficiency"`

	CycleScore float64 `csv:"cycle_score"`

	WallTimeMs float64 `csv:"wall_time_ms"`
	FPSProxy   float64 `csv:"fps_proxy"`
}

// Collector accumulates per-run history and assembles StepStats rows.
type Collector struct {
	aliveHistory []int
	historyMin   int
}

// NewCollector creates a collector. historyMin is the number of samples
// required before a cycle score is reported (0 uses a sane default).
func NewCollector(historyMin int) *Collector {
	if historyMin <= 0 {
		historyMin = 50
	}
	return &Collector{historyMin: historyMin}
}

// Collect builds one row from the current field and agent statistics.
// wallTimeMs is the duration of the frame being reported.
func (c *Collector) Collect(step int, fs field.Stats, as sim.AgentStats, wallTimeMs float64) StepStats {
	c.aliveHistory = append(c.aliveHistory, as.AliveCount)
	if len(c.aliveHistory) > historyCap {
		c.aliveHistory = c.aliveHistory[len(c.aliveHistory)-historyCap:]
	}

	fpsProxy := 0.0
	if wallTimeMs > 0 {
		fpsProxy = 1000.0 / wallTimeMs
	}

	return StepStats{
		Step:               step,
		MeanR:              fs.MeanR,
		MeanW:              fs.MeanW,
		VarR:               fs.VarR,
		VarW:               fs.VarW,
		MeanGradR:          fs.MeanGradR,
		MaxR:               fs.MaxR,
		MaxW:               fs.MaxW,
		MinR:               fs.MinR,
		MinW:               fs.MinW,
		AliveCount:         as.AliveCount,
		TotalEnergy:        as.TotalEnergy,
		MeanEnergy:         as.MeanEnergy,
		MeanVelocity:       as.MeanVelocity,
		ForagingEfficiency: as.ForagingEfficiency,
		CycleScore:         c.CycleScore(),
		WallTimeMs:         wallTimeMs,
		FPSProxy:           fpsProxy,
	}
}

// CycleScore estimates how strongly the alive count is oscillating: the
// mean absolute difference between the latest sample and its recent lags,
// squashed to [0,1]. Zero until enough history has accumulated.
func (c *Collector) CycleScore() float64 {
	n := len(c.aliveHistory)
	if n < c.historyMin {
		return 0
	}

	window := n / 2
	if window > 20 {
		window = 20
	}

	current := float64(c.aliveHistory[n-1])
	var sum float64
	count := 0
	for lag := 1; lag <= window; lag++ {
		lagged := float64(c.aliveHistory[n-1-lag])
		if current >= lagged {
			sum += current - lagged
		} else {
			sum += lagged - current
		}
		count++
	}
	if count == 0 {
		return 0
	}

	score := (sum / float64(count)) / 100.0
	if score > 1 {
		score = 1
	}
	return score
}
