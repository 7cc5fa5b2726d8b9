package telemetry

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vireolab/vireo/field"
	"github.com/vireolab/vireo/sim"
)

// AgentRecord is one row of an agents_NNNN.csv snapshot.
type AgentRecord struct {
	ID     int     `csv:"id"`
	X      float32 `csv:"x"`
	Y      float32 `csv:"y"`
	VX     float32 `csv:"vx"`
	VY     float32 `csv:"vy"`
	Energy float32 `csv:"energy"`
	Alive  uint32  `csv:"alive"`
}

// SnapshotWriter saves field and agent state at selected steps. A nil
// writer discards everything.
type SnapshotWriter struct {
	dir   string
	steps map[int]bool
	final bool
}

// NewSnapshotWriter configures snapshots for the given steps. Returns nil
// if dir is empty.
func NewSnapshotWriter(dir string, steps []int, final bool) (*SnapshotWriter, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	set := make(map[int]bool, len(steps))
	for _, s := range steps {
		set[s] = true
	}
	return &SnapshotWriter{dir: dir, steps: set, final: final}, nil
}

// ShouldSnapshot reports whether step is one of the configured snapshot
// steps, or the last step when final snapshots are enabled.
func (s *SnapshotWriter) ShouldSnapshot(step, lastStep int) bool {
	if s == nil {
		return false
	}
	if s.steps[step] {
		return true
	}
	return s.final && step == lastStep
}

// WriteAll saves the field image, occupancy heatmap and agent CSV for one step.
func (s *SnapshotWriter) WriteAll(step int, grid *field.Grid, occ *field.Occupancy, agents *sim.AgentBuffer) error {
	if s == nil {
		return nil
	}
	if err := s.WriteField(step, grid); err != nil {
		return err
	}
	if err := s.WriteOccupancy(step, occ); err != nil {
		return err
	}
	return s.WriteAgents(step, agents)
}

// WriteField saves R_NNNN.png with the resource channel in red and the
// waste channel in green, each normalized independently.
func (s *SnapshotWriter) WriteField(step int, grid *field.Grid) error {
	if s == nil {
		return nil
	}

	maxR := maxOf(grid.Res)
	maxW := maxOf(grid.Waste)

	img := image.NewRGBA(image.Rect(0, 0, grid.W, grid.H))
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			i := grid.Idx(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: normByte(grid.Res[i], maxR),
				G: normByte(grid.Waste[i], maxW),
				A: 255,
			})
		}
	}

	return writePNG(filepath.Join(s.dir, fmt.Sprintf("R_%04d.png", step)), img)
}

// WriteOccupancy saves occupancy_NNNN.png as a grayscale heatmap
// normalized by the maximum cell count.
func (s *SnapshotWriter) WriteOccupancy(step int, occ *field.Occupancy) error {
	if s == nil {
		return nil
	}

	counts := occ.Counts()
	var maxC uint32
	for _, c := range counts {
		if c > maxC {
			maxC = c
		}
	}

	img := image.NewGray(image.Rect(0, 0, occ.W, occ.H))
	for y := 0; y < occ.H; y++ {
		for x := 0; x < occ.W; x++ {
			v := counts[y*occ.W+x]
			var g uint8
			if maxC > 0 {
				g = uint8(uint64(v) * 255 / uint64(maxC))
			}
			img.SetGray(x, y, color.Gray{Y: g})
		}
	}

	return writePNG(filepath.Join(s.dir, fmt.Sprintf("occupancy_%04d.png", step)), img)
}

// WriteAgents saves agents_NNNN.csv with full per-agent state.
func (s *SnapshotWriter) WriteAgents(step int, agents *sim.AgentBuffer) error {
	if s == nil {
		return nil
	}

	records := make([]AgentRecord, agents.Len())
	for i := range records {
		a := agents.At(i)
		records[i] = AgentRecord{
			ID:     i,
			X:      a.Pos[0],
			Y:      a.Pos[1],
			VX:     a.Vel[0],
			VY:     a.Vel[1],
			Energy: a.Energy,
			Alive:  a.Alive,
		}
	}

	f, err := os.Create(filepath.Join(s.dir, fmt.Sprintf("agents_%04d.csv", step)))
	if err != nil {
		return fmt.Errorf("creating agent snapshot: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing agent snapshot: %w", err)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding snapshot image: %w", err)
	}
	return nil
}

func maxOf(vals []float32) float32 {
	var m float32
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

func normByte(v, max float32) uint8 {
	if max <= 0 {
		return 0
	}
	n := v / max
	if n > 1 {
		n = 1
	}
	return uint8(n * 255)
}
