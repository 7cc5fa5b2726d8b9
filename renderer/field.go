package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/field"
)

// Overlay selects which data the field renderer visualizes.
type Overlay int

const (
	OverlayResource Overlay = iota
	OverlayWaste
	OverlayOccupancy
)

func (o Overlay) String() string {
	switch o {
	case OverlayResource:
		return "resource"
	case OverlayWaste:
		return "waste"
	case OverlayOccupancy:
		return "occupancy"
	default:
		return "unknown"
	}
}

// FieldRenderer draws the chemical field (or the occupancy buffer) as a
// screen-filling texture, one texel per grid cell.
type FieldRenderer struct {
	tex        rl.Texture2D
	pixels     []color.RGBA
	texW, texH int

	screenW, screenH float32
	initialized      bool
}

// NewFieldRenderer creates a field renderer for the given screen size.
func NewFieldRenderer(screenW, screenH int32) *FieldRenderer {
	return &FieldRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
	}
}

// Init creates the GPU texture. Must be called after the raylib window
// exists. Safe to call again after a grid resize.
func (r *FieldRenderer) Init(gridW, gridH int) {
	if r.initialized && gridW == r.texW && gridH == r.texH {
		return
	}
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}

	r.texW = gridW
	r.texH = gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Resize updates the screen dimensions.
func (r *FieldRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// Update uploads the front field (or occupancy) to the texture. The field
// arrives as the render stage's binding set; its single slot is the sampled
// view of the front grid.
func (r *FieldRenderer) Update(bind *compute.BindingSet, occ *field.Occupancy, overlay Overlay) {
	grid := bind.Resource(0).(*field.SampleView).Grid()
	if !r.initialized || grid.W != r.texW || grid.H != r.texH {
		r.Init(grid.W, grid.H)
	}

	switch overlay {
	case OverlayOccupancy:
		r.fillOccupancy(occ)
	default:
		r.fillField(grid, overlay)
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

func (r *FieldRenderer) fillField(grid *field.Grid, overlay Overlay) {
	maxR := maxOf(grid.Res)
	maxW := maxOf(grid.Waste)

	for i := range r.pixels {
		switch overlay {
		case OverlayWaste:
			r.pixels[i] = color.RGBA{G: normByte(grid.Waste[i], maxW), A: 255}
		default:
			// Resource in red, a faint waste tint in green for context.
			r.pixels[i] = color.RGBA{
				R: normByte(grid.Res[i], maxR),
				G: normByte(grid.Waste[i], maxW) / 3,
				A: 255,
			}
		}
	}
}

func (r *FieldRenderer) fillOccupancy(occ *field.Occupancy) {
	counts := occ.Counts()
	var maxC uint32
	for _, c := range counts {
		if c > maxC {
			maxC = c
		}
	}

	for i, c := range counts {
		var v uint8
		if maxC > 0 {
			v = uint8(uint64(c) * 255 / uint64(maxC))
		}
		r.pixels[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

// Draw renders the field texture stretched to the full screen.
func (r *FieldRenderer) Draw() {
	if !r.initialized {
		return
	}

	src := rl.Rectangle{Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{Width: r.screenW, Height: r.screenH}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
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
