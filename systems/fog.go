package systems

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCellSize is returned for a non-positive or non-finite cell size.
	ErrInvalidCellSize = errors.New("fog cell size must be positive")
	// ErrInvalidSurface is returned for a surface with no area.
	ErrInvalidSurface = errors.New("surface must have positive width and height")
)

// regenSnap absorbs float summation error so a fully regenerated cell
// lands on exactly 1.
const regenSnap = 1e-9

// FogField is a grid of clearance values over the glass surface.
// 1 is fully fogged, 0 is fully clear. Every cell stays in [0, 1].
type FogField struct {
	cols, rows int
	cellSize   float64
	cells      []float64 // row-major
}

// NewFogField creates a field covering width x height, fully fogged.
func NewFogField(width, height, cellSize float64) (*FogField, error) {
	f := &FogField{}
	if err := f.Init(width, height, cellSize); err != nil {
		return nil, err
	}
	return f, nil
}

// Init (re)allocates the grid for the given surface and sets every cell to 1.
func (f *FogField) Init(width, height, cellSize float64) error {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidCellSize, cellSize)
	}
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSurface, width, height)
	}

	f.cellSize = cellSize
	f.cols = int(math.Ceil(width / cellSize))
	f.rows = int(math.Ceil(height / cellSize))

	n := f.cols * f.rows
	if cap(f.cells) >= n {
		f.cells = f.cells[:n]
	} else {
		f.cells = make([]float64, n)
	}
	f.Fill(1)
	return nil
}

// Fill sets every cell to v, clamped to [0, 1].
func (f *FogField) Fill(v float64) {
	v = clamp01(v)
	for i := range f.cells {
		f.cells[i] = v
	}
}

// ClearAt reduces fog in a disc around (x, y). The reduction falls off
// linearly from amount at the centre cell to 0 at the rim.
func (f *FogField) ClearAt(x, y, radius, amount float64) {
	f.apply(x, y, radius, -amount)
}

// AddFog increases fog in a disc around (x, y) with the same falloff as ClearAt.
func (f *FogField) AddFog(x, y, radius, amount float64) {
	f.apply(x, y, radius, amount)
}

// apply adds delta·(1 - d/radiusCells) to each cell within radiusCells
// (cell-space distance) of the cell containing (x, y).
func (f *FogField) apply(x, y, radius, delta float64) {
	if !(radius > 0) || delta == 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}

	col := int(math.Floor(x / f.cellSize))
	row := int(math.Floor(y / f.cellSize))
	rc := int(math.Ceil(radius / f.cellSize))
	rcf := float64(rc)

	// Out-of-range cells are skipped, so only walk the part of the
	// disc's bounding box that overlaps the grid.
	r0, r1 := max(row-rc, 0), min(row+rc, f.rows-1)
	c0, c1 := max(col-rc, 0), min(col+rc, f.cols-1)

	for r := r0; r <= r1; r++ {
		dr := r - row
		for c := c0; c <= c1; c++ {
			dc := c - col
			d := math.Sqrt(float64(dr*dr + dc*dc))
			if d > rcf {
				continue
			}
			idx := r*f.cols + c
			f.cells[idx] = clamp01(f.cells[idx] + delta*(1-d/rcf))
		}
	}
}

// DensityAt returns the value of the cell containing (x, y), or 0 outside the grid.
func (f *FogField) DensityAt(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0
	}
	col := int(math.Floor(x / f.cellSize))
	row := int(math.Floor(y / f.cellSize))
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return 0
	}
	return f.cells[row*f.cols+col]
}

// Regenerate moves every cell below 1 up by rate, capped at 1.
func (f *FogField) Regenerate(rate float64) {
	if !(rate > 0) {
		return
	}
	for i, v := range f.cells {
		if v >= 1 {
			continue
		}
		v += rate
		if v >= 1-regenSnap {
			v = 1
		}
		f.cells[i] = v
	}
}

// Cells returns the row-major cell values. The slice is owned by the field.
func (f *FogField) Cells() []float64 { return f.cells }

// Size returns the grid dimensions in cells.
func (f *FogField) Size() (cols, rows int) { return f.cols, f.rows }

// CellSize returns the surface units per cell.
func (f *FogField) CellSize() float64 { return f.cellSize }

// Coverage returns the mean cell value: 1 for fully fogged glass.
func (f *FogField) Coverage() float64 {
	if len(f.cells) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.cells {
		sum += v
	}
	return sum / float64(len(f.cells))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
