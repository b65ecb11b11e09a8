// Package systems provides the fog field, spatial index and droplet physics.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// SpatialGrid buckets droplet entities by position for collision candidate
// lookups. It holds references only and is rebuilt every tick.
type SpatialGrid struct {
	bucketSize float64
	cols       int
	rows       int
	cells      [][]ecs.Entity // flat grid of entity lists
}

// NewSpatialGrid creates a spatial grid covering the given surface size.
func NewSpatialGrid(width, height, bucketSize float64) *SpatialGrid {
	cols := int(width/bucketSize) + 1
	rows := int(height/bucketSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4) // pre-allocate small capacity
	}

	return &SpatialGrid{
		bucketSize: bucketSize,
		cols:       cols,
		rows:       rows,
		cells:      cells,
	}
}

// Clear removes all entities from the grid, keeping bucket capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid. Positions outside the surface are
// clamped to the nearest edge bucket, never dropped.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float64) {
	col, row := g.bucket(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryInto appends every entity stored in a bucket overlapping the
// bounding box of the disc (x, y, radius) and returns the updated slice.
// The result is a superset of the entities within radius; callers apply
// their own distance test. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []ecs.Entity, x, y, radius float64) []ecs.Entity {
	if radius < 0 || math.IsNaN(radius) {
		radius = 0
	}
	c0, r0 := g.bucket(x-radius, y-radius)
	c1, r1 := g.bucket(x+radius, y+radius)

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// Len returns the number of stored references.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// bucket returns the clamped bucket coordinates for a surface position.
func (g *SpatialGrid) bucket(x, y float64) (col, row int) {
	col = clampIndex(x/g.bucketSize, g.cols)
	row = clampIndex(y/g.bucketSize, g.rows)
	return col, row
}

func clampIndex(v float64, n int) int {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= float64(n-1) {
		return n - 1
	}
	return int(v)
}
