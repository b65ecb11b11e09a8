package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rainglass/components"
)

// pickSlop widens the pick radius so small droplets stay clickable.
const pickSlop = 4.0

// DropletAt returns the active droplet nearest to (x, y) whose body, widened
// by a few pixels, contains the point.
func (s *Simulation) DropletAt(x, y float64) (ecs.Entity, bool) {
	var (
		best     ecs.Entity
		bestDist = -1.0
	)
	s.Each(func(e ecs.Entity, pos *components.Position, d *components.Droplet) {
		if !d.Active {
			return
		}
		dx, dy := pos.X-x, pos.Y-y
		dist := dx*dx + dy*dy
		r := d.Size + pickSlop
		if dist > r*r {
			return
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = e, dist
		}
	})
	return best, bestDist >= 0
}
