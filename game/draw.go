package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/rainglass/components"
	"github.com/pthm-cable/rainglass/renderer"
	"github.com/pthm-cable/rainglass/systems"
)

// Draw paints the fog field and then every active droplet (trail first,
// body on top) onto c. A Flusher error is returned wrapped.
func (s *Simulation) Draw(c renderer.Canvas) error {
	palette := renderer.NewPalette(s.cfg)

	c.Clear()
	cols, rows := s.fog.Size()
	c.Field(s.fog.Cells(), cols, rows, s.fog.CellSize(), palette.Fog, s.cfg.Fog.Opacity)

	query := s.dropFilter.Query()
	for query.Next() {
		pos, d := query.Get()
		if d.Active {
			s.drawDroplet(c, palette, pos, d)
		}
	}

	if s.cfg.Visual.BackgroundFlourish {
		drawParticles(c, palette, s.particles)
	}

	if f, ok := c.(renderer.Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("presenting frame %d: %w", s.tick, err)
		}
	}
	return nil
}

func (s *Simulation) drawDroplet(c renderer.Canvas, palette renderer.Palette, pos *components.Position, d *components.Droplet) {
	tint := palette.Drop
	if d.IsFading() {
		tint = palette.Fog
	}

	// Trail tapers in width and alpha towards its oldest point.
	n := float64(len(d.Trail))
	prev := *pos
	for i, p := range d.Trail {
		t := 1 - float64(i)/n
		c.Segment(prev.X, prev.Y, p.X, p.Y,
			math.Max(0.1, d.Size*t*0.8),
			tint.WithAlpha(d.Opacity*t*0.7))
		prev = p
	}

	body := tint.WithAlpha(d.Opacity)
	if s.cfg.Visual.DynamicShape && d.IsMoving() {
		// Tail disc behind the body, opposite to the motion.
		stretch := math.Min(d.Speed, d.Size)
		c.Disc(pos.X-d.Momentum, pos.Y-stretch, d.Size*0.8, body)
	}
	c.Disc(pos.X, pos.Y, d.Size, body)

	if s.cfg.Visual.Refraction && !d.IsFading() {
		glint := palette.Highlight.WithAlpha(math.Min(1, d.Opacity*2))
		c.RadialGradient(pos.X-d.Size*0.3, pos.Y-d.Size*0.3, d.Size*0.6, glint, glint.WithAlpha(0))
	}
}

func drawParticles(c renderer.Canvas, palette renderer.Palette, ps *systems.ParticleSystem) {
	for i := range ps.Particles {
		p := &ps.Particles[i]
		life := float64(p.Life) / float64(p.MaxLife)
		c.Disc(p.X, p.Y, p.Size*life, palette.Highlight.WithAlpha(0.5*life))
	}
}
