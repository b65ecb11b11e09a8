package systems

import (
	"github.com/pthm-cable/rainglass/components"
)

// Collides reports whether two droplets overlap: their centre distance is
// below the sum of their sizes scaled by factor.
func Collides(pa *components.Position, a *components.Droplet, pb *components.Position, b *components.Droplet, factor float64) bool {
	reach := (a.Size + b.Size) * factor
	dx := pb.X - pa.X
	dy := pb.Y - pa.Y
	return dx*dx+dy*dy < reach*reach
}

// Merge combines two droplets into the one with the larger mass (ties go to
// a). Total mass is conserved, the survivor moves to the mass-weighted
// centroid with mass-weighted speed and momentum, and resumes Moving. The
// absorbed droplet is deactivated. Reports whether a survived.
func (s *DropletSystem) Merge(pa *components.Position, a *components.Droplet, pb *components.Position, b *components.Droplet) bool {
	aSurvives := a.Mass >= b.Mass
	winPos, win, losePos, lose := pa, a, pb, b
	if !aSurvives {
		winPos, win, losePos, lose = pb, b, pa, a
	}

	mw, ml := win.Mass, lose.Mass
	total := mw + ml

	// Weighted from the pre-merge masses, before the survivor's size changes.
	winPos.X = (winPos.X*mw + losePos.X*ml) / total
	winPos.Y = (winPos.Y*mw + losePos.Y*ml) / total
	win.Speed = (win.Speed*mw + lose.Speed*ml) / total
	win.Momentum = (win.Momentum*mw + lose.Momentum*ml) / total

	win.Mass = total
	win.Size = components.SizeOf(total)
	win.MaxSpeed = s.maxSpeed(win.Size)
	win.Phase = components.Moving{}

	lose.Active = false
	return aSurvives
}
