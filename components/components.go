// Package components defines ECS components for the simulation.
package components

import "math"

// Position represents an entity's position on the glass surface.
// Y grows downwards.
type Position struct {
	X, Y float64
}

// Phase is the lifecycle state of a droplet. Exactly one of Moving,
// Stopped, Stuck or Fading.
type Phase interface {
	phase()
	String() string
}

// Moving droplets slide down, grow, shrink and clear fog.
type Moving struct{}

// Stopped droplets rest until they are heavy enough to move again.
type Stopped struct{}

// Stuck droplets are pinned for a countdown.
type Stuck struct {
	Remaining int // Ticks left before the droplet unsticks
}

// Fading droplets have left play; their trail drains back into fog.
type Fading struct{}

func (Moving) phase()  {}
func (Stopped) phase() {}
func (Stuck) phase()   {}
func (Fading) phase()  {}

func (Moving) String() string  { return "moving" }
func (Stopped) String() string { return "stopped" }
func (Stuck) String() string   { return "stuck" }
func (Fading) String() string  { return "fading" }

// Droplet holds the physical and lifecycle state of one water droplet.
type Droplet struct {
	Size      float64 // Radius
	Mass      float64 // Always π·Size², maintained by SetSize
	Speed     float64 // Downward speed per tick
	BaseSpeed float64
	MaxSpeed  float64
	Momentum  float64 // Sideways drift per tick

	// Trail holds previous positions, most recent first.
	Trail []Position

	Opacity float64
	Phase   Phase
	Active  bool

	// Per-droplet randomised traits
	CanStick      bool
	StuckDuration int
	LossRate      float64

	// Timers
	MomentumTimer    int
	MomentumInterval int
	FadeTicks        int
}

// SetSize updates size and the derived mass.
func (d *Droplet) SetSize(size float64) {
	d.Size = size
	d.Mass = MassOf(size)
}

// MassOf returns the mass of a droplet of the given size.
func MassOf(size float64) float64 {
	return math.Pi * size * size
}

// SizeOf inverts MassOf.
func SizeOf(mass float64) float64 {
	return math.Sqrt(mass / math.Pi)
}

// PushTrail records p as the most recent trail point.
func (d *Droplet) PushTrail(p Position) {
	d.Trail = append(d.Trail, Position{})
	copy(d.Trail[1:], d.Trail)
	d.Trail[0] = p
}

// PopTrail removes and returns the oldest trail point.
func (d *Droplet) PopTrail() (Position, bool) {
	n := len(d.Trail)
	if n == 0 {
		return Position{}, false
	}
	p := d.Trail[n-1]
	d.Trail = d.Trail[:n-1]
	return p, true
}

// IsMoving reports whether the droplet is in the Moving phase.
func (d *Droplet) IsMoving() bool {
	_, ok := d.Phase.(Moving)
	return ok
}

// IsFading reports whether the droplet is in the Fading phase.
func (d *Droplet) IsFading() bool {
	_, ok := d.Phase.(Fading)
	return ok
}
