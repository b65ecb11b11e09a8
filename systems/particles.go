package systems

import (
	"math"
	"math/rand"
)

// ParticleType identifies the type of splash particle.
type ParticleType uint8

const (
	ParticleMerge ParticleType = iota
	ParticleClick
)

// EffectParticle is a short-lived cosmetic water fleck.
type EffectParticle struct {
	X, Y       float64
	VelX, VelY float64
	Life       int32
	MaxLife    int32
	Type       ParticleType
	Size       float64
}

// ParticleSystem manages splash particles. Particles never touch the fog
// field or any droplet.
type ParticleSystem struct {
	Particles    []EffectParticle
	maxParticles int
	rng          *rand.Rand
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{
		Particles:    make([]EffectParticle, 0, 256),
		maxParticles: 256,
		rng:          rng,
	}
}

// Update ages, moves and compacts all particles.
func (s *ParticleSystem) Update() {
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life--
		if p.Life <= 0 {
			continue
		}

		// Flecks run down the glass
		p.VelY += 0.02

		// Drag
		p.VelX *= 0.92
		p.VelY *= 0.92

		p.X += p.VelX
		p.Y += p.VelY

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// EmitMerge emits a small burst where two droplets joined.
func (s *ParticleSystem) EmitMerge(x, y, size float64) {
	count := 3 + s.rng.Intn(3)
	for i := 0; i < count; i++ {
		s.emit(x, y, size*0.25, 0.4, ParticleMerge)
	}
}

// EmitClick emits a wide burst around a pointer click.
func (s *ParticleSystem) EmitClick(x, y float64) {
	count := 10 + s.rng.Intn(6)
	for i := 0; i < count; i++ {
		s.emit(x, y, 1+s.rng.Float64(), 1.2, ParticleClick)
	}
}

func (s *ParticleSystem) emit(x, y, size, speed float64, ptype ParticleType) {
	if len(s.Particles) >= s.maxParticles {
		return
	}

	// Radial burst
	angle := s.rng.Float64() * 2 * math.Pi
	v := speed * (0.5 + s.rng.Float64()*0.5)
	life := int32(20 + s.rng.Intn(25))

	s.Particles = append(s.Particles, EffectParticle{
		X:       x,
		Y:       y,
		VelX:    math.Cos(angle) * v,
		VelY:    math.Sin(angle) * v,
		Life:    life,
		MaxLife: life,
		Type:    ptype,
		Size:    math.Max(0.5, size),
	})
}

// Clear drops all particles.
func (s *ParticleSystem) Clear() {
	s.Particles = s.Particles[:0]
}

// Count returns the current number of active particles.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}
