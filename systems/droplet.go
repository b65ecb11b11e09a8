package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/rainglass/components"
	"github.com/pthm-cable/rainglass/config"
)

// Fog deposited when a trail point evaporates.
const (
	trailFogMoving  = 0.02 // evicted from a moving droplet's trail, radius = size
	trailFogResting = 0.01 // drained from a stopped or stuck droplet, radius = size/2
)

// Event flags report lifecycle transitions from a droplet update.
type Event uint8

const (
	EventStopped Event = 1 << iota
	EventStarted
	EventStuck
	EventUnstuck
	EventGrew
	EventFading
	EventExpired
)

// Has reports whether all flags in f are set.
func (e Event) Has(f Event) bool {
	return e&f == f
}

// DropletSystem advances droplets through their lifecycle and couples them
// to the fog field.
type DropletSystem struct {
	cfg *config.Config
	fog *FogField
	rng *rand.Rand
}

// NewDropletSystem creates a droplet system. cfg is read live each update.
func NewDropletSystem(cfg *config.Config, fog *FogField, rng *rand.Rand) *DropletSystem {
	return &DropletSystem{cfg: cfg, fog: fog, rng: rng}
}

// RandomSize draws a spawn size from the configured range.
func (s *DropletSystem) RandomSize() float64 {
	d := &s.cfg.Drops
	return d.SizeMin + s.rng.Float64()*(d.SizeMax-d.SizeMin)
}

// NewDroplet builds a Moving droplet at (x, y). A non-positive size draws
// one from the configured range.
func (s *DropletSystem) NewDroplet(x, y, size float64) (components.Position, components.Droplet) {
	dc := &s.cfg.Droplet
	if !(size > 0) {
		size = s.RandomSize()
	}

	d := components.Droplet{
		BaseSpeed: s.cfg.Drops.BaseSpeed * (1 + s.rng.Float64()*dc.BaseSpeedJitter),
		Momentum:  s.signed() * dc.MomentumInitial,
		Trail:     make([]components.Position, 0, int(s.maxTrail(size))+1),
		Opacity:   s.cfg.Drops.Opacity + s.rng.Float64()*dc.OpacityJitter,
		Phase:     components.Moving{},
		Active:    true,
		CanStick:  s.rng.Float64() < dc.StickFraction,
		LossRate:  s.cfg.Drops.WeightLossRate + s.rng.Float64()*dc.LossRateJitter,
	}
	d.SetSize(size)
	d.Speed = d.BaseSpeed
	d.MaxSpeed = s.maxSpeed(size)
	d.StuckDuration = dc.StuckMin + s.intn(dc.StuckMax-dc.StuckMin+1)
	d.MomentumInterval = s.nextMomentumInterval()

	return components.Position{X: x, Y: y}, d
}

// Update advances one droplet by one tick. At most one lifecycle transition
// happens per call. Inactive droplets are left untouched.
func (s *DropletSystem) Update(pos *components.Position, d *components.Droplet) Event {
	if !d.Active {
		return 0
	}

	switch ph := d.Phase.(type) {
	case components.Fading:
		return s.fade(d)
	case components.Stuck:
		return s.stuck(d, ph)
	case components.Stopped:
		return s.stopped(d)
	default:
		if d.Size < s.cfg.Drops.MinActiveSize {
			s.EnterFading(d)
			return EventFading
		}
		if math.Abs(d.Speed) < s.cfg.Droplet.MomentumThreshold {
			d.Speed = 0
			d.Phase = components.Stopped{}
			return EventStopped
		}
		return s.move(pos, d)
	}
}

// EnterFading switches a droplet to Fading: it stops, loses its sideways
// momentum and is drawn as a fog-coloured ghost while the trail drains.
func (s *DropletSystem) EnterFading(d *components.Droplet) {
	d.Phase = components.Fading{}
	d.Speed = 0
	d.Momentum = 0
	d.Opacity = s.cfg.Fog.Opacity
	d.FadeTicks = 0
}

func (s *DropletSystem) move(pos *components.Position, d *components.Droplet) Event {
	dc := &s.cfg.Droplet
	prev := *pos

	// Shed water proportional to size; losing water costs speed.
	prevSize := d.Size
	d.Size = math.Max(0.1, d.Size-d.LossRate*d.Size)
	if prevSize > d.Size {
		d.Speed *= 1 - dc.LossDrag*(prevSize-d.Size)/prevSize
	}

	// Pick up water from the fog under the droplet.
	if density := s.fog.DensityAt(pos.X, pos.Y); density > 0 {
		d.Size += s.cfg.Drops.MassGainRate * density
	}
	d.SetSize(d.Size)
	d.MaxSpeed = s.maxSpeed(d.Size)

	s.fog.ClearAt(pos.X, pos.Y, d.Size*dc.ClearRadiusPerSize+dc.ClearRadiusBase, dc.ClearAmount)

	d.MomentumTimer++
	if d.MomentumTimer >= d.MomentumInterval {
		d.Momentum += s.signed() * dc.MomentumKick
		if math.Abs(d.Momentum) > dc.MomentumLimit {
			d.Momentum *= 0.8
		}
		d.MomentumTimer = 0
		d.MomentumInterval = s.nextMomentumInterval()
	}

	d.Speed = math.Min(d.Speed*(1+dc.Gravity*d.Mass), d.MaxSpeed)
	d.Momentum *= 1 - dc.MomentumDecay

	pos.Y += d.Speed
	pos.X += d.Momentum

	d.PushTrail(prev)
	limit := s.maxTrail(d.Size)
	for float64(len(d.Trail)) > limit {
		p, _ := d.PopTrail()
		s.fog.AddFog(p.X, p.Y, d.Size, trailFogMoving)
	}

	if d.CanStick && s.rng.Float64() < dc.StickChance*(1.5-d.Size/5) {
		d.Phase = components.Stuck{Remaining: d.StuckDuration}
		d.Speed = d.BaseSpeed
		return EventStuck
	}
	return 0
}

func (s *DropletSystem) stuck(d *components.Droplet, ph components.Stuck) Event {
	var ev Event
	ph.Remaining--
	if ph.Remaining <= 0 {
		ev = EventUnstuck
		if s.rng.Float64() < s.cfg.Droplet.UnstickGrowChance {
			d.SetSize(d.Size + 0.5 + s.rng.Float64())
			d.MaxSpeed = s.maxSpeed(d.Size)
			d.Phase = components.Moving{}
			ev |= EventGrew | EventStarted
		} else {
			d.Phase = components.Stopped{}
		}
	} else {
		d.Phase = ph
	}

	s.drain(d, s.cfg.Drops.TrailFadeSpeed*2)
	return ev
}

func (s *DropletSystem) stopped(d *components.Droplet) Event {
	dc := &s.cfg.Droplet
	var ev Event
	if excess := d.Size - dc.MoveThreshold; excess > 0 {
		chance := math.Min(dc.MoveChanceMax, dc.MoveChancePerSize*excess)
		if s.rng.Float64() < chance {
			d.Phase = components.Moving{}
			d.Speed = d.BaseSpeed + excess*dc.MoveBurstPerSize
			d.Momentum = s.signed() * dc.RestartMomentum
			ev = EventStarted
		}
	}

	s.drain(d, s.cfg.Drops.TrailFadeSpeed)
	return ev
}

// fade drains the trail back into the fog and dims the ghost. The droplet
// expires once both the trail and the opacity are gone. After FadeTimeout
// ticks the trail drains every tick so fading always terminates.
func (s *DropletSystem) fade(d *components.Droplet) Event {
	dc := &s.cfg.Droplet
	d.FadeTicks++

	if len(d.Trail) > 0 {
		if d.FadeTicks > dc.FadeTimeout || s.rng.Float64() < s.cfg.Drops.TrailFadeSpeed*3 {
			p, _ := d.PopTrail()
			s.fog.AddFog(p.X, p.Y, d.Size, trailFogMoving)
		}
	}
	d.Opacity *= dc.FadeOpacityDecay

	if len(d.Trail) == 0 && d.Opacity < dc.OpacityEpsilon {
		d.Active = false
		return EventExpired
	}
	return 0
}

// drain evaporates the oldest trail point of a resting droplet with the given probability.
func (s *DropletSystem) drain(d *components.Droplet, chance float64) {
	if len(d.Trail) == 0 || s.rng.Float64() >= chance {
		return
	}
	p, _ := d.PopTrail()
	s.fog.AddFog(p.X, p.Y, d.Size*0.5, trailFogResting)
}

// MaxTrail returns the trail length bound for a droplet of the given size.
func (s *DropletSystem) MaxTrail(size float64) int {
	return int(s.maxTrail(size))
}

func (s *DropletSystem) maxTrail(size float64) float64 {
	return s.cfg.Droplet.TrailBase + size*s.cfg.Droplet.TrailPerSize
}

func (s *DropletSystem) maxSpeed(size float64) float64 {
	return s.cfg.Droplet.MaxSpeedBase + size*s.cfg.Droplet.MaxSpeedPerSize
}

func (s *DropletSystem) nextMomentumInterval() int {
	return s.cfg.Droplet.MomentumInterval + s.intn(s.cfg.Droplet.MomentumJitter)
}

// signed returns a uniform value in [-1, 1).
func (s *DropletSystem) signed() float64 {
	return s.rng.Float64()*2 - 1
}

func (s *DropletSystem) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}
