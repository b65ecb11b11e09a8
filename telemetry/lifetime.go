package telemetry

// LifetimeStats tracks per-droplet statistics over its lifetime.
type LifetimeStats struct {
	BirthTick int32

	// Origin
	FromClick bool

	// Physics history
	Merges    int     // droplets absorbed
	Stickings int     // times caught on the glass
	PeakSize  float64 // largest radius reached
	Distance  float64 // path length travelled
}

// LifetimeTracker manages per-droplet lifetime statistics keyed by entity ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new droplet.
func (lt *LifetimeTracker) Register(entityID uint32, birthTick int32, size float64, fromClick bool) {
	lt.stats[entityID] = &LifetimeStats{
		BirthTick: birthTick,
		FromClick: fromClick,
		PeakSize:  size,
	}
}

// Get returns the lifetime stats for a droplet, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes a droplet's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordMerge credits the surviving droplet with an absorbed one and its
// new size.
func (lt *LifetimeTracker) RecordMerge(survivorID uint32, size float64) {
	if s := lt.stats[survivorID]; s != nil {
		s.Merges++
		if size > s.PeakSize {
			s.PeakSize = size
		}
	}
}

// RecordStuck increments the sticking count.
func (lt *LifetimeTracker) RecordStuck(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.Stickings++
	}
}

// RecordMove adds travelled distance and tracks peak size.
func (lt *LifetimeTracker) RecordMove(entityID uint32, distance, size float64) {
	if s := lt.stats[entityID]; s != nil {
		s.Distance += distance
		if size > s.PeakSize {
			s.PeakSize = size
		}
	}
}

// Age returns the number of ticks a droplet has been alive, or 0 if unknown.
func (lt *LifetimeTracker) Age(entityID uint32, currentTick int32) int {
	if s := lt.stats[entityID]; s != nil {
		return int(currentTick - s.BirthTick)
	}
	return 0
}

// Count returns the number of tracked droplets.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Clear forgets every tracked droplet.
func (lt *LifetimeTracker) Clear() {
	clear(lt.stats)
}
