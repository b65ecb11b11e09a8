package systems

// SystemInfo describes a simulation stage for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this stage does
	Category    string // Grouping (e.g., "field", "droplets")
}

// SystemRegistry holds metadata about all pipeline stages.
// This centralizes stage naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known stages.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the tick pipeline stages in execution order.
// IDs match the telemetry phase names.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "regenerate", Name: "Regenerate", Description: "Fog creeps back over cleared glass", Category: "field"})
	r.Register(SystemInfo{ID: "spawn", Name: "Spawn", Description: "New droplets at the top edge", Category: "droplets"})
	r.Register(SystemInfo{ID: "update", Name: "Update", Description: "Droplet lifecycle and fog coupling", Category: "droplets"})
	r.Register(SystemInfo{ID: "index", Name: "Index", Description: "Rebuilds the spatial buckets", Category: "core"})
	r.Register(SystemInfo{ID: "collide", Name: "Collide", Description: "Merges overlapping droplets", Category: "droplets"})
	r.Register(SystemInfo{ID: "compact", Name: "Compact", Description: "Removes inactive droplets", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Flushes stats windows and bookmarks", Category: "core"})
	r.Register(SystemInfo{ID: "draw", Name: "Draw", Description: "Emits fog and droplet draw commands", Category: "render"})
}

// Register adds a stage to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns stage info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a stage ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered stages.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all stage IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
