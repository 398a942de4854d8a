package world

import (
	"sync"

	"island-sim/internal/behavior"
	"island-sim/internal/entity"
	"island-sim/internal/profiling"
)

// GroupManager serializes engine updates against renderer reads.
type GroupManager struct {
	engine *behavior.Engine
	mu     sync.RWMutex
}

// NewGroupManager wraps an engine.
func NewGroupManager(engine *behavior.Engine) *GroupManager {
	return &GroupManager{engine: engine}
}

// Add registers a group with the engine.
func (gm *GroupManager) Add(g *behavior.Group) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.engine.AddGroup(g)
}

// Update advances all groups by one tick.
func (gm *GroupManager) Update(tick behavior.Tick, player behavior.PlayerSnapshot) {
	defer profiling.Track("world.UpdateAgents")()
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.engine.Update(tick, player)
}

// Views returns a snapshot of every agent.
func (gm *GroupManager) Views() []entity.View {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	var result []entity.View
	for _, g := range gm.engine.Groups() {
		for _, a := range g.Agents {
			result = append(result, a.View())
		}
	}
	return result
}

// GroupSummary is a per-group state count.
type GroupSummary struct {
	Name    string
	Species string
	Agents  int
	Chasing int
	Resting int
	Wander  int
}

func (gm *GroupManager) Summaries() []GroupSummary {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	out := make([]GroupSummary, 0, len(gm.engine.Groups()))
	for _, g := range gm.engine.Groups() {
		s := GroupSummary{Name: g.Name, Species: g.Species.Name, Agents: len(g.Agents)}
		for _, a := range g.Agents {
			switch a.State {
			case entity.Chasing:
				s.Chasing++
			case entity.Resting:
				s.Resting++
			default:
				s.Wander++
			}
		}
		out = append(out, s)
	}
	return out
}

// Count returns the number of agents across all groups.
func (gm *GroupManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	n := 0
	for _, g := range gm.engine.Groups() {
		n += len(g.Agents)
	}
	return n
}
