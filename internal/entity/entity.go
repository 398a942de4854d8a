package entity

import (
	"fmt"
	"math"
	"time"
)

// State is the behavioral state of an agent.
type State int

const (
	Wandering State = iota
	Chasing
	Resting
)

func (s State) String() string {
	switch s {
	case Wandering:
		return "wandering"
	case Chasing:
		return "chasing"
	case Resting:
		return "resting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Habitat says which ground an agent may stand on.
type Habitat int

const (
	Land Habitat = iota
	Water
	Amphibious
)

func (h Habitat) String() string {
	switch h {
	case Land:
		return "land"
	case Water:
		return "water"
	case Amphibious:
		return "amphibious"
	default:
		return fmt.Sprintf("Habitat(%d)", int(h))
	}
}

func ParseHabitat(s string) (Habitat, error) {
	switch s {
	case "", "land":
		return Land, nil
	case "water":
		return Water, nil
	case "amphibious":
		return Amphibious, nil
	}
	return Land, fmt.Errorf("unknown habitat %q", s)
}

// CanEnterWater reports whether the habitat skips the land suitability check.
func (h Habitat) CanEnterWater() bool { return h != Land }

// AllowsGround reports whether a position with terrain height h is legal
// footing. margin is the land species' required height above water.
func (h Habitat) AllowsGround(height, waterLevel, margin float64) bool {
	switch h {
	case Land:
		return height >= waterLevel+margin
	case Water:
		return height <= waterLevel-margin
	default:
		return true
	}
}

// BehaviorKind selects the per-tick update applied to a species.
type BehaviorKind int

const (
	Roam BehaviorKind = iota
	Graze
	School
	Circle
)

func (k BehaviorKind) String() string {
	switch k {
	case Roam:
		return "roam"
	case Graze:
		return "graze"
	case School:
		return "school"
	case Circle:
		return "circle"
	default:
		return fmt.Sprintf("BehaviorKind(%d)", int(k))
	}
}

func ParseBehaviorKind(s string) (BehaviorKind, error) {
	switch s {
	case "", "roam":
		return Roam, nil
	case "graze":
		return Graze, nil
	case "school":
		return School, nil
	case "circle":
		return Circle, nil
	}
	return Roam, fmt.Errorf("unknown behavior %q", s)
}

// ChaseParams configure pursuit. A zero Distance disables chasing.
type ChaseParams struct {
	Distance      float64
	Speed         float64
	Duration      time.Duration
	TriggerDelay  time.Duration
	AlertCooldown time.Duration
}

// GrazeParams configure the move/rest cycle of grazing species.
type GrazeParams struct {
	MoveMin, MoveMax time.Duration
	RestMin, RestMax time.Duration
	Bob              float64
}

// SchoolParams configure flocking for schooling species.
type SchoolParams struct {
	InteractionRadius float64
	PairRepulsion     float64
	OriginRepulsion   float64
	TooClose          float64
	StuckLimit        time.Duration
	OriginGuard       float64
	TerritoryMin      float64
	TerritoryMax      float64
	ScentRange        float64
	PersonalSpace     float64
	TurnMin, TurnMax  time.Duration
}

// CircleParams configure flyers orbiting a fixed centre. The orbit radius
// swings by RadiusSwing as the agent goes round; altitude is absolute but
// never closer than Clearance to the ground or water below.
type CircleParams struct {
	RadiusMin, RadiusMax     float64
	RadiusSwing              float64
	AltitudeMin, AltitudeMax float64
	Clearance                float64
	Bank                     float64
}

// Profile is the read-only description of a species. Agents share one
// Profile by pointer.
type Profile struct {
	Name     string
	Model    string
	Behavior BehaviorKind
	Habitat  Habitat

	BaseSpeed      float64
	WanderSpeedMin float64
	WanderSpeedMax float64
	WanderRadius   float64

	Chase ChaseParams

	YawOffset      float64
	VerticalOffset float64
	WaterMargin    float64
	BoundsFraction float64
	SlopeTilt      bool
	RollSway       float64
	Bob            float64 // wander bob amplitude

	Graze  GrazeParams
	School SchoolParams
	Circle CircleParams
}

// CanChase reports whether the species ever pursues the player.
func (p *Profile) CanChase() bool {
	return p.Chase.Distance > 0 && p.Chase.Speed > 0
}

// Floor is the lowest y the species' ground reference may take.
func (p *Profile) Floor(waterLevel float64) float64 {
	if p.Habitat == Land {
		return waterLevel + p.WaterMargin
	}
	return waterLevel
}

// Validate reports the first inconsistent field.
func (p *Profile) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("profile has no name")
	case p.BaseSpeed < 0:
		return fmt.Errorf("%s: negative base speed", p.Name)
	case p.WanderSpeedMax < p.WanderSpeedMin:
		return fmt.Errorf("%s: wander speed max below min", p.Name)
	case p.BoundsFraction <= 0 || p.BoundsFraction > 1:
		return fmt.Errorf("%s: bounds fraction %v outside (0,1]", p.Name, p.BoundsFraction)
	case p.Chase.Distance < 0 || p.Chase.Duration < 0 || p.Chase.TriggerDelay < 0:
		return fmt.Errorf("%s: negative chase parameter", p.Name)
	case math.IsNaN(p.YawOffset):
		return fmt.Errorf("%s: yaw offset is NaN", p.Name)
	}
	if p.Behavior == Graze && (p.Graze.MoveMax < p.Graze.MoveMin || p.Graze.RestMax < p.Graze.RestMin) {
		return fmt.Errorf("%s: graze ranges inverted", p.Name)
	}
	if p.Behavior == School && p.School.TerritoryMax < p.School.TerritoryMin {
		return fmt.Errorf("%s: territory range inverted", p.Name)
	}
	if p.Behavior == Circle && (p.Circle.RadiusMax < p.Circle.RadiusMin || p.Circle.AltitudeMax < p.Circle.AltitudeMin) {
		return fmt.Errorf("%s: circle ranges inverted", p.Name)
	}
	return nil
}
