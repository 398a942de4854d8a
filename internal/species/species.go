// Package species loads the species profile table: a JSON document checked
// against an embedded schema and converted into entity.Profile values.
package species

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"island-sim/internal/entity"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed defaults.json
var defaultsJSON []byte

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("species.schema.json", schemaJSON)

const defaultBoundsFraction = 0.8

type document struct {
	Species []profileDoc `json:"species"`
}

type chaseDoc struct {
	Distance        float64 `json:"distance"`
	Speed           float64 `json:"speed"`
	DurationMS      int64   `json:"duration_ms"`
	TriggerDelayMS  int64   `json:"trigger_delay_ms"`
	AlertCooldownMS int64   `json:"alert_cooldown_ms"`
}

type grazeDoc struct {
	MoveMS [2]int64 `json:"move_ms"`
	RestMS [2]int64 `json:"rest_ms"`
	Bob    float64  `json:"bob"`
}

type schoolDoc struct {
	InteractionRadius float64    `json:"interaction_radius"`
	PairRepulsion     float64    `json:"pair_repulsion"`
	OriginRepulsion   float64    `json:"origin_repulsion"`
	TooClose          float64    `json:"too_close"`
	StuckLimitMS      int64      `json:"stuck_limit_ms"`
	OriginGuard       float64    `json:"origin_guard"`
	Territory         [2]float64 `json:"territory"`
	ScentRange        float64    `json:"scent_range"`
	PersonalSpace     float64    `json:"personal_space"`
	TurnMS            [2]int64   `json:"turn_ms"`
}

type circleDoc struct {
	Radius      [2]float64 `json:"radius"`
	RadiusSwing float64    `json:"radius_swing"`
	Altitude    [2]float64 `json:"altitude"`
	Clearance   float64    `json:"clearance"`
	Bank        float64    `json:"bank"`
}

type profileDoc struct {
	Name           string     `json:"name"`
	Model          string     `json:"model"`
	Behavior       string     `json:"behavior"`
	Habitat        string     `json:"habitat"`
	BaseSpeed      float64    `json:"base_speed"`
	WanderSpeed    [2]float64 `json:"wander_speed"`
	WanderRadius   float64    `json:"wander_radius"`
	Chase          *chaseDoc  `json:"chase"`
	YawOffset      float64    `json:"yaw_offset"`
	VerticalOffset float64    `json:"vertical_offset"`
	WaterMargin    float64    `json:"water_margin"`
	BoundsFraction float64    `json:"bounds_fraction"`
	SlopeTilt      bool       `json:"slope_tilt"`
	RollSway       float64    `json:"roll_sway"`
	Bob            float64    `json:"bob"`
	Graze          *grazeDoc  `json:"graze"`
	School         *schoolDoc `json:"school"`
	Circle         *circleDoc `json:"circle"`
}

// Table is the profile table keyed by species name. Profiles are shared by
// pointer and must not be mutated after loading.
type Table struct {
	byName map[string]*entity.Profile
	order  []string
}

// Default returns the table bundled with the binary.
func Default() *Table {
	t, err := Parse(defaultsJSON)
	if err != nil {
		panic(fmt.Sprintf("species: embedded defaults: %v", err))
	}
	return t
}

// Empty returns a table with no species. Every lookup misses.
func Empty() *Table {
	return &Table{byName: map[string]*entity.Profile{}}
}

// Load reads a species table from path. An empty path yields Default.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("species file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse validates data against the schema and converts it.
func Parse(data []byte) (*Table, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode species: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("species schema: %w", err)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode species: %w", err)
	}

	t := &Table{byName: make(map[string]*entity.Profile, len(doc.Species))}
	for _, pd := range doc.Species {
		if _, dup := t.byName[pd.Name]; dup {
			return nil, fmt.Errorf("species %q defined twice", pd.Name)
		}
		p, err := pd.profile()
		if err != nil {
			return nil, err
		}
		t.byName[p.Name] = p
		t.order = append(t.order, p.Name)
	}
	return t, nil
}

func ms(v int64) time.Duration { return time.Duration(v) * time.Millisecond }

func (pd profileDoc) profile() (*entity.Profile, error) {
	kind, err := entity.ParseBehaviorKind(pd.Behavior)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pd.Name, err)
	}
	habitat, err := entity.ParseHabitat(pd.Habitat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pd.Name, err)
	}

	p := &entity.Profile{
		Name:           pd.Name,
		Model:          pd.Model,
		Behavior:       kind,
		Habitat:        habitat,
		BaseSpeed:      pd.BaseSpeed,
		WanderSpeedMin: pd.WanderSpeed[0],
		WanderSpeedMax: pd.WanderSpeed[1],
		WanderRadius:   pd.WanderRadius,
		YawOffset:      pd.YawOffset,
		VerticalOffset: pd.VerticalOffset,
		WaterMargin:    pd.WaterMargin,
		BoundsFraction: pd.BoundsFraction,
		SlopeTilt:      pd.SlopeTilt,
		RollSway:       pd.RollSway,
		Bob:            pd.Bob,
	}
	if p.BoundsFraction == 0 {
		p.BoundsFraction = defaultBoundsFraction
	}
	if p.WanderSpeedMax == 0 {
		p.WanderSpeedMin, p.WanderSpeedMax = p.BaseSpeed, p.BaseSpeed
	}
	if c := pd.Chase; c != nil {
		p.Chase = entity.ChaseParams{
			Distance:      c.Distance,
			Speed:         c.Speed,
			Duration:      ms(c.DurationMS),
			TriggerDelay:  ms(c.TriggerDelayMS),
			AlertCooldown: ms(c.AlertCooldownMS),
		}
	}
	if g := pd.Graze; g != nil {
		p.Graze = entity.GrazeParams{
			MoveMin: ms(g.MoveMS[0]), MoveMax: ms(g.MoveMS[1]),
			RestMin: ms(g.RestMS[0]), RestMax: ms(g.RestMS[1]),
			Bob: g.Bob,
		}
	}
	if s := pd.School; s != nil {
		p.School = entity.SchoolParams{
			InteractionRadius: s.InteractionRadius,
			PairRepulsion:     s.PairRepulsion,
			OriginRepulsion:   s.OriginRepulsion,
			TooClose:          s.TooClose,
			StuckLimit:        ms(s.StuckLimitMS),
			OriginGuard:       s.OriginGuard,
			TerritoryMin:      s.Territory[0],
			TerritoryMax:      s.Territory[1],
			ScentRange:        s.ScentRange,
			PersonalSpace:     s.PersonalSpace,
			TurnMin:           ms(s.TurnMS[0]),
			TurnMax:           ms(s.TurnMS[1]),
		}
	}
	if c := pd.Circle; c != nil {
		p.Circle = entity.CircleParams{
			RadiusMin:   c.Radius[0],
			RadiusMax:   c.Radius[1],
			RadiusSwing: c.RadiusSwing,
			AltitudeMin: c.Altitude[0],
			AltitudeMax: c.Altitude[1],
			Clearance:   c.Clearance,
			Bank:        c.Bank,
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the profile for name.
func (t *Table) Get(name string) (*entity.Profile, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// Names lists species in document order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

func (t *Table) Len() int { return len(t.order) }
