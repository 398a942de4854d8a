package main

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"island-sim/internal/config"
	"island-sim/internal/entity"
	"island-sim/internal/game"
	"island-sim/internal/profiling"
	"island-sim/internal/world"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

const (
	placeholderGlyph = '?'
	playerGlyph      = '@'
	shelterGlyph     = '#'
	treeGlyph        = 'T'

	// Visuals attach after a random delay in this range.
	attachMin = 300 * time.Millisecond
	attachMax = 1500 * time.Millisecond
)

var speciesGlyphs = map[string]rune{
	"bear":  'B',
	"boss":  'X',
	"wolf":  'W',
	"pig":   'p',
	"hippo": 'H',
	"shark": 'S',
	"bird":  'v',
}

// glyphFor returns the map glyph of a species, falling back to its initial.
func glyphFor(species string) rune {
	if g, ok := speciesGlyphs[species]; ok {
		return g
	}
	for _, r := range species {
		return r
	}
	return '*'
}

// projection maps world XZ onto a w×h cell grid centred on the island.
type projection struct {
	w, h  int
	scale float64 // world units per column
}

func newProjection(w, h int, size float64) projection {
	// Terminal cells are about twice as tall as wide.
	scale := math.Max(size/float64(max(w, 1)), size/float64(max(h*2, 1)))
	return projection{w: w, h: h, scale: scale}
}

func (p projection) toScreen(x, z float64) (int, int, bool) {
	cx := int(math.Floor(x/p.scale)) + p.w/2
	cy := int(math.Floor(z/(p.scale*2))) + p.h/2
	return cx, cy, cx >= 0 && cy >= 0 && cx < p.w && cy < p.h
}

func (p projection) toWorld(cx, cy int) (x, z float64) {
	x = (float64(cx-p.w/2) + 0.5) * p.scale
	z = (float64(cy-p.h/2) + 0.5) * p.scale * 2
	return x, z
}

// visuals tracks which agents have their visual attached. Attachment
// completes on a timer and never blocks the tick.
type visuals struct {
	mu       sync.Mutex
	attached map[uuid.UUID]bool
	rng      *rand.Rand
}

func newVisuals(seed int64) *visuals {
	return &visuals{attached: make(map[uuid.UUID]bool), rng: rand.New(rand.NewSource(seed))}
}

// ready reports whether id is attached, starting the load on first sight.
func (v *visuals) ready(id uuid.UUID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	done, seen := v.attached[id]
	if seen {
		return done
	}
	v.attached[id] = false
	delay := attachMin + time.Duration(v.rng.Int63n(int64(attachMax-attachMin)))
	time.AfterFunc(delay, func() {
		v.mu.Lock()
		v.attached[id] = true
		v.mu.Unlock()
	})
	return false
}

// view draws a session top-down onto a tcell screen.
type view struct {
	screen  tcell.Screen
	visuals *visuals

	proj    projection
	terrain [][]cell
}

type cell struct {
	r     rune
	style tcell.Style
}

func newView(s tcell.Screen, seed int64) *view {
	return &view{screen: s, visuals: newVisuals(seed)}
}

// layout rebuilds the terrain backdrop when the screen size changes.
func (v *view) layout(w *world.World) {
	sw, sh := v.screen.Size()
	sh = max(sh-1, 0) // status line
	if v.terrain != nil && sw == v.proj.w && sh == v.proj.h {
		return
	}
	defer profiling.Track("view.Layout")()

	hf := w.HeightField()
	v.proj = newProjection(sw, sh, hf.Size())
	wl := hf.WaterLevel()
	_, hi := hf.MinMax()

	v.terrain = make([][]cell, sh)
	for y := range sh {
		row := make([]cell, sw)
		for x := range sw {
			wx, wz := v.proj.toWorld(x, y)
			row[x] = terrainCell(w.Ground().Height(wx, wz, wl-1), wl, hi)
		}
		v.terrain[y] = row
	}
	for _, t := range w.Foliage() {
		if x, y, ok := v.proj.toScreen(t.X(), t.Z()); ok {
			v.terrain[y][x] = cell{treeGlyph, tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)}
		}
	}
	if s, ok := w.Shelter(); ok {
		if x, y, ok := v.proj.toScreen(s.Position.X(), s.Position.Z()); ok {
			v.terrain[y][x] = cell{shelterGlyph, tcell.StyleDefault.Foreground(tcell.ColorSandyBrown).Bold(true)}
		}
	}
}

func terrainCell(h, wl, hi float64) cell {
	st := tcell.StyleDefault
	switch {
	case h < wl-3:
		return cell{'~', st.Foreground(tcell.ColorNavy)}
	case h < wl:
		return cell{'~', st.Foreground(tcell.ColorBlue)}
	case h < wl+3:
		return cell{'.', st.Foreground(tcell.ColorKhaki)}
	case h > wl+(hi-wl)*0.7:
		return cell{'^', st.Foreground(tcell.ColorGray)}
	default:
		return cell{',', st.Foreground(tcell.ColorGreen)}
	}
}

// Render implements game.Renderer.
func (v *view) Render(s *game.Session) {
	v.layout(s.World)
	v.screen.Clear()

	for y, row := range v.terrain {
		for x, c := range row {
			v.screen.SetContent(x, y, c.r, nil, c.style)
		}
	}

	debug := config.GetDebugOverlay()
	for _, a := range s.World.Views() {
		x, y, ok := v.proj.toScreen(a.Position.X(), a.Position.Z())
		if !ok {
			continue
		}
		glyph := placeholderGlyph
		if v.visuals.ready(a.ID) {
			glyph = glyphFor(a.Species)
		}
		st := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if debug {
			st = stateStyle(a.State)
		}
		v.screen.SetContent(x, y, glyph, nil, st)
	}

	p := s.Player.Position
	if x, y, ok := v.proj.toScreen(p.X(), p.Z()); ok {
		v.screen.SetContent(x, y, playerGlyph, nil, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}

	v.status(s, debug)
	v.screen.Show()
}

func stateStyle(st entity.State) tcell.Style {
	switch st {
	case entity.Chasing:
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case entity.Resting:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
}

func (v *view) status(s *game.Session, debug bool) {
	p := s.Player
	line := fmt.Sprintf(" t=%s x=%.0f z=%.0f %s", s.World.Now().Truncate(time.Second), p.Position.X(), p.Position.Z(), p.State)
	if p.InWater() {
		line += " wading"
	}
	if s.Paused {
		line += " [paused]"
	}
	if debug {
		for _, g := range s.World.Groups().Summaries() {
			if g.Chasing > 0 {
				line += fmt.Sprintf(" %s:chasing", g.Name)
			}
		}
		line += " " + profiling.TopNTick(2)
	}
	_, sh := v.screen.Size()
	for i, r := range line {
		v.screen.SetContent(i, sh-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
}
