package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight per-tick CPU section timing. Sections accumulate into the
// current tick and into a running total that survives ResetTick.

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
	allTotals  = make(map[string]time.Duration)
	ticks      int64
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("behavior.Step")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		allTotals[name] += d
		mu.Unlock()
	}
}

// ResetTick clears the current tick's totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	clear(tickTotals)
	ticks++
	mu.Unlock()
}

// Reset clears everything, including the running totals.
func Reset() {
	mu.Lock()
	clear(tickTotals)
	clear(allTotals)
	ticks = 0
	mu.Unlock()
}

// Ticks is the number of ResetTick calls since the last Reset.
func Ticks() int64 {
	mu.Lock()
	defer mu.Unlock()
	return ticks
}

// TickSnapshot returns a copy of the current tick's totals.
func TickSnapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return copyTotals(tickTotals)
}

// TotalSnapshot returns a copy of the running totals.
func TotalSnapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return copyTotals(allTotals)
}

func copyTotals(m map[string]time.Duration) map[string]time.Duration {
	out := make(map[string]time.Duration, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TopNTick formats the n most expensive sections of the current tick.
// Example: "behavior.Step:4.2ms, world.Update:2.1ms"
func TopNTick(n int) string {
	return topN(TickSnapshot(), n)
}

// TopNTotal formats the n most expensive sections since the last Reset.
func TopNTotal(n int) string {
	return topN(TotalSnapshot(), n)
}

func topN(totals map[string]time.Duration, n int) string {
	type entry struct {
		name string
		dur  time.Duration
	}
	list := make([]entry, 0, len(totals))
	for k, v := range totals {
		list = append(list, entry{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		ms := float64(e.dur.Microseconds()) / 1000.0
		parts = append(parts, e.name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms")
	}
	return strings.Join(parts, ", ")
}
