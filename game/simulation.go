package game

import (
	"log/slog"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/fixed"
	"github.com/pthm-cable/blips/store"
	"github.com/pthm-cable/blips/systems"
	"github.com/pthm-cable/blips/telemetry"
)

// Update advances the world by one tick of dt seconds. The phases run in a
// fixed order; decide and motion fan out over the worker pool and every
// other phase is serial.
func (g *Game) Update(dt float64) {
	g.perf.StartTick()
	var ts telemetry.TickStats

	// 1. Snapshot
	g.perf.StartPhase(telemetry.PhaseSnapshot)
	snapshot := g.food.Snapshot(g.cfg.Derived.ClampMin, g.cfg.Derived.ClampMax)
	ts.FoodBefore = g.food.Total()
	old, next := g.blips, g.spare
	old.CopyTo(next)
	g.time += dt

	// 2. Decide
	g.perf.StartPhase(telemetry.PhaseDecide)
	g.decide(old, next, snapshot, dt)
	ts.Consumed = fixed.Rat(g.consumed.Load())

	// 3. Merge
	g.perf.StartPhase(telemetry.PhaseMerge)
	spawns := g.spawns.drain()
	for i := range spawns {
		next.Push(spawns[i].child)
	}
	ts.Born = len(spawns)
	clear(spawns)

	// 4. Cull
	g.perf.StartPhase(telemetry.PhaseCull)
	before := next.Len()
	next.Retain((*blip.Blip).Alive)
	ts.Died = before - next.Len()

	// 5. Floor correction
	g.perf.StartPhase(telemetry.PhaseFloor)
	for next.Len() < g.cfg.Population.Floor {
		next.Push(blip.New(g.rng, &g.params))
		ts.Forced++
	}
	if ts.Forced > 0 {
		slog.Debug("force-spawned", "tick", g.tick+1, "count", ts.Forced, "population", next.Len())
	}

	// 6. Replenish
	g.perf.StartPhase(telemetry.PhaseReplenish)
	ts.Replenished = systems.Replenish(g.food, g.rng, dt, g.replenish)
	ts.FoodAfter = g.food.Total()

	// 7. Motion
	g.perf.StartPhase(telemetry.PhaseMotion)
	g.pool.forEach(next.Slots(), func(lo, hi int, _ *workerScratch) {
		next.Range(lo, hi, func(_ int, b *blip.Blip) {
			b.Motion(dt, &g.params)
		})
	})

	// 8. Reindex
	g.perf.StartPhase(telemetry.PhaseReindex)
	g.lastRemap = nil
	if float64(next.Holes()) > g.cfg.Population.CompactRatio*float64(next.Len()) {
		g.lastRemap = next.Compact()
		remapParents(next, g.lastRemap)
	}
	g.index.Rebuild(blip.Positions(next))
	g.blips, g.spare = next, old
	g.tick++
	g.last = ts

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(ts)
	g.flushTelemetry()
	g.perf.EndTick()
}

// decide runs every live blip's decision, reading old and writing each
// blip's own slot of next. Children are queued on g.spawns. Each blip draws
// from a private stream keyed by the run salt, the new time and its handle.
func (g *Game) decide(old, next *store.StableVec[blip.Blip], snapshot *systems.FoodSnapshot, dt float64) {
	g.consumed.Store(0)
	env := blip.Env{
		Params:   &g.params,
		Old:      old,
		Index:    g.index,
		Snapshot: snapshot,
		Food:     g.food,
		Consumed: &g.consumed,
		Time:     g.time,
		DT:       dt,
	}

	g.pool.forEach(old.Slots(), func(lo, hi int, scratch *workerScratch) {
		store.ZipRange(next, old, lo, hi, func(h int, n, o *blip.Blip) {
			rng := scratch.stream(systems.StreamSeed(g.salt, env.Time, h))
			if child := blip.Decide(h, o, n, &env, rng, scratch.blip); child != nil {
				g.spawns.push(h, child)
			}
		})
	})
}

// remapParents rewrites parent handles after a compaction so they keep
// naming the same blip.
func remapParents(v *store.StableVec[blip.Blip], remap []int) {
	v.Range(0, v.Slots(), func(_ int, b *blip.Blip) {
		if b.Parent < 0 {
			return
		}
		if b.Parent >= len(remap) || remap[b.Parent] < 0 {
			b.Parent = components.ParentGone
			return
		}
		b.Parent = remap[b.Parent]
	})
}
