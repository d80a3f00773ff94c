package incremental

import (
	"github.com/achilleasa/lumenpreview/imaging"
	"github.com/achilleasa/lumenpreview/types"
)

// RunState is the refinement state of one light's IncrementalState record.
type RunState uint8

const (
	New RunState = iota
	NoResults
	Partial
	Full
)

func (s RunState) String() string {
	switch s {
	case New:
		return "New"
	case NoResults:
		return "NoResults"
	case Partial:
		return "Partial"
	case Full:
		return "Full"
	default:
		return "Unknown"
	}
}

// LightState is the per-light refinement bookkeeping record described in
// spec section 3. Records are owned by an Arena keyed by ObjectID rather
// than being back-pointed to from the light description, which avoids the
// owning-pointer cycle the teacher's intrusive lists would otherwise need.
type LightState struct {
	ObjectID string

	State RunState

	// Level counts how many of the NumLevels bit-reversal passes have
	// completed; only advances on a kernel run with nonzero total.
	Level int

	// ContributionMatrix is present only when State is Partial or Full
	// and TotalContribution > 0; zero-magnitude results are not kept.
	ContributionMatrix *imaging.Matrix

	// TotalContribution is the scalar magnitude from the most recent
	// kernel invocation, even when it is zero.
	TotalContribution float32

	// LastNonzeroTimestamp is stamped from the global contribution tick
	// whenever a kernel run for this light yields nonzero total.
	LastNonzeroTimestamp uint64

	// DistanceToEye is 0 for directional lights (implicit high
	// priority); for positional lights it is the euclidean distance
	// from the current eye to the light's world position.
	DistanceToEye float32

	// Color is cached for ambient estimation in the compositor.
	Color [3]float32

	// IsDirectional and Position mirror the bound LightDescription and are
	// refreshed on every LightList message; they drive the high-priority
	// and distance-to-eye rules.
	IsDirectional bool
	Position      types.Vec3
}

// Bounds is the scene's world-space axis-aligned bounding box, used to
// decide whether a newly-arrived light counts as high-priority.
type Bounds struct {
	Min, Max types.Vec3
}

// Contains reports whether p lies within the bounds (inclusive).
func (b Bounds) Contains(p types.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// IsHighPriority reports whether ls is a newly-arrived light whose position
// lies within the scene bounds. Directional lights are never high-priority
// since their position is conceptually at infinity.
func (ls *LightState) IsHighPriority(bounds Bounds) bool {
	return ls.State == New && !ls.IsDirectional && bounds.Contains(ls.Position)
}

// IsDark reports whether the light currently contributes nothing.
func (ls *LightState) IsDark() bool {
	return ls.TotalContribution == 0
}

// HasWork reports whether the light still has refinement passes left.
func (ls *LightState) HasWork() bool {
	return ls.State != Full
}

// releaseMatrix drops the cached contribution matrix.
func (ls *LightState) releaseMatrix() {
	ls.ContributionMatrix = nil
}

// Arena owns every LightState record, indexed by ObjectID, and survives
// across light-list replacements: orphaned records (lights no longer
// present in the current list) simply stop being referenced, they are not
// actively pruned.
type Arena struct {
	byID  map[string]*LightState
	order []string
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{byID: make(map[string]*LightState)}
}

// GetOrCreate returns the existing record for id, creating a fresh New
// record if none exists yet.
func (a *Arena) GetOrCreate(id string) *LightState {
	if ls, ok := a.byID[id]; ok {
		return ls
	}
	ls := &LightState{ObjectID: id, State: New}
	a.byID[id] = ls
	a.order = append(a.order, id)
	return ls
}

// Get looks up a record without creating one.
func (a *Arena) Get(id string) (*LightState, bool) {
	ls, ok := a.byID[id]
	return ls, ok
}

// All returns every record currently tracked by the arena, including
// orphaned ones not referenced by the current light list, in the order
// their ObjectID was first seen. Priority selection is O(n) regardless of
// order, but insertion order gives ties a stable resolution.
func (a *Arena) All() []*LightState {
	out := make([]*LightState, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.byID[id])
	}
	return out
}

// DiscardResults drops every record's contribution matrix and downgrades
// Partial/Full records to NoResults, preserving TotalContribution as a
// priority hint but resetting Level to 0: a NoResults light always
// restarts its incremental refinement from scratch the next time it is
// picked (mirroring the C++ CalculateForLight, which only continues from
// a stored stage when the current state is INCR_STATE_PARTIAL_RESULTS).
// New records are left untouched. Calling this twice in a row is a no-op
// the second time (idempotent).
func (a *Arena) DiscardResults() {
	for _, ls := range a.byID {
		switch ls.State {
		case Partial, Full:
			ls.releaseMatrix()
			ls.State = NoResults
			ls.Level = 0
		case New, NoResults:
			// nothing to discard
		}
	}
}
