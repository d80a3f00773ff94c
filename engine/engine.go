// Package engine implements the Scheduler and Compositor: the main
// incremental-refinement loop that drains inbound messages, picks the
// highest-priority light with work left, runs the shading kernel across a
// four-way fan-out, and periodically composites and emits a tone-mapped
// bitmap. Grounded on the teacher's tracer.Tracer/BlockRequest channel
// lifecycle (tracer/tracer.go) and its perfectScheduler main-loop shape
// (tracer/scheduler.go).
package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/achilleasa/lumenpreview/imaging"
	"github.com/achilleasa/lumenpreview/incremental"
	"github.com/achilleasa/lumenpreview/lighteval"
	"github.com/achilleasa/lumenpreview/logx"
	"github.com/achilleasa/lumenpreview/raytrace"
	"github.com/achilleasa/lumenpreview/shading"
	"github.com/achilleasa/lumenpreview/types"
)

var logger = logx.New("engine")

// initialContributionTick is the "large sentinel" spec.md section 3
// specifies so that any unstamped LightState (LastNonzeroTimestamp == 0)
// always reads as older than anything the scheduler has actually stamped.
const initialContributionTick = uint64(1) << 32

// Engine owns every mutable piece of scheduler state: the light arena, the
// current G-buffers, the RayEnv, and the message channels to/from the host.
// All of it is touched only from the Run goroutine except for the
// kernel-owned rows of a contribution matrix during a fan-out join.
type Engine struct {
	opts Options

	inbound  chan InboundMessage
	outbound chan OutboundMessage

	arena        *incremental.Arena
	lineSchedule *incremental.LineSchedule

	lights []lighteval.Description
	eye    types.Vec3
	bounds incremental.Bounds

	positions *imaging.Matrix
	normals   *imaging.Matrix
	albedos   *imaging.Matrix
	gbufferOK bool

	generation uint32

	rayEnv *raytrace.RayEnv

	contributionTick uint64

	resultChanged bool
	lastSendTime  time.Time

	lastBitmap *imaging.Bitmap

	iterations uint64
	hasExited  bool
}

// New creates an Engine ready to Run.
func New(opts Options) *Engine {
	return &Engine{
		opts:             opts,
		inbound:          make(chan InboundMessage, opts.InboundBuffer),
		outbound:         make(chan OutboundMessage, opts.OutboundBuffer),
		arena:            incremental.NewArena(),
		lineSchedule:     incremental.NewLineSchedule(),
		contributionTick: initialContributionTick,
		lastSendTime:     time.Unix(0, 0),
	}
}

// Inbound returns the channel the host should send messages on.
func (e *Engine) Inbound() chan<- InboundMessage {
	return e.inbound
}

// Outbound returns the channel the host should receive DisplayResult
// messages from.
func (e *Engine) Outbound() <-chan OutboundMessage {
	return e.outbound
}

// LastBitmap returns the most recently composited frame, or nil if none has
// been produced yet. Intended for debug tooling (e.g. a --dump-png flag)
// rather than the normal DisplayResult delivery path.
func (e *Engine) LastBitmap() *imaging.Bitmap {
	return e.lastBitmap
}

// Run drives the scheduler loop until an Exit message arrives or ctx is
// cancelled, whichever happens first; cancellation is treated the same as
// receiving Exit (spec.md section 5 extended with context.Context the way
// taigrr-trophy and gogpu-gg manage goroutine lifecycle).
func (e *Engine) Run(ctx context.Context) {
	for {
		for e.drainOneIfIdleOrWaiting(ctx) {
			// keep handling messages ahead of computation
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		if !e.hasExited {
			e.doWork()
			e.maybeSend()
		}

		if e.hasExited {
			return
		}
	}
}

// drainOneIfIdleOrWaiting handles exactly one inbound message when either
// there is no useful work or a message is already waiting, matching
// spec.md section 4.4 step 1's framing: message handling always precedes
// computation within one iteration. It returns true if it handled a
// message (so the caller should check again before computing) and false
// once neither condition holds.
func (e *Engine) drainOneIfIdleOrWaiting(ctx context.Context) bool {
	if e.hasExited {
		return false
	}

	select {
	case msg := <-e.inbound:
		e.handleMessage(msg)
		return true
	default:
	}

	if e.hasUsefulWork() {
		return false
	}

	select {
	case msg := <-e.inbound:
		e.handleMessage(msg)
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *Engine) handleMessage(msg InboundMessage) {
	switch m := msg.(type) {
	case ExitMessage:
		e.hasExited = true

	case LightListMessage:
		if len(m.Lights) == 0 && e.hasGeometry() {
			logger.Errorf("dropping LightList message: %s", ErrEmptyLightListWithGeometry.Error())
			return
		}
		e.applyLightList(m)
		e.discardResults()

	case GeometryMessage:
		if len(m.Triangles) > 0 && len(e.lights) == 0 {
			logger.Errorf("dropping Geometry message: %s", ErrEmptyLightListWithGeometry.Error())
			return
		}
		if err := e.applyGeometry(m); err != nil {
			logger.Errorf("dropping Geometry message: %s", err.Error())
			return
		}
		e.discardResults()

	case GBuffersMessage:
		if err := e.applyGBuffers(m); err != nil {
			logger.Errorf("dropping GBuffers message: %s", err.Error())
			return
		}
		e.discardResults()
	}
}

func (e *Engine) applyLightList(m LightListMessage) {
	e.lights = m.Lights
	e.eye = m.Eye

	for _, desc := range m.Lights {
		st := e.arena.GetOrCreate(desc.ObjectID)
		st.IsDirectional = desc.Type == lighteval.Directional
		st.Position = desc.Position
		st.Color = [3]float32{desc.Color[0], desc.Color[1], desc.Color[2]}
	}
}

// applyGeometry rebuilds the shadow-ray accelerator from the given
// triangle soup. It returns an error only for the input-inconsistency
// class of spec.md section 7 (a malformed triangle soup); the caller must
// leave all other engine state untouched when that happens. A failure to
// build the acceleration structure from an otherwise well-formed soup is
// not one of those classes: the geometry message is still considered
// accepted, shading is just disabled until new geometry arrives.
func (e *Engine) applyGeometry(m GeometryMessage) error {
	if len(m.Triangles) == 0 {
		e.rayEnv = nil
		return nil
	}

	tris, err := raytrace.TrianglesFromSoup(m.Triangles)
	if err != nil {
		return err
	}

	env, err := raytrace.Build(tris)
	if err != nil {
		logger.Errorf("disabling shading: %s", err.Error())
		e.rayEnv = nil
		return nil
	}
	e.rayEnv = env
	return nil
}

// hasGeometry reports whether the engine currently holds a usable
// shadow-ray accelerator, i.e. the most recent Geometry message was
// non-empty and built successfully.
func (e *Engine) hasGeometry() bool {
	return e.rayEnv != nil
}

func (e *Engine) applyGBuffers(m GBuffersMessage) error {
	if m.Albedo == nil || m.Normal == nil || m.Position == nil {
		return ErrEmptyGBufferMessage
	}
	if !m.Albedo.SameDims(m.Normal) || !m.Albedo.SameDims(m.Position) {
		return ErrDimensionMismatch
	}
	if m.Albedo.W == 0 || m.Albedo.H == 0 {
		return ErrEmptyGBufferMessage
	}

	e.albedos = m.Albedo
	e.normals = m.Normal
	e.positions = m.Position
	e.eye = m.Eye
	e.generation = m.Generation
	e.gbufferOK = true

	e.recomputeBounds()
	return nil
}

func (e *Engine) recomputeBounds() {
	min := e.eye
	max := e.eye
	for y := uint32(0); y < e.positions.H; y++ {
		for x := uint32(0); x < e.positions.W; x++ {
			p := e.positions.At(x, y)
			min = types.MinVec3(min, p)
			max = types.MaxVec3(max, p)
		}
	}
	e.bounds = incremental.Bounds{Min: min, Max: max}
}

// discardResults implements spec.md section 4.4's "Discard results": every
// light loses its contribution matrix and Partial/Full states downgrade to
// NoResults; New states are untouched. Distances are recomputed from the
// current eye, the tick is bumped, and the next send is forced to happen
// promptly. Calling it twice in a row is idempotent (incremental.Arena's
// DiscardResults already is; recomputing distances and forcing a send
// again changes nothing observable).
func (e *Engine) discardResults() {
	e.arena.DiscardResults()
	e.contributionTick++

	for _, ls := range e.arena.All() {
		if ls.IsDirectional {
			ls.DistanceToEye = 0
			continue
		}
		ls.DistanceToEye = ls.Position.Dist(e.eye)
	}

	e.resultChanged = true
	e.lastSendTime = time.Unix(0, 0)
}

// hasUsefulWork mirrors the glossary definition: at least one light with
// state != Full and a live RayEnv.
func (e *Engine) hasUsefulWork() bool {
	if e.rayEnv == nil || !e.gbufferOK {
		return false
	}
	for _, ls := range e.arena.All() {
		if ls.HasWork() {
			return true
		}
	}
	return false
}

// doWork runs spec.md section 4.4 step 2: pick the highest-priority light
// with work and advance it by one refinement level.
func (e *Engine) doWork() {
	e.iterations++

	if !e.hasUsefulWork() {
		return
	}

	candidate := e.pickHighestPriority()
	if candidate == nil {
		return
	}

	// Only a Partial light continues from its stored level; any other
	// state (New, or NoResults after a discard) restarts at level 0,
	// mirroring the C++ CalculateForLight's INCR_STATE_PARTIAL_RESULTS
	// branch in lpreview_thread.cpp. DiscardResults already resets Level
	// to 0 when downgrading to NoResults; this branch makes the
	// dependency on candidate.State explicit rather than relying on that
	// invariant alone.
	level := 0
	if candidate.State == incremental.Partial {
		level = candidate.Level
	}
	mask := e.lineSchedule.LineMask[level]
	if level > 0 {
		mask &^= e.lineSchedule.LineMask[level-1]
	}

	light := e.lightByID(candidate.ObjectID)
	total := e.runFanOut(light, mask, candidate)

	if total == 0 {
		candidate.TotalContribution = 0
		candidate.ContributionMatrix = nil
		return
	}

	candidate.TotalContribution = total
	e.contributionTick++
	candidate.LastNonzeroTimestamp = e.contributionTick
	candidate.Level = level + 1
	if candidate.Level >= incremental.NumLevels {
		candidate.State = incremental.Full
		logx.Named("engine", "light."+candidate.ObjectID).Debugf("reached full refinement after %d passes", candidate.Level)
	} else {
		candidate.State = incremental.Partial
	}
	e.resultChanged = true
}

func (e *Engine) pickHighestPriority() *incremental.LightState {
	var best *incremental.LightState
	for _, ls := range e.arena.All() {
		if !ls.HasWork() {
			continue
		}
		if best == nil || incremental.LowerPriorityThan(best, ls, e.bounds) {
			best = ls
		}
	}
	return best
}

func (e *Engine) lightByID(id string) lighteval.Description {
	for _, l := range e.lights {
		if l.ObjectID == id {
			return l
		}
	}
	return lighteval.Description{ObjectID: id}
}

// runFanOut invokes the shading kernel four times in parallel over
// (stride=3, residue in 0..3), joins, and sums the four magnitudes in a
// fixed lane-0..3 order for reproducibility despite floating-point
// non-associativity (spec.md section 9).
func (e *Engine) runFanOut(light lighteval.Description, mask uint32, ls *incremental.LightState) float32 {
	if ls.ContributionMatrix == nil {
		ls.ContributionMatrix = imaging.NewMatrix(e.positions.W, e.positions.H)
	}

	kernel := shading.NewKernel(e.rayEnv)
	gb := shading.GBuffer{Positions: e.positions, Normals: e.normals, Albedos: e.albedos}

	var partials [4]float32
	group, _ := errgroup.WithContext(context.Background())
	for residue := uint32(0); residue < 4; residue++ {
		residue := residue
		group.Go(func() error {
			partials[residue] = kernel.Run(light, gb, ls.ContributionMatrix, mask, 3, residue)
			return nil
		})
	}
	_ = group.Wait()

	var total float32
	for lane := 0; lane < 4; lane++ {
		total += partials[lane]
	}
	return total
}

// maybeSend implements spec.md section 4.4 step 3: send a composited frame
// if the result changed and either the resend interval elapsed or there is
// no more useful work.
func (e *Engine) maybeSend() {
	if !e.resultChanged || !e.gbufferOK {
		return
	}

	elapsed := time.Since(e.lastSendTime)
	if elapsed < e.opts.ResendInterval && e.hasUsefulWork() {
		return
	}

	bitmap := e.composite()
	e.lastBitmap = bitmap
	e.resultChanged = false
	e.lastSendTime = time.Now()

	select {
	case e.outbound <- DisplayResultMessage{Bitmap: bitmap, Generation: e.generation}:
	default:
		logger.Warning("outbound queue full, dropping a DisplayResult frame")
	}
}

