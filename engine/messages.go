package engine

import (
	"github.com/achilleasa/lumenpreview/imaging"
	"github.com/achilleasa/lumenpreview/lighteval"
	"github.com/achilleasa/lumenpreview/types"
)

// InboundMessage is the tagged union of messages the host can send the
// engine (spec.md section 6). The engine takes ownership of any heap data
// referenced by an inbound message and releases it once handled.
type InboundMessage interface {
	isInbound()
}

// ExitMessage terminates the scheduler loop.
type ExitMessage struct{}

func (ExitMessage) isInbound() {}

// LightListMessage replaces the engine's light list and eye position.
type LightListMessage struct {
	Lights []lighteval.Description
	Eye    types.Vec3
}

func (LightListMessage) isInbound() {}

// GeometryMessage replaces the shadow-casting triangle soup. Triangles is a
// flat vertex list whose length must be divisible by 3.
type GeometryMessage struct {
	Triangles []types.Vec3
}

func (GeometryMessage) isInbound() {}

// GBuffersMessage imports a new deferred-shading G-buffer.
type GBuffersMessage struct {
	Albedo, Normal, Position *imaging.Matrix
	Eye                      types.Vec3
	Generation               uint32
}

func (GBuffersMessage) isInbound() {}

// OutboundMessage is the tagged union of messages the engine sends back to
// the host.
type OutboundMessage interface {
	isOutbound()
}

// DisplayResultMessage carries a tone-mapped bitmap and the G-buffer
// generation it was composited from, so the host can drop stale frames.
type DisplayResultMessage struct {
	Bitmap     *imaging.Bitmap
	Generation uint32
}

func (DisplayResultMessage) isOutbound() {}
