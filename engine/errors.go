package engine

import "errors"

// Sentinel errors for the input-inconsistency class of spec.md section 7.
// The engine logs and discards the offending message on any of these; no
// partial state update is applied.
var (
	ErrDimensionMismatch   = errors.New("engine: g-buffer images have mismatched dimensions")
	ErrEmptyGBufferMessage = errors.New("engine: g-buffer message has zero width or height")

	// ErrEmptyLightListWithGeometry is the third input-inconsistency
	// class of spec.md section 7: an empty light list together with
	// non-empty geometry. Checked whenever either a LightListMessage or
	// a GeometryMessage arrives and would leave the engine in that
	// combination.
	ErrEmptyLightListWithGeometry = errors.New("engine: empty light list with non-empty geometry")
)
