package engine

import "time"

// Options configures an Engine. Populated from CLI flags by cmd/previewd
// the way the teacher's renderer.Options is populated in cmd/render.go.
type Options struct {
	// ResendInterval rate-limits periodic DisplayResult sends while
	// there is still useful work (spec.md section 4.4, step 3).
	ResendInterval time.Duration

	// InboundBuffer and OutboundBuffer size the message channels.
	InboundBuffer  int
	OutboundBuffer int
}

// DefaultOptions returns the engine's default tuning, a 10s resend cadence
// matching spec.md's end-to-end scenario 6.
func DefaultOptions() Options {
	return Options{
		ResendInterval: 10 * time.Second,
		InboundBuffer:  8,
		OutboundBuffer: 4,
	}
}
