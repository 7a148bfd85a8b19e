package emit

// Default segment widths per surface. Inline surfaces scroll, so wide
// segments are fine; page surfaces must fit a printed page.
const (
	DefaultInlineWidth = 60
	DefaultPageWidth   = 15
)

// Policy controls how a surface segments and filters a waveform.
type Policy struct {
	// MaxSegmentWidth is the widest wave a single image may carry
	// before the waveform is split.
	MaxSegmentWidth int

	// ApplySignificanceFilter drops segments whose only content is the
	// state already visible at the end of the preceding segment.
	ApplySignificanceFilter bool
}
