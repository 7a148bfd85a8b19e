// Package segment splits long waveform descriptions into fixed-width,
// independently renderable segments.
//
// # Overview
//
// A timing diagram is only readable up to a certain number of wave tokens
// per image: print surfaces clip anything wider than a page, and inline
// images become unreadably dense. [Split] divides a document whose longest
// track exceeds a maximum width into consecutive segments of exactly that
// width, padding the tail with repeat tokens so every segment is a
// syntactically complete waveform of the same length.
//
// # Continuity
//
// A naive slice loses state at segment boundaries: a track holding level 1
// across a boundary would start the next segment with a repeat token and
// render as undefined. Split therefore rewrites the leading repeat token of
// every non-first segment to the last known state of the same track in the
// preceding segment, so each segment renders as if the signal history were
// still visible:
//
//	"1.." | "..0"   becomes   "1.." | "1.0"
//
// The fix is applied in segment order, so a held state propagates through
// any number of fully flat middle segments.
//
// # Significance
//
// Paginated output should not spend a page on a segment that draws exactly
// the same flat lines as the page before it. [Significant] reports whether
// a segment adds visual information over its predecessor: a state
// transition within the segment, or a different state at the boundary.
// Scrollable surfaces render every segment regardless; dropping one there
// would leave a gap in the timeline.
//
// Both functions are pure: inputs are never mutated, and all produced
// segments carry copies of the source track attributes and config.
package segment
