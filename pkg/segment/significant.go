package segment

import (
	"slices"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// Significant reports whether seg draws anything its predecessor prev did
// not already show. A segment is significant when at least one of its
// tracks either transitions within the segment (more than one distinct
// non-repeat token) or starts in a different state than the same track
// ended with in prev. A track with no non-repeat tokens at all contributes
// nothing.
//
// Tracks are paired by position. A track with no counterpart in prev is
// compared against an empty wave, so any state it carries counts as new.
//
// The comparison is asymmetric on purpose: a track that falls silent after
// prev established a state is still just holding that state, which is
// exactly the flat continuation the paginated surface wants to drop.
func Significant(seg, prev wavejson.Document) bool {
	for i, tr := range seg.Signal {
		states := distinctStates(tr.Wave)
		if len(states) == 0 {
			continue
		}
		if len(states) > 1 {
			return true
		}
		var prevWave string
		if i < len(prev.Signal) {
			prevWave = prev.Signal[i].Wave
		}
		last, ok := lastState(prevWave)
		if !ok || last != states[0] {
			return true
		}
	}
	return false
}

// distinctStates returns the distinct non-repeat tokens of wave in first
// occurrence order.
func distinctStates(wave string) []rune {
	var states []rune
	for _, r := range wave {
		if r == wavejson.RepeatToken {
			continue
		}
		if !slices.Contains(states, r) {
			states = append(states, r)
		}
	}
	return states
}
