package segment

import (
	"maps"
	"strings"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// Split divides src into consecutive segments of exactly maxLen wave tokens.
//
// The segment count is determined by the longest track: ceil(longest/maxLen)
// segments are produced, and every track in every segment is padded with
// repeat tokens up to maxLen. Tracks shorter than the longest therefore hold
// their last state for the remainder of the diagram. If no track is longer
// than maxLen the source document is returned unchanged as a single segment.
//
// All segments carry per-track copies of the source attributes and a shallow
// copy of the source config; src itself is never modified. Top-level members
// other than signal and config describe the whole diagram and are not
// meaningful on a slice of it, so they are not carried over.
//
// maxLen must be positive.
func Split(src wavejson.Document, maxLen int) ([]wavejson.Document, error) {
	if maxLen <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidWidth, "segment width must be positive, got %d", maxLen)
	}

	longest := 0
	waves := make([][]rune, len(src.Signal))
	for i, tr := range src.Signal {
		waves[i] = []rune(tr.Wave)
		if len(waves[i]) > longest {
			longest = len(waves[i])
		}
	}

	if longest <= maxLen {
		return []wavejson.Document{src}, nil
	}

	count := (longest + maxLen - 1) / maxLen
	segs := make([]wavejson.Document, 0, count)
	for s := 0; s < count; s++ {
		lo := s * maxLen
		seg := wavejson.Document{
			Signal: make([]wavejson.Track, len(src.Signal)),
			Config: maps.Clone(src.Config),
		}
		for i, tr := range src.Signal {
			var chunk string
			if lo < len(waves[i]) {
				hi := min(lo+maxLen, len(waves[i]))
				chunk = string(waves[i][lo:hi])
			}
			if pad := maxLen - len([]rune(chunk)); pad > 0 {
				chunk += strings.Repeat(string(wavejson.RepeatToken), pad)
			}
			nt := tr.Clone()
			nt.Wave = chunk
			seg.Signal[i] = nt
		}
		segs = append(segs, seg)
	}

	applyContinuity(segs)
	return segs, nil
}

// applyContinuity rewrites the leading repeat token of each non-first
// segment to the last known state of the same track in the segment before
// it. Segments are processed in order, so a state held across several fully
// flat segments keeps propagating forward.
func applyContinuity(segs []wavejson.Document) {
	for s := 1; s < len(segs); s++ {
		for i := range segs[s].Signal {
			w := []rune(segs[s].Signal[i].Wave)
			if len(w) == 0 || w[0] != wavejson.RepeatToken {
				continue
			}
			last, ok := lastState(segs[s-1].Signal[i].Wave)
			if !ok {
				// No state established yet: the track stays undetermined.
				continue
			}
			w[0] = last
			segs[s].Signal[i].Wave = string(w)
		}
	}
}

// lastState returns the last non-repeat token of wave.
func lastState(wave string) (rune, bool) {
	rs := []rune(wave)
	for j := len(rs) - 1; j >= 0; j-- {
		if rs[j] != wavejson.RepeatToken {
			return rs[j], true
		}
	}
	return 0, false
}
