// Package wavejson provides the WaveJSON data model and a tolerant parser
// for the waveform notation embedded in documentation sources.
//
// # Overview
//
// A WaveJSON document describes one digital timing diagram: an ordered list
// of signal tracks, each carrying a compact string of wave-state tokens,
// plus optional render configuration. Authors write the notation in a
// relaxed JSON dialect, so the parser accepts // and /* */ comments,
// unquoted identifier keys, single-quoted strings, and trailing commas.
// Duplicate keys are rejected at every nesting level: silently keeping one
// of two conflicting values has bitten enough users that it is treated as a
// hard parse error.
//
// # Data Model
//
// [Document] is the parsed form. Only the members this system interprets are
// lifted into fields (signal tracks and config); every other member (track
// names, annotation data, head/foot sections) is preserved verbatim so that
// transformations can rebuild an equivalent document. [Document.MarshalJSON]
// emits strict, deterministically ordered JSON suitable for feeding the
// renderer and for embedding as accessible alt text.
//
// # Usage
//
//	doc, err := wavejson.ParseString(`{signal: [{name: 'clk', wave: 'p...'}]}`)
//	if err != nil {
//	    return err
//	}
//	out, _ := json.Marshal(doc)
//
// Documents are value types. Transformations in this module never mutate
// their inputs; helpers like [Document.WithDefaultSkin] return copies.
package wavejson
