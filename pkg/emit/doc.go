// Package emit turns parsed waveform documents into image artifacts and
// surface markup.
//
// An Emitter drives the full per-diagram sequence: inject the default
// skin, split wide waveforms into fixed-width segments, drop segments a
// paginated reader does not need, then render, restyle, and rasterize
// each remaining segment. The output is a markup fragment (inline
// images for HTML, figures for LaTeX) plus SVG/PNG files under the
// configured image directory.
//
// # Surfaces and policies
//
// The two output surfaces share one orchestration but differ in policy:
//
//   - HTMLSurface targets continuously scrolling pages. Segments are
//     wide (60 columns by default) and every segment is emitted, so the
//     reader scrolls through the complete waveform without gaps.
//   - LaTeXSurface targets fixed-width printed pages. Segments are
//     narrow (15 columns by default) and segments that only repeat the
//     state already visible at the end of the previous segment are
//     skipped entirely.
//
// The asymmetry is deliberate: a scrollable page loses information when
// segments vanish, a paginated document gains room for content that
// matters.
//
// # Failure policy
//
// Failures are local to one diagram occurrence. A render or conversion
// failure logs a diagnostic, substitutes a visible error marker in the
// markup, and abandons the remaining segments of that diagram; the
// enclosing document build carries on. Style normalization failures are
// logged and otherwise ignored. Nothing is retried: every step is
// deterministic over its inputs, so a retry cannot change the outcome.
//
// # Usage
//
//	e := &emit.Emitter{
//	    Renderer: &render.CommandRenderer{},
//	    OutDir:   "build",
//	    ImageDir: "_images/wavedrom",
//	}
//	markup, err := e.Emit(ctx, "handshake", doc, &emit.HTMLSurface{})
//	if err != nil {
//	    // markup still holds the partial output with an error marker
//	}
package emit
