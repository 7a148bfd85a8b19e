// Package pkg provides the core libraries for rendering WaveJSON timing
// diagrams into documentation artifacts.
//
// # Overview
//
// A WaveJSON document describes a digital timing diagram as signal tracks
// of wave-state tokens. The packages here parse that source, split wide
// diagrams into page-sized segments, render each segment with an external
// WaveDrom engine, normalize the styling of the resulting SVG, rasterize
// it, and emit the markup a documentation build embeds.
//
// # Architecture
//
// The data flow for one diagram:
//
//	WaveJSON source
//	        ↓
//	   [wavejson] package (relaxed parse into a Document)
//	        ↓
//	   [segment] package (splitting + significance filter)
//	        ↓
//	   [render] package (WaveDrom SVG, PNG rasterization)
//	        ↓
//	   [restyle] package (style normalization, flat-row compression)
//	        ↓
//	   [emit] package (artifacts on disk + HTML/LaTeX markup)
//
// # Quick Start
//
// Render a diagram for an HTML page:
//
//	doc, err := wavejson.ParseString(src)
//	if err != nil {
//	    return err
//	}
//
//	e := &emit.Emitter{OutDir: "build"}
//	markup, err := e.Emit(ctx, "handshake", doc, &emit.HTMLSurface{})
//
// The emitter writes the SVG and PNG artifacts under build/_images/wavedrom
// and returns the inline markup referencing them.
//
// # Main Packages
//
// [wavejson] - Relaxed-JSON parser and the Document model. Accepts the
// unquoted keys, single-quoted strings, and trailing commas WaveDrom
// sources use; rejects duplicate keys with source positions.
//
// [segment] - Splits wide diagrams into bounded segments that repeat
// their boundary state for visual continuity, and classifies segments as
// significant (carrying transitions or annotations) or not.
//
// [render] - Wraps the external programs: a WaveDrom CLI rendering
// WaveJSON to SVG, and rsvg-convert rasterizing SVG to PNG. Both are
// modeled as interfaces so builds can swap engines.
//
// [restyle] - Rewrites rendered SVG for print-quality output: forced
// font size, text fill, and stroke, plus vertical compression of rows
// with no transitions.
//
// [emit] - The per-diagram pipeline (skin injection, segmentation,
// render, restyle, convert, cache) and the two markup surfaces, inline
// HTML and paged LaTeX.
//
// ## Infrastructure
//
// [cache] - Content-addressed artifact caching with file, Redis, and
// null backends. Keys hash the segment serialization plus every option
// that changes the output bytes.
//
// [errors] - Coded errors shared by the CLI and the preview server.
//
// [observability] - Hook interfaces for metrics without coupling the
// pipeline to a metrics backend; the preview server registers prometheus
// implementations.
//
// [buildinfo] - Build version reporting for --version output.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test -run Example     # Examples only
//
// [wavejson]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson
// [segment]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/segment
// [render]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/render
// [restyle]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/restyle
// [emit]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/emit
// [cache]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/cache
// [errors]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors
// [observability]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/buildinfo
package pkg
