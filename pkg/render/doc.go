// Package render wraps the external programs that turn waveform documents
// into images.
//
// # Overview
//
// Two collaborators are involved, both modeled as small interfaces so the
// pipeline can be exercised without the real tools installed:
//
//   - [Renderer] turns a WaveJSON document into SVG text. The default
//     [CommandRenderer] pipes strict JSON to an external WaveDrom CLI and
//     reads the SVG from its standard output; any command honoring that
//     stdin/stdout contract can be configured in its place.
//   - [Converter] rasterizes an SVG file into a PNG file at a given
//     resolution, using rsvg-convert from librsvg.
//
// [ToPNG] converts in memory for callers that never touch the filesystem,
// such as the preview server.
//
// Both calls are opaque and synchronous with no cancellation of their own;
// a caller that wants a deadline wraps the whole per-diagram sequence.
package render
