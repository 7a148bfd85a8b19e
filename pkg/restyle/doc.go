// Package restyle normalizes the styling of rendered SVG timing diagrams.
//
// Renderer output arrives with whatever fonts and colors its skin ships.
// Embedded in documentation next to body text, that looks inconsistent and
// often unreadable once rasterized, so every diagram is pushed through one
// normalization pass before conversion:
//
//   - text elements get a fixed font size and a dark-blue fill
//   - path and line elements get a black stroke
//   - signal rows that draw only horizontal geometry give up part of their
//     allocated height, pulling the rows below them upward
//
// Forced properties are written both as presentation attributes and into
// the inline style attribute. Inline style wins over everything else in
// the cascade, so declarations left by the renderer (including rules in an
// embedded stylesheet) cannot resurface.
//
// [Apply] is a pure function over SVG bytes; [File] is the in-place
// convenience used by the emitter, which treats its failure as a logged
// quality defect rather than a hard error: the file keeps its last written
// content.
package restyle
