package emit

import (
	"fmt"
	"html"
	"strings"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// Surface describes one output target. A surface owns its segmentation
// policy and the markup shapes for images and error markers.
type Surface interface {
	// Name identifies the surface ("html", "latex").
	Name() string

	// Policy returns the segmentation policy for this surface.
	Policy() Policy

	// Image returns the markup referencing one rendered segment.
	// src is the image path relative to the emitted document.
	Image(src string, seg wavejson.Document) string

	// ErrorMarker returns the visible in-place marker substituted when
	// a segment cannot be rendered.
	ErrorMarker(err error) string

	// Join combines per-segment markup into the final fragment.
	Join(parts []string) string
}

// HTMLSurface emits inline <img> markup for continuously scrolling
// pages. Every segment is rendered; a scrolling reader would notice
// missing ones.
type HTMLSurface struct {
	// MaxSegmentWidth caps the wave length of one image.
	// Zero means DefaultInlineWidth.
	MaxSegmentWidth int
}

// Name implements Surface.
func (s *HTMLSurface) Name() string { return "html" }

// Policy implements Surface.
func (s *HTMLSurface) Policy() Policy {
	width := s.MaxSegmentWidth
	if width <= 0 {
		width = DefaultInlineWidth
	}
	return Policy{MaxSegmentWidth: width}
}

// Image emits an img tag. The serialized waveform rides along as the
// accessible alt text, so the diagram content survives image loss.
func (s *HTMLSurface) Image(src string, seg wavejson.Document) string {
	return fmt.Sprintf(`<img src="%s" class="wavedrom" alt="%s">`,
		src, html.EscapeString(seg.String()))
}

// ErrorMarker emits a red inline error block.
func (s *HTMLSurface) ErrorMarker(err error) string {
	return fmt.Sprintf(`<em style="color:red;font-weight:bold"><pre>/!\ WaveDrom Error: %s</pre></em>`,
		html.EscapeString(errors.UserMessage(err)))
}

// Join concatenates segments into one inline block.
func (s *HTMLSurface) Join(parts []string) string {
	return strings.Join(parts, "")
}

// LaTeXSurface emits one page-centered figure per segment for printed
// output. Segments carrying no new information are skipped.
type LaTeXSurface struct {
	// MaxSegmentWidth caps the wave length of one figure.
	// Zero means DefaultPageWidth.
	MaxSegmentWidth int

	// DisableFilter keeps segments the significance filter would skip.
	DisableFilter bool
}

// Name implements Surface.
func (s *LaTeXSurface) Name() string { return "latex" }

// Policy implements Surface.
func (s *LaTeXSurface) Policy() Policy {
	width := s.MaxSegmentWidth
	if width <= 0 {
		width = DefaultPageWidth
	}
	return Policy{MaxSegmentWidth: width, ApplySignificanceFilter: !s.DisableFilter}
}

// Image emits a figure block. [H] forces placement; the document
// preamble must carry \usepackage{float}.
func (s *LaTeXSurface) Image(src string, seg wavejson.Document) string {
	return fmt.Sprintf(`\begin{figure}[H]\centering\includegraphics[width=0.8\textwidth]{%s}\end{figure}`, src)
}

// ErrorMarker emits a bold error line with LaTeX specials escaped.
func (s *LaTeXSurface) ErrorMarker(err error) string {
	return fmt.Sprintf(`\textbf{WaveDrom Error: %s}`, escapeLaTeX(errors.UserMessage(err)))
}

// Join separates figures by newlines.
func (s *LaTeXSurface) Join(parts []string) string {
	return strings.Join(parts, "\n")
}

// latexReplacer escapes characters LaTeX treats specially in text mode.
// A single Replacer substitutes simultaneously, so introduced backslashes
// are not re-escaped.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`_`, `\_`,
	`%`, `\%`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
)

func escapeLaTeX(s string) string {
	return latexReplacer.Replace(s)
}

// Ensure both surfaces implement Surface.
var (
	_ Surface = (*HTMLSurface)(nil)
	_ Surface = (*LaTeXSurface)(nil)
)
