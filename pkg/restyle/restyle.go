package restyle

import (
	"fmt"
	"os"
	"strings"
)

// Defaults chosen for readable diagrams in both HTML and print output: text
// small enough to fit dense timing labels, dark blue to stand apart from
// the black signal lines.
const (
	DefaultFontSize     = "15px"
	DefaultTextFill     = "#00008B"
	DefaultStroke       = "#000"
	DefaultFlatRowScale = 0.5
)

// Options control the style normalization pass. The zero value selects the
// defaults above; set FlatRowScale to 1 to keep flat rows at full height.
type Options struct {
	// FontSize is forced on every text element.
	FontSize string

	// TextFill is forced on every text element.
	TextFill string

	// Stroke is forced on every path and line element.
	Stroke string

	// FlatRowScale scales the allocated height of rows whose geometry has
	// no vertical segments. Values outside (0, 1] select the default.
	FlatRowScale float64
}

// WithDefaults returns o with zero-value fields replaced by the package
// defaults. Apply calls it internally; cache-key construction uses it so
// configured and zero-value options address the same entries.
func (o Options) WithDefaults() Options {
	if o.FontSize == "" {
		o.FontSize = DefaultFontSize
	}
	if o.TextFill == "" {
		o.TextFill = DefaultTextFill
	}
	if o.Stroke == "" {
		o.Stroke = DefaultStroke
	}
	if o.FlatRowScale <= 0 || o.FlatRowScale > 1 {
		o.FlatRowScale = DefaultFlatRowScale
	}
	return o
}

// Apply normalizes the styling of an SVG image and compresses flat signal
// rows. Text elements get a fixed font size and fill, path and line
// elements a fixed stroke; each property is forced both as a presentation
// attribute and inside the inline style attribute, so renderer-emitted
// declarations cannot override it. Rows whose drawn geometry is purely
// horizontal have their allocated height scaled by FlatRowScale, with
// every following row shifted up by the accumulated difference and the
// root height shrunk to match.
//
// Apply never modifies svg; it returns the rewritten image.
func Apply(svg []byte, o Options) ([]byte, error) {
	o = o.WithDefaults()

	doc, err := parseDocument(svg)
	if err != nil {
		return nil, err
	}

	doc.root.walk(func(el *element) bool {
		switch el.tag() {
		case "text":
			forceStyle(el, "font-size", o.FontSize)
			forceStyle(el, "fill", o.TextFill)
		case "path", "line":
			forceStyle(el, "stroke", o.Stroke)
		}
		return true
	})

	if o.FlatRowScale < 1 {
		if reduced := compressFlatRows(doc.root, o.FlatRowScale); reduced > 0 {
			shrinkHeight(doc.root, reduced)
		}
	}

	return doc.bytes(), nil
}

// File applies the normalization to an SVG file in place. The file is only
// rewritten when the whole pass succeeds; on error it keeps its last
// written content, so a failed pass degrades to un-normalized styling.
func File(path string, o Options) error {
	svg, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("restyle %s: %w", path, err)
	}
	out, err := Apply(svg, o)
	if err != nil {
		return fmt.Errorf("restyle %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("restyle %s: %w", path, err)
	}
	return nil
}

// forceStyle sets property to value as a presentation attribute and inside
// the element's inline style attribute, replacing any existing declaration
// of the same property and keeping the others.
func forceStyle(el *element, property, value string) {
	style, _ := el.attr("style")
	el.setAttr("style", upsertDeclaration(style, property, value))
	el.setAttr(property, value)
}

// upsertDeclaration rewrites one property of an inline CSS declaration
// list, preserving the order and content of unrelated declarations.
func upsertDeclaration(style, property, value string) string {
	var decls []string
	found := false
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), property) {
			if found {
				continue // drop duplicate declarations
			}
			found = true
			decls = append(decls, property+": "+value)
			continue
		}
		decls = append(decls, decl)
	}
	if !found {
		decls = append(decls, property+": "+value)
	}
	return strings.Join(decls, "; ")
}
