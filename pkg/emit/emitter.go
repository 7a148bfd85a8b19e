package emit

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/cache"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/observability"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/render"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/restyle"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/segment"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// Defaults applied when the corresponding Emitter fields are zero.
const (
	// DefaultSkin is injected into documents that declare signals but
	// no skin of their own.
	DefaultSkin = "default"

	// DefaultImageDir is where artifacts land under the output root.
	DefaultImageDir = "_images/wavedrom"

	// DefaultDPI is the raster density for PNG conversion.
	DefaultDPI = 300
)

// Emitter renders waveform documents into image artifacts and markup.
//
// The zero value works: collaborators default to the external
// yowasp-wavedrom renderer and rsvg-convert, caching is disabled, and
// artifacts land under DefaultImageDir in the current directory.
// Emitters hold no per-diagram state; one Emitter may serve many
// diagrams, including from parallel document builds, as long as each
// diagram name is unique within the shared image directory.
type Emitter struct {
	// Renderer produces SVG from a waveform document.
	// Nil selects the default CommandRenderer.
	Renderer render.Renderer

	// Converter rasterizes SVG files to PNG.
	// Nil selects RSVGConverter.
	Converter render.Converter

	// Cache stores finished artifacts keyed by content.
	// Nil disables caching.
	Cache cache.Cache

	// Keyer generates artifact cache keys. Nil selects the DefaultKeyer.
	Keyer cache.Keyer

	// Logger receives diagnostics. Nil selects log.Default().
	Logger *log.Logger

	// OutDir is the build output root.
	OutDir string

	// ImageDir is the image directory under OutDir. It also prefixes
	// image references in emitted markup. Empty means DefaultImageDir.
	ImageDir string

	// DPI is the raster density for PNG conversion. Zero means DefaultDPI.
	DPI float64

	// Skin is the default visual skin. Empty means DefaultSkin.
	Skin string

	// Restyle holds the style-normalization options applied to every
	// rendered SVG before conversion.
	Restyle restyle.Options
}

// Emit runs the full sequence for one diagram occurrence: skin
// injection, segmentation, significance filtering per the surface's
// policy, then render/restyle/convert per segment. It returns the
// surface markup referencing the written artifacts.
//
// On a render or conversion failure the returned markup ends with the
// surface's error marker, the remaining segments are abandoned, and a
// coded error describes the failure; callers report it as a per-diagram
// diagnostic and keep building. The context is consulted only by cache
// operations and hooks; render and convert run to completion once
// started.
func (e *Emitter) Emit(ctx context.Context, name string, doc wavejson.Document, surface Surface) (string, error) {
	if err := errors.ValidateDiagramName(name); err != nil {
		return "", err
	}

	renderer := e.Renderer
	if renderer == nil {
		renderer = render.CommandRenderer{}
	}
	converter := e.Converter
	if converter == nil {
		converter = render.RSVGConverter{}
	}
	store := e.Cache
	if store == nil {
		store = cache.NewNullCache()
	}
	keyer := e.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	imageDir := e.ImageDir
	if imageDir == "" {
		imageDir = DefaultImageDir
	}
	dpi := e.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	skin := e.Skin
	if skin == "" {
		skin = DefaultSkin
	}

	doc = doc.WithDefaultSkin(skin)

	policy := surface.Policy()
	segs, err := segment.Split(doc, policy.MaxSegmentWidth)
	if err != nil {
		return "", err
	}

	// The first segment is always kept; later ones are tested against
	// their immediate predecessor in the original order.
	kept := make([]int, 0, len(segs))
	for i := range segs {
		if policy.ApplySignificanceFilter && i > 0 && !segment.Significant(segs[i], segs[i-1]) {
			observability.Emitter().OnSegmentSkipped(ctx, name, i)
			logger.Debug("skipping insignificant segment",
				"diagram", name, "segment", i+1, "of", len(segs))
			continue
		}
		kept = append(kept, i)
	}

	outDir := filepath.Join(e.OutDir, filepath.FromSlash(imageDir))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create image directory %s", outDir)
	}

	var parts []string

	// fail logs the diagnostic, substitutes the surface's error marker,
	// and abandons the remaining segments of this diagram.
	fail := func(stage string, idx int, cause error, code errors.Code) (string, error) {
		if c := errors.GetCode(cause); c != "" {
			code = c
		}
		logger.Error("wavedrom "+stage+" failed",
			"diagram", name, "segment", idx+1, "surface", surface.Name(), "err", cause)
		parts = append(parts, surface.ErrorMarker(cause))
		return surface.Join(parts), errors.Wrap(code, cause, "%s %s segment %d", stage, name, idx+1)
	}

	hooks := observability.Emitter()
	for _, i := range kept {
		seg := segs[i]
		partName := name
		if len(segs) > 1 {
			partName = fmt.Sprintf("%s_part%d", name, i+1)
		}
		svgPath := filepath.Join(outDir, partName+".svg")
		pngPath := filepath.Join(outDir, partName+".png")
		src := path.Join(imageDir, partName+".png")

		docHash := cache.Hash([]byte(seg.String()))
		svgKey := keyer.ArtifactKey(docHash, e.artifactOpts("svg", dpi))
		pngKey := keyer.ArtifactKey(docHash, e.artifactOpts("png", dpi))

		if svgData, pngData, ok := cachedPair(ctx, store, svgKey, pngKey); ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			logger.Debug("artifact cache hit", "diagram", name, "segment", i+1)
			if err := os.WriteFile(svgPath, svgData, 0644); err != nil {
				return fail("write", i, err, errors.ErrCodeInternal)
			}
			if err := os.WriteFile(pngPath, pngData, 0644); err != nil {
				return fail("write", i, err, errors.ErrCodeInternal)
			}
			parts = append(parts, surface.Image(src, seg))
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")

		hooks.OnRenderStart(ctx, name, i)
		renderStart := time.Now()
		svg, rerr := renderer.Render(seg)
		hooks.OnRenderComplete(ctx, name, i, time.Since(renderStart), rerr)
		if rerr != nil {
			return fail("render", i, rerr, errors.ErrCodeRenderFailed)
		}

		if err := os.WriteFile(svgPath, svg, 0644); err != nil {
			return fail("write", i, err, errors.ErrCodeInternal)
		}

		// Restyle failures are logged and otherwise ignored; the file
		// keeps whatever styling the renderer produced.
		restyled := true
		if err := restyle.File(svgPath, e.Restyle); err != nil {
			restyled = false
			logger.Error("could not restyle diagram",
				"diagram", name, "segment", i+1, "path", svgPath, "err", err)
		}

		hooks.OnConvertStart(ctx, name, i)
		convertStart := time.Now()
		cerr := converter.Convert(svgPath, pngPath, dpi)
		hooks.OnConvertComplete(ctx, name, i, time.Since(convertStart), cerr)
		if cerr != nil {
			return fail("convert", i, cerr, errors.ErrCodeConvertFailed)
		}

		// Cache only artifacts that restyled cleanly.
		if restyled {
			if data, err := os.ReadFile(svgPath); err == nil {
				_ = store.Set(ctx, svgKey, data, cache.TTLArtifact)
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
			if data, err := os.ReadFile(pngPath); err == nil {
				_ = store.Set(ctx, pngKey, data, cache.TTLArtifact)
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}

		parts = append(parts, surface.Image(src, seg))
	}

	return surface.Join(parts), nil
}

// artifactOpts resolves restyle defaults so configured and zero-value
// emitters address the same cache entries.
func (e *Emitter) artifactOpts(format string, dpi float64) cache.ArtifactKeyOpts {
	o := e.Restyle.WithDefaults()
	return cache.ArtifactKeyOpts{
		Format:       format,
		DPI:          dpi,
		FontSize:     o.FontSize,
		TextFill:     o.TextFill,
		Stroke:       o.Stroke,
		FlatRowScale: o.FlatRowScale,
	}
}

// cachedPair fetches the SVG and PNG for one segment, treating any
// backend error as a miss.
func cachedPair(ctx context.Context, store cache.Cache, svgKey, pngKey string) ([]byte, []byte, bool) {
	svgData, hit, err := store.Get(ctx, svgKey)
	if err != nil || !hit {
		return nil, nil, false
	}
	pngData, hit, err := store.Get(ctx, pngKey)
	if err != nil || !hit {
		return nil, nil, false
	}
	return svgData, pngData, true
}
