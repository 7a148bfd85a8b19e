package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/internal/config"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/observability"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	surface   string  // target surface: "html" or "latex"
	out       string  // build output root; artifacts land under its image dir
	imageDir  string  // image directory override
	skin      string  // default skin override
	dpi       float64 // raster density override
	renderer  string  // renderer command override
	noCache   bool    // disable the artifact cache
	markupOut string  // write markup here instead of stdout
}

// renderCommand creates the render command for emitting diagram artifacts
// and their surface markup.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		surface: "html",
		out:     ".",
	}

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a WaveJSON diagram to image artifacts and markup",
		Long: `Render a WaveJSON diagram to image artifacts and markup.

The input is either a WaveJSON file (.json or .json5, relaxed syntax
accepted) or a directive block whose first line is

    .. wavedrom:: <name>

with the document on the following lines. The diagram name comes from
the directive argument, or from the input file name.

Long waveforms are split into segments sized for the target surface;
the page surface additionally drops segments that carry no new
information. SVG and PNG artifacts are written under the image
directory, and the markup that references them is printed to stdout
(or written to --markup-out).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.surface, "surface", "s", opts.surface, "target surface: html (default), latex")
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "build output root")
	cmd.Flags().StringVar(&opts.imageDir, "image-dir", "", "image directory under the output root (overrides config)")
	cmd.Flags().StringVar(&opts.skin, "skin", "", "default skin for documents without one (overrides config)")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "PNG raster density (overrides config)")
	cmd.Flags().StringVar(&opts.renderer, "renderer", "", "renderer command (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.markupOut, "markup-out", "", "write markup to this file instead of stdout")

	return cmd
}

// runRender loads the document, emits artifacts for the chosen surface,
// and delivers the markup.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	cfg, err := c.configWithOverrides(opts)
	if err != nil {
		return err
	}

	name, doc, err := readDocument(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("parsed document", "name", name, "tracks", len(doc.Signal))

	surface, err := cfg.Surface(opts.surface)
	if err != nil {
		return err
	}

	emitter, err := c.newEmitter(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	emitter.OutDir = opts.out
	defer func() {
		if emitter.Cache != nil {
			_ = emitter.Cache.Close()
		}
	}()

	stats := &emitStats{}
	observability.SetCacheHooks(stats)
	defer observability.Reset()

	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, fmt.Sprintf("Rendering %s...", name))
	sp.Start()
	markup, emitErr := emitter.Emit(ctx, name, doc, surface)
	if emitErr != nil {
		sp.StopWithError(fmt.Sprintf("Render failed: %s", name))
	} else {
		sp.Stop()
		prog.done(fmt.Sprintf("Rendered %s (%d segments)", name, stats.segments()))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Deliver whatever markup was produced; on failure it ends with the
	// surface's error marker, matching what a document build would embed.
	if opts.markupOut != "" {
		if err := os.WriteFile(opts.markupOut, []byte(markup), 0o644); err != nil {
			return fmt.Errorf("write markup %s: %w", opts.markupOut, err)
		}
		if emitErr == nil {
			printSuccess("Rendered %s", name)
			printFile(opts.markupOut)
			printStats(len(doc.Signal), stats.segments(), stats.allCached())
		}
	} else if markup != "" {
		fmt.Println(markup)
	}

	return emitErr
}

// configWithOverrides loads the configuration and applies the render
// command's flag overrides, re-validating the result.
func (c *CLI) configWithOverrides(opts *renderOpts) (*config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if opts.imageDir != "" {
		cfg.ImageDir = opts.imageDir
	}
	if opts.skin != "" {
		cfg.Skin = opts.skin
	}
	if opts.dpi > 0 {
		cfg.DPI = opts.dpi
	}
	if opts.renderer != "" {
		cfg.Renderer.Command = opts.renderer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// directiveRe matches the leading ".. wavedrom:: <name>" line of a
// directive block.
var directiveRe = regexp.MustCompile(`^\.\.[ \t]+wavedrom[ \t]*::[ \t]*(\S*)[^\n]*\n`)

// readDocument loads input and parses it as WaveJSON. A directive block
// has its first line replaced by a blank line, so parse error positions
// keep matching the file; the diagram name comes from the directive
// argument when present, otherwise from the file name.
func readDocument(input string) (string, wavejson.Document, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return "", wavejson.Document{}, fmt.Errorf("read input: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	payload := string(data)
	if m := directiveRe.FindStringSubmatch(payload); m != nil {
		if m[1] != "" {
			name = m[1]
		}
		payload = directiveRe.ReplaceAllString(payload, "\n")
	}

	doc, err := wavejson.ParseString(payload)
	if err != nil {
		return "", wavejson.Document{}, fmt.Errorf("%s: %w", input, err)
	}
	return name, doc, nil
}

// emitStats counts cache traffic during one Emit to report whether the
// diagram came entirely from cache.
type emitStats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (s *emitStats) OnCacheHit(context.Context, string)      { s.hits.Add(1) }
func (s *emitStats) OnCacheMiss(context.Context, string)     { s.misses.Add(1) }
func (s *emitStats) OnCacheSet(context.Context, string, int) {}

// segments reports how many segments were emitted.
func (s *emitStats) segments() int {
	return int(s.hits.Load() + s.misses.Load())
}

// allCached reports whether every segment came from cache.
func (s *emitStats) allCached() bool {
	return s.misses.Load() == 0 && s.hits.Load() > 0
}
