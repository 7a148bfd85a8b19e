package config

import (
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/emit"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/render"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/restyle"
)

// DefaultServerAddr is the render server's default listen address.
// Loopback only; the server is a local build helper, not a public API.
const DefaultServerAddr = "127.0.0.1:8472"

// Default returns a configuration populated with the pipeline defaults.
// Values mirror the constants of the packages they configure so the two
// cannot drift apart.
func Default() Config {
	return Config{
		Skin:         emit.DefaultSkin,
		ImageDir:     emit.DefaultImageDir,
		DPI:          emit.DefaultDPI,
		FontSize:     restyle.DefaultFontSize,
		TextFill:     restyle.DefaultTextFill,
		Stroke:       restyle.DefaultStroke,
		FlatRowScale: restyle.DefaultFlatRowScale,
		Surfaces: Surfaces{
			Inline: InlineOptions{MaxSegmentWidth: emit.DefaultInlineWidth},
			Page: PageOptions{
				MaxSegmentWidth:    emit.DefaultPageWidth,
				SignificanceFilter: true,
			},
		},
		Renderer: Renderer{Command: render.DefaultCommand},
		Cache:    Cache{Backend: "file"},
		Server:   Server{Addr: DefaultServerAddr},
	}
}
