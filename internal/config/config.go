package config

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/emit"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/render"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/restyle"
)

//go:embed sample_config.toml
var sampleConfig string

// Surfaces groups the per-surface segmentation policies.
type Surfaces struct {
	Inline InlineOptions `toml:"inline"`
	Page   PageOptions   `toml:"page"`
}

// InlineOptions configures the scrolling (HTML) surface.
type InlineOptions struct {
	MaxSegmentWidth int `toml:"max_segment_width"`
}

// PageOptions configures the paginated (LaTeX) surface.
type PageOptions struct {
	MaxSegmentWidth    int  `toml:"max_segment_width"`
	SignificanceFilter bool `toml:"significance_filter"`
}

// Renderer configures the external WaveJSON renderer command.
type Renderer struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Cache configures the artifact cache backend.
type Cache struct {
	// Backend selects the storage: "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend directory. Empty selects the per-user
	// cache directory.
	Dir string `toml:"dir"`

	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Server configures the render server.
type Server struct {
	Addr string `toml:"addr"`
}

// Config encapsulates all configuration values for wavedrom builds.
//
// Top-level keys cover the diagram pipeline (skin, image directory,
// DPI, restyle overrides); the tables cover surface policies, the
// renderer command, the artifact cache, and the render server.
type Config struct {
	// Skin is the default visual skin applied to diagrams that declare
	// signals and no skin of their own.
	Skin string `toml:"skin"`

	// ImageDir is the artifact directory relative to the build output
	// root; it also prefixes image references in emitted markup.
	ImageDir string `toml:"image_dir"`

	// DPI is the raster density for PNG conversion.
	DPI float64 `toml:"dpi"`

	// Restyle overrides forced onto every rendered SVG.
	FontSize     string  `toml:"font_size"`
	TextFill     string  `toml:"text_fill"`
	Stroke       string  `toml:"stroke"`
	FlatRowScale float64 `toml:"flat_row_scale"`

	Surfaces Surfaces `toml:"surfaces"`
	Renderer Renderer `toml:"renderer"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wavedrom/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns
// the config, the resolved path, and whether a file was actually read;
// a missing file yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		md, err := toml.DecodeFile(resolvedPath, &cfg)
		if err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, "", false, errors.New(errors.ErrCodeInvalidConfig,
				"unknown config keys: %s", strings.Join(keys, ", "))
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wavedrom.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// normalize trims free-form fields and canonicalizes enumerations.
func (c *Config) normalize() error {
	c.Skin = strings.TrimSpace(c.Skin)
	c.ImageDir = strings.TrimSpace(c.ImageDir)
	c.FontSize = strings.TrimSpace(c.FontSize)
	c.TextFill = strings.TrimSpace(c.TextFill)
	c.Stroke = strings.TrimSpace(c.Stroke)
	c.Renderer.Command = strings.TrimSpace(c.Renderer.Command)
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)

	if c.Cache.Dir != "" {
		expanded, err := expandPath(c.Cache.Dir)
		if err != nil {
			return err
		}
		c.Cache.Dir = expanded
	}
	return nil
}

// Surface returns the configured emit surface for name.
// Valid names are "html" and "latex".
func (c *Config) Surface(name string) (emit.Surface, error) {
	switch name {
	case "html":
		return &emit.HTMLSurface{MaxSegmentWidth: c.Surfaces.Inline.MaxSegmentWidth}, nil
	case "latex":
		return &emit.LaTeXSurface{
			MaxSegmentWidth: c.Surfaces.Page.MaxSegmentWidth,
			DisableFilter:   !c.Surfaces.Page.SignificanceFilter,
		}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidSurface,
			"unknown surface %q (valid: html, latex)", name)
	}
}

// NewRenderer returns the configured renderer collaborator.
func (c *Config) NewRenderer() render.Renderer {
	return render.CommandRenderer{Path: c.Renderer.Command, Args: c.Renderer.Args}
}

// RestyleOptions returns the configured style-normalization options.
func (c *Config) RestyleOptions() restyle.Options {
	return restyle.Options{
		FontSize:     c.FontSize,
		TextFill:     c.TextFill,
		Stroke:       c.Stroke,
		FlatRowScale: c.FlatRowScale,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
