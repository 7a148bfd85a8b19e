package config

import (
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
)

// maxDPI bounds the raster density; rsvg-convert handles far more, but
// anything past this produces images too large for documentation builds.
const maxDPI = 2400

// Validate checks the configuration values for consistency.
func (c *Config) Validate() error {
	if err := errors.ValidateSkin(c.Skin); err != nil {
		return err
	}
	if err := errors.ValidateImageDir(c.ImageDir); err != nil {
		return err
	}

	if c.DPI <= 0 || c.DPI > maxDPI {
		return errors.New(errors.ErrCodeInvalidConfig,
			"dpi must be between 0 (exclusive) and %d, got %g", maxDPI, c.DPI)
	}
	if c.FontSize == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size cannot be empty")
	}
	if c.TextFill == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "text_fill cannot be empty")
	}
	if c.Stroke == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke cannot be empty")
	}
	if c.FlatRowScale <= 0 || c.FlatRowScale > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"flat_row_scale must be in (0, 1], got %g", c.FlatRowScale)
	}

	if c.Surfaces.Inline.MaxSegmentWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"surfaces.inline.max_segment_width must be positive, got %d",
			c.Surfaces.Inline.MaxSegmentWidth)
	}
	if c.Surfaces.Page.MaxSegmentWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"surfaces.page.max_segment_width must be positive, got %d",
			c.Surfaces.Page.MaxSegmentWidth)
	}

	if c.Renderer.Command == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "renderer.command cannot be empty")
	}

	switch c.Cache.Backend {
	case "file", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig,
				"cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (valid: file, redis, none)", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}

	return nil
}
