// Package config loads and validates wavedrom build configuration.
//
// It supplies repository defaults, reads TOML files, rejects unknown
// keys, and centralizes every knob the CLI and render server need:
// visual skin, image directory, raster DPI, restyle overrides, per-
// surface segmentation policies, the renderer command, and the cache
// backend.
//
// Always obtain settings through this package so downstream code
// receives validated values and clear configuration errors.
package config
