package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
)

// Converter rasterizes an SVG file into a PNG file.
type Converter interface {
	Convert(svgPath, pngPath string, dpi float64) error
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(svgPath, pngPath string, dpi float64) error

// Convert implements Converter.
func (f ConverterFunc) Convert(svgPath, pngPath string, dpi float64) error {
	return f(svgPath, pngPath, dpi)
}

// RSVGConverter rasterizes with the rsvg-convert tool from librsvg.
type RSVGConverter struct{}

// Convert implements Converter. It writes pngPath only on success.
func (RSVGConverter) Convert(svgPath, pngPath string, dpi float64) error {
	if err := requireRSVG(); err != nil {
		return err
	}

	d := fmt.Sprintf("%g", dpi)
	cmd := exec.Command("rsvg-convert", "-f", "png", "--dpi-x", d, "--dpi-y", d, "-o", pngPath, svgPath)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return errors.Wrap(errors.ErrCodeConvertFailed, err, "rsvg-convert %s: %s", svgPath, msg)
		}
		return errors.Wrap(errors.ErrCodeConvertFailed, err, "rsvg-convert %s", svgPath)
	}
	return nil
}

// ToPNG converts SVG bytes to PNG at the given resolution without going
// through the filesystem. Used by the preview server.
func ToPNG(svg []byte, dpi float64) ([]byte, error) {
	if err := requireRSVG(); err != nil {
		return nil, err
	}

	d := fmt.Sprintf("%g", dpi)
	cmd := exec.Command("rsvg-convert", "-f", "png", "--dpi-x", d, "--dpi-y", d)
	cmd.Stdin = bytes.NewReader(svg)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return nil, errors.Wrap(errors.ErrCodeConvertFailed, err, "rsvg-convert: %s", msg)
		}
		return nil, errors.Wrap(errors.ErrCodeConvertFailed, err, "rsvg-convert")
	}
	return out.Bytes(), nil
}

// requireRSVG checks that rsvg-convert is installed.
// Install with: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func requireRSVG() error {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return errors.New(errors.ErrCodeConvertFailed,
			"PNG conversion requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}
	return nil
}
