package render

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// DefaultCommand is the WaveJSON renderer executable used when none is
// configured.
const DefaultCommand = "yowasp-wavedrom"

// Renderer turns one waveform document into an SVG image.
type Renderer interface {
	Render(doc wavejson.Document) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(wavejson.Document) ([]byte, error)

// Render implements Renderer.
func (f RendererFunc) Render(doc wavejson.Document) ([]byte, error) {
	return f(doc)
}

// CommandRenderer renders by piping the document, serialized as strict
// JSON, to an external command's standard input and reading the SVG from
// its standard output. Any WaveDrom-compatible CLI honoring that contract
// can serve. The zero value runs DefaultCommand with no extra arguments.
type CommandRenderer struct {
	// Path is the executable to run; empty selects DefaultCommand.
	Path string

	// Args are passed to the command before the document is piped.
	Args []string
}

// Render implements Renderer.
func (r CommandRenderer) Render(doc wavejson.Document) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = DefaultCommand
	}
	if _, err := exec.LookPath(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererNotFound, err,
			"renderer %q not found; install it or configure another command", path)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode waveform")
	}

	cmd := exec.Command(path, r.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", path, msg)
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", path)
	}
	return out.Bytes(), nil
}
