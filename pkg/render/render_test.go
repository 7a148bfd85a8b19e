package render

import (
	"strings"
	"testing"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

func TestRendererFunc(t *testing.T) {
	var got wavejson.Document
	r := RendererFunc(func(doc wavejson.Document) ([]byte, error) {
		got = doc
		return []byte("<svg/>"), nil
	})

	doc := wavejson.Document{Signal: []wavejson.Track{{Wave: "01"}}}
	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(out) != "<svg/>" {
		t.Errorf("Render() = %q, want <svg/>", out)
	}
	if len(got.Signal) != 1 || got.Signal[0].Wave != "01" {
		t.Errorf("Render() passed %+v to the func", got)
	}
}

func TestCommandRendererPipesJSON(t *testing.T) {
	// cat echoes stdin, so the output is exactly the serialized document.
	r := CommandRenderer{Path: "cat"}
	doc := wavejson.Document{Signal: []wavejson.Track{
		{Wave: "p...", Attrs: map[string]any{"name": "clk"}},
	}}

	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := `{"signal":[{"name":"clk","wave":"p..."}]}`
	if string(out) != want {
		t.Errorf("Render() = %s, want %s", out, want)
	}
}

func TestCommandRendererMissing(t *testing.T) {
	r := CommandRenderer{Path: "wavedrom-render-tool-that-does-not-exist"}
	_, err := r.Render(wavejson.Document{})
	if err == nil {
		t.Fatal("Render() error = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeRendererNotFound) {
		t.Errorf("Render() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeRendererNotFound)
	}
	if !strings.Contains(err.Error(), "install it or configure") {
		t.Errorf("Render() error %q carries no install hint", err)
	}
}

func TestCommandRendererFailure(t *testing.T) {
	r := CommandRenderer{Path: "false"}
	_, err := r.Render(wavejson.Document{})
	if err == nil {
		t.Fatal("Render() error = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("Render() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeRenderFailed)
	}
}

func TestConverterFunc(t *testing.T) {
	var gotSVG, gotPNG string
	var gotDPI float64
	c := ConverterFunc(func(svgPath, pngPath string, dpi float64) error {
		gotSVG, gotPNG, gotDPI = svgPath, pngPath, dpi
		return nil
	})

	if err := c.Convert("in.svg", "out.png", 300); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if gotSVG != "in.svg" || gotPNG != "out.png" || gotDPI != 300 {
		t.Errorf("Convert() passed (%q, %q, %v)", gotSVG, gotPNG, gotDPI)
	}
}

func TestRSVGConverterErrorsAreCoded(t *testing.T) {
	// Whether or not librsvg is installed, converting a file that does not
	// exist must fail with a conversion error.
	err := RSVGConverter{}.Convert("/nonexistent/in.svg", "/nonexistent/out.png", 300)
	if err == nil {
		t.Skip("rsvg-convert accepted a nonexistent file")
	}
	if !errors.Is(err, errors.ErrCodeConvertFailed) {
		t.Errorf("Convert() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeConvertFailed)
	}
}
