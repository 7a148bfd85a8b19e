package emit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

func TestHTMLSurfacePolicy(t *testing.T) {
	s := &HTMLSurface{}
	p := s.Policy()
	if p.MaxSegmentWidth != DefaultInlineWidth {
		t.Errorf("MaxSegmentWidth = %d, want %d", p.MaxSegmentWidth, DefaultInlineWidth)
	}
	if p.ApplySignificanceFilter {
		t.Error("inline surface should never filter segments")
	}

	s = &HTMLSurface{MaxSegmentWidth: 25}
	if got := s.Policy().MaxSegmentWidth; got != 25 {
		t.Errorf("MaxSegmentWidth = %d, want 25", got)
	}
}

func TestLaTeXSurfacePolicy(t *testing.T) {
	s := &LaTeXSurface{}
	p := s.Policy()
	if p.MaxSegmentWidth != DefaultPageWidth {
		t.Errorf("MaxSegmentWidth = %d, want %d", p.MaxSegmentWidth, DefaultPageWidth)
	}
	if !p.ApplySignificanceFilter {
		t.Error("page surface should filter segments by default")
	}

	s = &LaTeXSurface{MaxSegmentWidth: 10, DisableFilter: true}
	p = s.Policy()
	if p.MaxSegmentWidth != 10 {
		t.Errorf("MaxSegmentWidth = %d, want 10", p.MaxSegmentWidth)
	}
	if p.ApplySignificanceFilter {
		t.Error("DisableFilter should turn the filter off")
	}
}

func TestHTMLSurfaceImage(t *testing.T) {
	s := &HTMLSurface{}
	doc := wavejson.Document{
		Signal: []wavejson.Track{{Wave: "p...", Attrs: map[string]any{"name": "clk"}}},
	}

	got := s.Image("img/clk.png", doc)
	want := `<img src="img/clk.png" class="wavedrom" alt="{&#34;signal&#34;:[{&#34;name&#34;:&#34;clk&#34;,&#34;wave&#34;:&#34;p...&#34;}]}">`
	if got != want {
		t.Errorf("Image = %s, want %s", got, want)
	}
}

func TestHTMLSurfaceImageEscapesAlt(t *testing.T) {
	s := &HTMLSurface{}
	doc := wavejson.Document{
		Signal: []wavejson.Track{{Wave: "01", Attrs: map[string]any{"name": "d<a>&b"}}},
	}

	got := s.Image("x.png", doc)
	if strings.Contains(got, "<a>") {
		t.Errorf("alt text should be HTML-escaped: %s", got)
	}
	if !strings.Contains(got, "d&lt;a&gt;&amp;b") {
		t.Errorf("escaped name missing from alt: %s", got)
	}
}

func TestHTMLSurfaceErrorMarker(t *testing.T) {
	s := &HTMLSurface{}

	got := s.ErrorMarker(fmt.Errorf("bad <wave>"))
	want := `<em style="color:red;font-weight:bold"><pre>/!\ WaveDrom Error: bad &lt;wave&gt;</pre></em>`
	if got != want {
		t.Errorf("ErrorMarker = %s, want %s", got, want)
	}
}

func TestHTMLSurfaceErrorMarkerCodedError(t *testing.T) {
	s := &HTMLSurface{}

	// Coded errors surface their message without the code prefix
	err := errors.New(errors.ErrCodeRenderFailed, "renderer exited with status 1")
	got := s.ErrorMarker(err)
	if strings.Contains(got, string(errors.ErrCodeRenderFailed)) {
		t.Errorf("marker should not leak the error code: %s", got)
	}
	if !strings.Contains(got, "renderer exited with status 1") {
		t.Errorf("marker should carry the message: %s", got)
	}
}

func TestHTMLSurfaceJoin(t *testing.T) {
	s := &HTMLSurface{}
	got := s.Join([]string{"<img a>", "<img b>"})
	if got != "<img a><img b>" {
		t.Errorf("Join = %q, want one inline block", got)
	}
}

func TestLaTeXSurfaceImage(t *testing.T) {
	s := &LaTeXSurface{}
	got := s.Image("img/bus_part2.png", wavejson.Document{})
	want := `\begin{figure}[H]\centering\includegraphics[width=0.8\textwidth]{img/bus_part2.png}\end{figure}`
	if got != want {
		t.Errorf("Image = %s, want %s", got, want)
	}
}

func TestLaTeXSurfaceErrorMarker(t *testing.T) {
	s := &LaTeXSurface{}
	got := s.ErrorMarker(fmt.Errorf("file_name is 50%% done for $5"))
	want := `\textbf{WaveDrom Error: file\_name is 50\% done for \$5}`
	if got != want {
		t.Errorf("ErrorMarker = %s, want %s", got, want)
	}
}

func TestLaTeXSurfaceJoin(t *testing.T) {
	s := &LaTeXSurface{}
	got := s.Join([]string{`\begin{figure}a\end{figure}`, `\begin{figure}b\end{figure}`})
	want := "\\begin{figure}a\\end{figure}\n\\begin{figure}b\\end{figure}"
	if got != want {
		t.Errorf("Join = %q, want newline-separated figures", got)
	}
}

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"a_b", `a\_b`},
		{"100%", `100\%`},
		{"x & y", `x \& y`},
		{"#5", `\#5`},
		{"$var", `\$var`},
		{"{obj}", `\{obj\}`},
		{`C:\path`, `C:\textbackslash{}path`},
		{"a^b", `a\textasciicircum{}b`},
		{"~user", `\textasciitilde{}user`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := escapeLaTeX(tt.in); got != tt.want {
			t.Errorf("escapeLaTeX(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
