package restyle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestApplyForcesTextStyle(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="80">` +
		`<text x="1" y="2" style="font-size:11px;fill:#0041c4">clk</text>` +
		`<text x="1" y="12">dat</text>` +
		`</svg>`

	out, err := Apply([]byte(svg), Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`style="font-size: 15px; fill: #00008B"`,
		`font-size="15px"`,
		`fill="#00008B"`,
		`>clk</text>`,
		`>dat</text>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Apply() output missing %q:\n%s", want, got)
		}
	}
	for _, stale := range []string{"11px", "#0041c4"} {
		if strings.Contains(got, stale) {
			t.Errorf("Apply() output kept renderer styling %q:\n%s", stale, got)
		}
	}
}

func TestApplyForcesStroke(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="80">` +
		`<path d="M0,0 H10" style="stroke:#333;stroke-width:1"/>` +
		`<line x1="0" y1="5" x2="9" y2="5" stroke="red"/>` +
		`</svg>`

	out, err := Apply([]byte(svg), Options{FlatRowScale: 1})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`style="stroke: #000; stroke-width:1"`,
		`stroke="#000"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Apply() output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "#333") || strings.Contains(got, "red") {
		t.Errorf("Apply() output kept renderer stroke:\n%s", got)
	}
}

func TestApplyCustomOptions(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg">` +
		`<text>x</text><path d="M0,0 H5"/></svg>`

	out, err := Apply([]byte(svg), Options{
		FontSize: "10px",
		TextFill: "#112233",
		Stroke:   "#FFF",
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := string(out)

	for _, want := range []string{`font-size="10px"`, `fill="#112233"`, `stroke="#FFF"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Apply() output missing %q:\n%s", want, got)
		}
	}
}

func TestApplyKeepsDocumentStructure(t *testing.T) {
	svg := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!-- rendered waveform -->` + "\n" +
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="20" height="10">` +
		`<defs><g id="sym"><path d="M0,0 H5"/></g></defs>` +
		`<use xlink:href="#sym"/>` +
		`<style>.s1 { fill: none; }</style>` +
		`</svg>`

	out, err := Apply([]byte(svg), Options{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<!-- rendered waveform -->`,
		`xmlns:xlink="http://www.w3.org/1999/xlink"`,
		`xlink:href="#sym"`,
		`.s1 { fill: none; }`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Apply() output missing %q:\n%s", want, got)
		}
	}
}

func TestApplyRejectsMalformedSVG(t *testing.T) {
	for _, svg := range []string{"", "<svg>", "not xml at all", "<a/><b/>"} {
		if _, err := Apply([]byte(svg), Options{}); err == nil {
			t.Errorf("Apply(%q) error = nil, want parse error", svg)
		}
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><text>clk</text></svg>`
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(path, Options{}); err != nil {
		t.Fatalf("File() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `fill="#00008B"`) {
		t.Errorf("File() did not rewrite the file:\n%s", got)
	}
}

func TestFileLeavesBrokenInputUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.svg")
	broken := `<svg xmlns="http://www.w3.org/2000/svg"><text>unclosed`
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(path, Options{}); err == nil {
		t.Fatal("File() error = nil, want parse error")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != broken {
		t.Errorf("File() modified the file on error:\n%s", got)
	}
}

func TestFileMissing(t *testing.T) {
	if err := File(filepath.Join(t.TempDir(), "missing.svg"), Options{}); err == nil {
		t.Fatal("File() error = nil, want error")
	}
}

func TestUpsertDeclaration(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		property string
		value    string
		want     string
	}{
		{"empty style", "", "font-size", "15px", "font-size: 15px"},
		{"replace only declaration", "font-size:11px", "font-size", "15px", "font-size: 15px"},
		{
			"replace in the middle",
			"fill:#000; font-size: 8px; dominant-baseline:middle",
			"font-size", "15px",
			"fill:#000; font-size: 15px; dominant-baseline:middle",
		},
		{"append missing", "fill:#000", "stroke", "#000", "fill:#000; stroke: #000"},
		{"case insensitive property", "FONT-SIZE : 11px", "font-size", "15px", "font-size: 15px"},
		{"duplicates collapse", "stroke:#1;stroke:#2", "stroke", "#000", "stroke: #000"},
		{"ignores empty declarations", ";;fill:#000;;", "fill", "#FFF", "fill: #FFF"},
		{"prefixed property untouched", "stroke-width:2", "stroke", "#000", "stroke-width:2; stroke: #000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := upsertDeclaration(tt.style, tt.property, tt.value); got != tt.want {
				t.Errorf("upsertDeclaration(%q, %q, %q) = %q, want %q",
					tt.style, tt.property, tt.value, got, tt.want)
			}
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.WithDefaults()
	if o.FontSize != DefaultFontSize || o.TextFill != DefaultTextFill ||
		o.Stroke != DefaultStroke || o.FlatRowScale != DefaultFlatRowScale {
		t.Errorf("WithDefaults() = %+v", o)
	}

	full := Options{FontSize: "9px", TextFill: "#111", Stroke: "#222", FlatRowScale: 0.75}
	if got := full.WithDefaults(); got != full {
		t.Errorf("WithDefaults() = %+v, want %+v", got, full)
	}

	if got := (Options{FlatRowScale: 1}).WithDefaults().FlatRowScale; got != 1 {
		t.Errorf("WithDefaults() FlatRowScale = %v, want 1", got)
	}
	if got := (Options{FlatRowScale: -2}).WithDefaults().FlatRowScale; got != DefaultFlatRowScale {
		t.Errorf("WithDefaults() FlatRowScale = %v, want default", got)
	}
}
