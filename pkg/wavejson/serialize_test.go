package wavejson

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestMarshalDeterministicOrder(t *testing.T) {
	doc := Document{
		Signal: []Track{
			{Wave: "p...", Attrs: map[string]any{"period": float64(2), "name": "clk"}},
		},
		Config: map[string]any{"skin": "narrow", "hscale": float64(1)},
		Extra: map[string]any{
			"head": map[string]any{"text": "hi"},
			"foot": map[string]any{"tock": float64(9)},
		},
	}

	got, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"signal":[{"name":"clk","wave":"p...","period":2}],` +
		`"config":{"hscale":1,"skin":"narrow"},` +
		`"foot":{"tock":9},"head":{"text":"hi"}}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestMarshalOmitsAbsentMembers(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"zero document", Document{}, `{}`},
		{"signal only", Document{Signal: []Track{{Wave: "01"}}}, `{"signal":[{"wave":"01"}]}`},
		{"empty signal kept", Document{Signal: []Track{}}, `{"signal":[]}`},
		{"config only", Document{Config: map[string]any{"skin": "default"}}, `{"config":{"skin":"default"}}`},
		{"empty wave omitted", Document{Signal: []Track{{Attrs: map[string]any{"name": "gap"}}}}, `{"signal":[{"name":"gap"}]}`},
		{"bare spacer track", Document{Signal: []Track{{}}}, `{"signal":[{}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMarshalParseIdempotent(t *testing.T) {
	srcs := []string{
		`{ signal: [
			{ name: 'clk',  wave: 'P......' },
			{ name: 'bus',  wave: 'x.==.=x', data: ['head', 'body', 'tail'] },
			{ name: 'wire', wave: '0.1..0.' },
		], config: { hscale: 2 }, head: { text: 'read cycle' } }`,
		`{signal: [{wave: '01.0'}, {}]}`,
		`{}`,
	}

	for _, src := range srcs {
		doc, err := ParseString(src)
		if err != nil {
			t.Fatalf("ParseString(%q) error = %v", src, err)
		}
		first, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}

		// Strict output re-parses under the relaxed grammar.
		reparsed, err := Parse(first)
		if err != nil {
			t.Fatalf("Parse(Marshal()) error = %v", err)
		}
		second, err := json.Marshal(reparsed)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("marshal not stable:\n first = %s\nsecond = %s", first, second)
		}
	}
}

func TestMarshalIsValidJSON(t *testing.T) {
	doc, err := ParseString(`{signal: [{name: 'a"b', wave: '01', note: 'tab\there'}]}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	sig := decoded["signal"].([]any)
	track := sig[0].(map[string]any)
	if track["name"] != `a"b` {
		t.Errorf("name round-trip = %q, want %q", track["name"], `a"b`)
	}
	if track["note"] != "tab\there" {
		t.Errorf("note round-trip = %q, want %q", track["note"], "tab\there")
	}
}

func TestDocumentString(t *testing.T) {
	doc := Document{Signal: []Track{{Wave: "01", Attrs: map[string]any{"name": "req"}}}}
	want := `{"signal":[{"name":"req","wave":"01"}]}`
	if got := doc.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
