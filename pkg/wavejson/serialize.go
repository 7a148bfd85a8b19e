package wavejson

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// MarshalJSON implements json.Marshaler. The output is strict JSON with a
// deterministic member order: signal first, then config, then the remaining
// top-level members sorted by key. Members absent from the source document
// are omitted. Nested values are encoded by encoding/json, which sorts map
// keys, so equal documents always encode to identical bytes. That stability
// is what makes the serialized form usable as a cache key.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	if d.Signal != nil {
		if err := writeMember(&buf, &first, "signal", d.Signal); err != nil {
			return nil, err
		}
	}
	if d.Config != nil {
		if err := writeMember(&buf, &first, "config", d.Config); err != nil {
			return nil, err
		}
	}
	for _, k := range slices.Sorted(maps.Keys(d.Extra)) {
		if err := writeMember(&buf, &first, k, d.Extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler. The name attribute leads so the
// encoded track reads naturally, wave follows, and the remaining attributes
// are sorted by key. An empty wave is omitted; label-only and spacer tracks
// stay as terse as they were written.
func (t Track) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	if name, ok := t.Attrs["name"]; ok {
		if err := writeMember(&buf, &first, "name", name); err != nil {
			return nil, err
		}
	}
	if t.Wave != "" {
		if err := writeMember(&buf, &first, "wave", t.Wave); err != nil {
			return nil, err
		}
	}
	for _, k := range slices.Sorted(maps.Keys(t.Attrs)) {
		if k == "name" {
			continue
		}
		if err := writeMember(&buf, &first, k, t.Attrs[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the document as strict JSON. Encoding can only fail for
// hand-built documents holding unencodable values; those render as "{}".
func (d Document) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func writeMember(buf *bytes.Buffer, first *bool, key string, v any) error {
	if !*first {
		buf.WriteByte(',')
	}
	*first = false
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	vb, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(vb)
	return nil
}
