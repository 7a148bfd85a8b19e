package wavejson

// RepeatToken is the wave-state token that repeats the previous state.
const RepeatToken = '.'

// Document is one complete timing diagram, or one segment of it.
type Document struct {
	// Signal holds the ordered signal tracks. A nil slice means the source
	// document had no "signal" member; an empty non-nil slice means the
	// member was present and empty.
	Signal []Track

	// Config holds render-time options ("skin", "hscale", ...). Keys are
	// unique; values are opaque to this package. Nil when the source
	// document had no "config" member.
	Config map[string]any

	// Extra holds every other top-level member (head, foot, edge, ...),
	// preserved verbatim.
	Extra map[string]any
}

// Track is a single signal lane of a diagram. Wave holds the wave-state
// tokens; every other member of the source object (name, data, node, ...)
// lives in Attrs and is carried through transformations unchanged.
type Track struct {
	Wave  string
	Attrs map[string]any
}

// Name returns the track's "name" attribute, or "" when absent or not a
// string.
func (t Track) Name() string {
	s, _ := t.Attrs["name"].(string)
	return s
}

// Clone returns a copy of t whose Attrs map is independent of the original.
// Attribute values are shared; they are opaque and treated as read-only.
func (t Track) Clone() Track {
	return Track{Wave: t.Wave, Attrs: cloneMap(t.Attrs)}
}

// Clone returns a copy of d with fresh Signal, Config, and Extra containers.
// Values inside the maps are shared.
func (d Document) Clone() Document {
	out := Document{
		Config: cloneMap(d.Config),
		Extra:  cloneMap(d.Extra),
	}
	if d.Signal != nil {
		out.Signal = make([]Track, len(d.Signal))
		for i, t := range d.Signal {
			out.Signal[i] = t.Clone()
		}
	}
	return out
}

// WithDefaultSkin returns d with config.skin defaulted to skin. Documents
// with no signal tracks, and documents that already specify a skin, come
// back unchanged. The receiver is never modified.
func (d Document) WithDefaultSkin(skin string) Document {
	if skin == "" || len(d.Signal) == 0 {
		return d
	}
	if _, ok := d.Config["skin"]; ok {
		return d
	}
	out := d
	out.Config = cloneMap(d.Config)
	if out.Config == nil {
		out.Config = make(map[string]any, 1)
	}
	out.Config["skin"] = skin
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
