package wavejson

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/errors"
)

// Grammar for the relaxed JSON dialect. The AST keeps members in source
// order so duplicate keys can be reported with their position.

type payload struct {
	Root *object `@@`
}

type object struct {
	Pos     lexer.Position
	Members []*member `"{" ( @@ ( "," @@ )* ","? )? "}"`
}

type member struct {
	Pos   lexer.Position
	Key   *memberKey `@@ ":"`
	Value *literal   `@@`
}

type memberKey struct {
	Str   *string `  @String`
	Ident *string `| @Ident`
}

type literal struct {
	Object *object  `  @@`
	Array  *array   `| @@`
	Str    *string  `| @String`
	Num    *float64 `| @Number`
	True   bool     `| @"true"`
	False  bool     `| @"false"`
	Null   bool     `| @"null"`
}

type array struct {
	Items []*literal `"[" ( @@ ( "," @@ )* ","? )? "]"`
}

var waveParser = participle.MustBuild[payload](
	participle.Lexer(waveLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a WaveJSON payload into a Document. The payload must be a
// single object; duplicate keys anywhere in it are a parse error.
func Parse(data []byte) (Document, error) {
	return parseNamed("", data)
}

// ParseString parses a WaveJSON payload from a string.
func ParseString(src string) (Document, error) {
	return parseNamed("", []byte(src))
}

// ParseFile parses a WaveJSON payload from a file. The filename appears in
// error positions.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("wavejson: %w", err)
	}
	return parseNamed(path, data)
}

func parseNamed(name string, data []byte) (Document, error) {
	ast, err := waveParser.ParseBytes(name, data)
	if err != nil {
		return Document{}, errors.New(errors.ErrCodeInvalidWaveJSON, "wavejson: %v", err)
	}
	raw, err := ast.Root.decode()
	if err != nil {
		return Document{}, errors.New(errors.ErrCodeInvalidWaveJSON, "wavejson: %v", err)
	}
	return fromRaw(raw)
}

// fromRaw shapes a decoded top-level object into a Document, validating the
// members this package interprets and leaving the rest untouched.
func fromRaw(raw map[string]any) (Document, error) {
	var d Document

	if v, ok := raw["signal"]; ok {
		arr, ok := v.([]any)
		if !ok {
			return Document{}, errors.New(errors.ErrCodeInvalidWaveJSON, "wavejson: %q must be an array", "signal")
		}
		d.Signal = make([]Track, 0, len(arr))
		for i, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				return Document{}, errors.New(errors.ErrCodeInvalidWaveJSON, "wavejson: signal[%d] must be an object", i)
			}
			t := Track{}
			for k, av := range obj {
				if k == "wave" {
					w, ok := av.(string)
					if !ok {
						return Document{}, errors.New(errors.ErrCodeInvalidWaveJSON, "wavejson: signal[%d].wave must be a string", i)
					}
					t.Wave = w
					continue
				}
				if t.Attrs == nil {
					t.Attrs = make(map[string]any, len(obj)-1)
				}
				t.Attrs[k] = av
			}
			d.Signal = append(d.Signal, t)
		}
		delete(raw, "signal")
	}

	if v, ok := raw["config"]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return Document{}, errors.New(errors.ErrCodeInvalidWaveJSON, "wavejson: %q must be an object", "config")
		}
		d.Config = m
		delete(raw, "config")
	}

	if len(raw) > 0 {
		d.Extra = raw
	}
	return d, nil
}

func (o *object) decode() (map[string]any, error) {
	out := make(map[string]any, len(o.Members))
	for _, m := range o.Members {
		k, err := m.Key.decode()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Pos, err)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("%s: duplicate key %q", m.Pos, k)
		}
		v, err := m.Value.decode()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (k *memberKey) decode() (string, error) {
	if k.Ident != nil {
		return *k.Ident, nil
	}
	return unquote(*k.Str)
}

func (l *literal) decode() (any, error) {
	switch {
	case l.Object != nil:
		return l.Object.decode()
	case l.Array != nil:
		items := make([]any, 0, len(l.Array.Items))
		for _, it := range l.Array.Items {
			v, err := it.decode()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case l.Str != nil:
		return unquote(*l.Str)
	case l.Num != nil:
		return *l.Num, nil
	case l.True:
		return true, nil
	case l.False:
		return false, nil
	default:
		return nil, nil
	}
}

// unquote strips the surrounding quotes from a string token and resolves
// escape sequences. Both quote styles share the JSON escape set, extended
// with \' for single-quoted strings.
func unquote(tok string) (string, error) {
	if len(tok) < 2 {
		return "", fmt.Errorf("malformed string literal %q", tok)
	}
	body := tok[1 : len(tok)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("truncated escape in string literal")
		}
		i++
		switch body[i] {
		case '"', '\'', '\\', '/':
			b.WriteByte(body[i])
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'u':
			r, n, err := decodeUnicodeEscape(body[i-1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n - 1
		default:
			return "", fmt.Errorf("unsupported escape \\%c in string literal", body[i])
		}
	}
	return b.String(), nil
}

// decodeUnicodeEscape decodes a \uXXXX sequence (pairing UTF-16 surrogates
// when both halves are present) and reports how many bytes it consumed.
func decodeUnicodeEscape(s string) (rune, int, error) {
	hex4 := func(q string) (rune, bool) {
		if len(q) < 6 || q[0] != '\\' || q[1] != 'u' {
			return 0, false
		}
		var r rune
		for _, c := range []byte(q[2:6]) {
			switch {
			case c >= '0' && c <= '9':
				r = r<<4 | rune(c-'0')
			case c >= 'a' && c <= 'f':
				r = r<<4 | rune(c-'a'+10)
			case c >= 'A' && c <= 'F':
				r = r<<4 | rune(c-'A'+10)
			default:
				return 0, false
			}
		}
		return r, true
	}

	r1, ok := hex4(s)
	if !ok {
		return 0, 0, fmt.Errorf("malformed \\u escape in string literal")
	}
	if utf16.IsSurrogate(r1) {
		if r2, ok := hex4(s[6:]); ok {
			if combined := utf16.DecodeRune(r1, r2); combined != utf8.RuneError {
				return combined, 12, nil
			}
		}
		return utf8.RuneError, 6, nil
	}
	return r1, 6, nil
}
