package restyle

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// element is one XML element with its attributes and ordered children.
// Children are *element, xml.CharData, xml.Comment, xml.ProcInst, or
// xml.Directive values.
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []any
}

// document is a parsed XML document: the tokens around the root element are
// kept so the serialized output preserves the prolog (declaration, DOCTYPE,
// comments) byte for byte where possible.
//
// encoding/xml resolves namespace prefixes to URLs on every name, so the
// declarations seen during parsing are recorded to map URLs back to their
// prefixes when serializing.
type document struct {
	prolog    []any
	root      *element
	epilog    []any
	defaultNS map[string]bool   // URLs declared via xmlns="..."
	prefixes  map[string]string // URL -> prefix, declared via xmlns:p="..."
}

func parseDocument(data []byte) (*document, error) {
	doc := &document{
		defaultNS: make(map[string]bool),
		prefixes:  make(map[string]string),
	}
	dec := xml.NewDecoder(bytes.NewReader(data))

	var stack []*element
	appendChild := func(child any) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, child)
			return
		}
		if doc.root == nil {
			doc.prolog = append(doc.prolog, child)
		} else {
			doc.epilog = append(doc.epilog, child)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			t = t.Copy()
			el := &element{name: t.Name, attrs: t.Attr}
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					doc.defaultNS[a.Value] = true
				case a.Name.Space == "xmlns":
					if _, ok := doc.prefixes[a.Value]; !ok {
						doc.prefixes[a.Value] = a.Name.Local
					}
				}
			}
			if len(stack) == 0 {
				if doc.root != nil {
					return nil, fmt.Errorf("parse svg: multiple root elements")
				}
				doc.root = el
			} else {
				appendChild(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse svg: unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			appendChild(t.Copy())
		case xml.Comment:
			appendChild(t.Copy())
		case xml.ProcInst:
			appendChild(t.Copy())
		case xml.Directive:
			appendChild(t.Copy())
		}
	}

	if doc.root == nil {
		return nil, fmt.Errorf("parse svg: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parse svg: unclosed element %s", stack[len(stack)-1].name.Local)
	}
	return doc, nil
}

func (d *document) bytes() []byte {
	var buf bytes.Buffer
	for _, t := range d.prolog {
		d.writeToken(&buf, t)
	}
	d.writeElement(&buf, d.root)
	for _, t := range d.epilog {
		d.writeToken(&buf, t)
	}
	return buf.Bytes()
}

func (d *document) writeToken(buf *bytes.Buffer, tok any) {
	switch t := tok.(type) {
	case *element:
		d.writeElement(buf, t)
	case xml.CharData:
		escapeCharData(buf, t)
	case xml.Comment:
		buf.WriteString("<!--")
		buf.Write(t)
		buf.WriteString("-->")
	case xml.ProcInst:
		buf.WriteString("<?")
		buf.WriteString(t.Target)
		buf.WriteByte(' ')
		buf.Write(t.Inst)
		buf.WriteString("?>")
	case xml.Directive:
		buf.WriteString("<!")
		buf.Write(t)
		buf.WriteByte('>')
	}
}

func (d *document) writeElement(buf *bytes.Buffer, el *element) {
	buf.WriteByte('<')
	buf.WriteString(d.elementName(el.name))
	for _, a := range el.attrs {
		buf.WriteByte(' ')
		buf.WriteString(d.attrName(a.Name))
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if len(el.children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range el.children {
		d.writeToken(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(d.elementName(el.name))
	buf.WriteByte('>')
}

// elementName maps a namespace-resolved element name back to its source
// prefix. Elements in a declared default namespace stay unprefixed.
func (d *document) elementName(n xml.Name) string {
	if n.Space == "" || d.defaultNS[n.Space] {
		return n.Local
	}
	if p, ok := d.prefixes[n.Space]; ok {
		return p + ":" + n.Local
	}
	return n.Local
}

// attrName maps a namespace-resolved attribute name back to its source
// prefix. Unlike elements, unprefixed attributes never belong to the
// default namespace.
func (d *document) attrName(n xml.Name) string {
	switch {
	case n.Space == "":
		return n.Local
	case n.Space == "xmlns":
		return "xmlns:" + n.Local
	}
	if p, ok := d.prefixes[n.Space]; ok {
		return p + ":" + n.Local
	}
	return n.Local
}

// attr returns the value of the unprefixed attribute named local.
func (el *element) attr(local string) (string, bool) {
	for _, a := range el.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// setAttr sets the unprefixed attribute named local, appending it when not
// already present.
func (el *element) setAttr(local, value string) {
	for i, a := range el.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			el.attrs[i].Value = value
			return
		}
	}
	el.attrs = append(el.attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

// tag returns the element's local name.
func (el *element) tag() string {
	return el.name.Local
}

// elements returns the direct child elements of el in document order.
func (el *element) elements() []*element {
	var out []*element
	for _, c := range el.children {
		if ce, ok := c.(*element); ok {
			out = append(out, ce)
		}
	}
	return out
}

// walk visits el and every descendant element in document order. Returning
// false from fn stops the walk below that element.
func (el *element) walk(fn func(*element) bool) {
	if !fn(el) {
		return
	}
	for _, c := range el.children {
		if ce, ok := c.(*element); ok {
			ce.walk(fn)
		}
	}
}

// text returns the concatenated character data directly under el.
func (el *element) text() string {
	var b strings.Builder
	for _, c := range el.children {
		if cd, ok := c.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}

// escapeCharData escapes the minimum set of characters for text content.
// xml.EscapeText would also turn quotes and whitespace into character
// references, which garbles embedded stylesheets and inter-element
// indentation.
func escapeCharData(buf *bytes.Buffer, s []byte) {
	for _, c := range s {
		switch c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteByte(c)
		}
	}
}
