package restyle

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Tolerance for comparing parsed SVG coordinates.
const flatEps = 1e-6

// translateRe matches transform attributes that are a single translate().
// Groups with compound transforms are not treated as rows; rewriting their
// position safely would mean re-serializing the whole transform list.
var translateRe = regexp.MustCompile(
	`^\s*translate\(\s*(-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)(?:\s*[\s,]\s*(-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?))?\s*\)\s*$`)

type point struct {
	x, y float64
}

// row is one translated group inside a row container.
type row struct {
	el   *element
	x, y float64
}

// compressFlatRows scales the allocated height of flat signal rows and
// shifts the rows after them upward, returning the total height reduction.
//
// A row container is an element with at least two direct g children whose
// transform is a plain translate(). Containers nested inside a processed
// one are left alone, so grouped sub-lanes stay attached to their parent
// row. Each container is folded independently: walking its rows in order,
// a flat row's pitch (distance to the next row) is scaled, and the saved
// height joins a cumulative offset subtracted from the position of every
// later row. The last row has no pitch to give up and is only shifted.
func compressFlatRows(root *element, scale float64) float64 {
	ids := collectIDs(root)
	total := 0.0

	var visit func(el *element)
	visit = func(el *element) {
		if rows := containerRows(el); len(rows) >= 2 {
			total += foldRows(rows, scale, ids)
			return
		}
		for _, child := range el.elements() {
			visit(child)
		}
	}
	visit(root)
	return total
}

func containerRows(el *element) []row {
	var rows []row
	for _, child := range el.elements() {
		if child.tag() != "g" {
			continue
		}
		tf, ok := child.attr("transform")
		if !ok {
			continue
		}
		x, y, ok := parseTranslate(tf)
		if !ok {
			continue
		}
		rows = append(rows, row{el: child, x: x, y: y})
	}
	return rows
}

func foldRows(rows []row, scale float64, ids map[string]*element) float64 {
	offset := 0.0
	for i, r := range rows {
		if offset > 0 {
			r.el.setAttr("transform", formatTranslate(r.x, r.y-offset))
		}
		if i+1 < len(rows) && rowIsFlat(r.el, ids) {
			if pitch := rows[i+1].y - r.y; pitch > flatEps {
				offset += (1 - scale) * pitch
			}
		}
	}
	return offset
}

// rowIsFlat reports whether the geometry drawn inside el, following use
// references, contains no vertical segments. Shapes whose vertical extent
// cannot be ruled out count as vertical, so uncertain rows keep their full
// height.
func rowIsFlat(el *element, ids map[string]*element) bool {
	return !hasVertical(el, ids, make(map[*element]bool))
}

func hasVertical(el *element, ids map[string]*element, seen map[*element]bool) bool {
	if seen[el] {
		return false
	}
	seen[el] = true

	vertical := false
	el.walk(func(e *element) bool {
		if vertical {
			return false
		}
		switch e.tag() {
		case "line":
			if math.Abs(floatAttr(e, "y1")-floatAttr(e, "y2")) > flatEps {
				vertical = true
			}
		case "path":
			d, _ := e.attr("d")
			if pathHasVertical(d) {
				vertical = true
			}
		case "rect", "polygon", "polyline", "circle", "ellipse", "image", "foreignObject":
			vertical = true
		case "use":
			ref := useTarget(e)
			if target, ok := ids[ref]; ok {
				if hasVertical(target, ids, seen) {
					vertical = true
				}
			} else if ref != "" {
				vertical = true
			}
		}
		return !vertical
	})
	return vertical
}

// pathHasVertical scans SVG path data and reports whether any drawn
// segment changes the y coordinate. Curves and arcs always count: even a
// visually shallow curve has vertical extent. Malformed data also counts,
// keeping rows with unparseable geometry at full height.
func pathHasVertical(d string) bool {
	var cmd byte
	var cur, start point
	i, n := 0, len(d)

	skip := func() {
		for i < n && (d[i] == ' ' || d[i] == ',' || d[i] == '\t' || d[i] == '\n' || d[i] == '\r') {
			i++
		}
	}
	num := func() (float64, bool) {
		skip()
		j := i
		if i < n && (d[i] == '+' || d[i] == '-') {
			i++
		}
		for i < n && d[i] >= '0' && d[i] <= '9' {
			i++
		}
		if i < n && d[i] == '.' {
			i++
			for i < n && d[i] >= '0' && d[i] <= '9' {
				i++
			}
		}
		if i < n && (d[i] == 'e' || d[i] == 'E') {
			i++
			if i < n && (d[i] == '+' || d[i] == '-') {
				i++
			}
			for i < n && d[i] >= '0' && d[i] <= '9' {
				i++
			}
		}
		if j == i {
			return 0, false
		}
		v, err := strconv.ParseFloat(d[j:i], 64)
		return v, err == nil
	}
	pair := func() (float64, float64, bool) {
		x, ok := num()
		if !ok {
			return 0, 0, false
		}
		y, ok := num()
		return x, y, ok
	}

	for {
		skip()
		if i >= n {
			return false
		}
		if c := d[i]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			cmd = c
			i++
		} else if cmd == 0 {
			return true
		}

		switch cmd {
		case 'Z', 'z':
			if math.Abs(cur.y-start.y) > flatEps {
				return true
			}
			cur = start
			cmd = 0
		case 'M', 'm':
			x, y, ok := pair()
			if !ok {
				return true
			}
			if cmd == 'm' {
				cur.x += x
				cur.y += y
				cmd = 'l'
			} else {
				cur = point{x, y}
				cmd = 'L'
			}
			start = cur
		case 'L':
			x, y, ok := pair()
			if !ok {
				return true
			}
			if math.Abs(y-cur.y) > flatEps {
				return true
			}
			cur = point{x, y}
		case 'l':
			x, y, ok := pair()
			if !ok {
				return true
			}
			if math.Abs(y) > flatEps {
				return true
			}
			cur.x += x
			cur.y += y
		case 'H':
			x, ok := num()
			if !ok {
				return true
			}
			cur.x = x
		case 'h':
			x, ok := num()
			if !ok {
				return true
			}
			cur.x += x
		case 'V':
			y, ok := num()
			if !ok {
				return true
			}
			if math.Abs(y-cur.y) > flatEps {
				return true
			}
			cur.y = y
		case 'v':
			y, ok := num()
			if !ok {
				return true
			}
			if math.Abs(y) > flatEps {
				return true
			}
			cur.y += y
		default:
			// C S Q T A and anything unrecognized.
			return true
		}
	}
}

func useTarget(e *element) string {
	for _, a := range e.attrs {
		if a.Name.Local == "href" {
			if strings.HasPrefix(a.Value, "#") {
				return a.Value[1:]
			}
			return ""
		}
	}
	return ""
}

func collectIDs(root *element) map[string]*element {
	ids := make(map[string]*element)
	root.walk(func(e *element) bool {
		if id, ok := e.attr("id"); ok && id != "" {
			if _, dup := ids[id]; !dup {
				ids[id] = e
			}
		}
		return true
	})
	return ids
}

func floatAttr(e *element, name string) float64 {
	v, _ := e.attr(name)
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseTranslate(tf string) (float64, float64, bool) {
	m := translateRe.FindStringSubmatch(tf)
	if m == nil {
		return 0, 0, false
	}
	x, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	var y float64
	if m[2] != "" {
		y, err = strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, 0, false
		}
	}
	return x, y, true
}

func formatTranslate(x, y float64) string {
	return "translate(" + fnum(x) + "," + fnum(y) + ")"
}

// shrinkHeight reduces the root element's height and viewBox height by
// delta, keeping any unit suffix. Attributes that fail to parse are left
// unchanged.
func shrinkHeight(root *element, delta float64) {
	if h, ok := root.attr("height"); ok {
		if v, unit, err := parseLength(h); err == nil && v-delta > 0 {
			root.setAttr("height", fnum(v-delta)+unit)
		}
	}
	if vb, ok := root.attr("viewBox"); ok {
		fields := strings.Fields(strings.ReplaceAll(vb, ",", " "))
		if len(fields) == 4 {
			if v, err := strconv.ParseFloat(fields[3], 64); err == nil && v-delta > 0 {
				fields[3] = fnum(v - delta)
				root.setAttr("viewBox", strings.Join(fields, " "))
			}
		}
	}
}

func parseLength(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	return v, s[i:], err
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
