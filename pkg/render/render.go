package render

import (
	"html"
	"strings"

	"github.com/aretw0/itfview/pkg/domain"
)

// Marker classes attached to the markup.
const (
	ClassNew     = "newElement"
	ClassChanged = "prevIsDifferent"
	ClassReduced = "reducedElements"
	ClassShape   = "differentKeys"
)

// MarkerNested summarizes a value whose changes all lie below its top level.
const MarkerNested = "nested"

// Glyphs used for collection delimiters and empty collections.
const (
	glyphTupleOpen  = "&#9001;"
	glyphTupleClose = "&#9002;"
	glyphEmptySet   = "&#8709;"
	glyphMapsTo     = "&#8614;"
	glyphEmptyMap   = "[" + glyphMapsTo + "]"
)

// ClassFor returns the marker a container should put on the cell holding a
// value with diff d: new for values without counterpart, changed for opaque
// differences. Records whose shape changed and collections that lost members
// carry their own marker instead, so they map to the empty string.
func ClassFor(d *domain.Diff) string {
	if d == nil {
		return ""
	}
	switch {
	case d.Status == domain.StatusNew:
		return ClassNew
	case d.Status == domain.StatusChanged && !d.ShapeChanged:
		return ClassChanged
	}
	return ""
}

// Marker names the most prominent change of a value: its own class, then
// differentKeys, then reducedElements, then MarkerNested. Unchanged values
// map to the empty string.
func Marker(d *domain.Diff) string {
	if c := ClassFor(d); c != "" {
		return c
	}
	switch {
	case d == nil:
		return ""
	case d.ShapeChanged:
		return ClassShape
	case d.Reduced:
		return ClassReduced
	case d.Differs():
		return MarkerNested
	}
	return ""
}

// Value renders v annotated with d, including the node's own marker.
func Value(v domain.Value, d *domain.Diff) string {
	frag := Fragment(v, d)
	if c := ClassFor(d); c != "" {
		return span(c, frag)
	}
	return frag
}

// Fragment renders v annotated with d, leaving the node's own new/changed
// marker to the enclosing cell.
func Fragment(v domain.Value, d *domain.Diff) string {
	var sb strings.Builder
	writeValue(&sb, v, d)
	return sb.String()
}

func writeValue(sb *strings.Builder, v domain.Value, d *domain.Diff) {
	switch x := v.(type) {
	case nil:
		return
	case domain.Scalar:
		sb.WriteString(html.EscapeString(domain.ScalarText(x)))
	case domain.Record:
		writeRecord(sb, x, d)
	case domain.Array:
		writeSequence(sb, "[", "]", x.Elems, d)
	case domain.Tuple:
		writeSequence(sb, glyphTupleOpen, glyphTupleClose, x.Elems, d)
	case domain.Set:
		if len(x.Elems) == 0 {
			writeOpen(sb, "span", reducedClass(d))
			sb.WriteString(glyphEmptySet)
			sb.WriteString("</span>")
			return
		}
		writeSequence(sb, "{", "}", x.Elems, d)
	case domain.Map:
		writeMap(sb, x, d)
	}
}

func writeRecord(sb *strings.Builder, r domain.Record, d *domain.Diff) {
	tableClass := ""
	if d != nil && d.ShapeChanged {
		tableClass = ClassShape
	}
	writeOpen(sb, "table", tableClass)
	for _, k := range r.Keys() {
		fd := d.Field(k)
		rowClass, cellClass := "", ClassFor(fd)
		if fd.IsNew() {
			rowClass, cellClass = ClassNew, ""
		}
		writeOpen(sb, "tr", rowClass)
		sb.WriteString("<td>")
		sb.WriteString(html.EscapeString(k))
		sb.WriteString("</td><td>:</td>")
		writeOpen(sb, "td", cellClass)
		writeValue(sb, r.Fields[k], fd)
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table>")
}

func writeSequence(sb *strings.Builder, open, close string, elems []domain.Value, d *domain.Diff) {
	writeOpen(sb, "span", reducedClass(d))
	sb.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		ed := d.Element(i)
		// Members carry no nested diff: only presence is marked.
		elemClass := ""
		if ed.IsNew() {
			elemClass = ClassNew
		}
		writeOpen(sb, "span", elemClass)
		writeValue(sb, e, nil)
		sb.WriteString("</span>")
	}
	sb.WriteString(close)
	sb.WriteString("</span>")
}

func writeMap(sb *strings.Builder, m domain.Map, d *domain.Diff) {
	if len(m.Entries) == 0 {
		writeOpen(sb, "span", reducedClass(d))
		sb.WriteString(glyphEmptyMap)
		sb.WriteString("</span>")
		return
	}
	writeOpen(sb, "table", reducedClass(d))
	for i, e := range m.Entries {
		ed := d.Entry(i)
		rowClass, cellClass := "", ""
		switch ed.Status {
		case domain.StatusNew:
			rowClass = ClassNew
		case domain.StatusChanged:
			cellClass = ClassFor(ed.Value)
		}
		writeOpen(sb, "tr", rowClass)
		sb.WriteString("<td>")
		writeValue(sb, e.Key, nil)
		sb.WriteString("</td><td>")
		sb.WriteString(glyphMapsTo)
		sb.WriteString("</td>")
		writeOpen(sb, "td", cellClass)
		if ed.Status == domain.StatusNew {
			writeValue(sb, e.Value, nil)
		} else {
			writeValue(sb, e.Value, ed.Value)
		}
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table>")
}

func reducedClass(d *domain.Diff) string {
	if d != nil && d.Reduced {
		return ClassReduced
	}
	return ""
}

func writeOpen(sb *strings.Builder, tag, class string) {
	sb.WriteByte('<')
	sb.WriteString(tag)
	if class != "" {
		sb.WriteString(` class="`)
		sb.WriteString(class)
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
}

func span(class, inner string) string {
	return `<span class="` + class + `">` + inner + `</span>`
}
