package layout

import (
	"html"
	"strconv"
	"strings"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/render"
)

// Cell is one variable of one displayed state. Value is nil when the
// variable is absent from the state.
type Cell struct {
	Name  string
	Value domain.Value
	Diff  *domain.Diff
}

// Row is one displayed state. Index is the position in the full sequence.
type Row struct {
	Index int
	Cells []Cell
}

// Walk folds over states, calling fn for every displayed state with cells in
// the order of vars. Each state is diffed against the one immediately before
// it; the initial state is diffed against itself. When showInitial is false
// the initial state is skipped but still serves as the baseline for state 1.
func Walk(states []domain.State, vars []string, showInitial bool, fn func(Row)) {
	if len(states) == 0 {
		return
	}
	prev := &states[0]
	for i := range states {
		cur := &states[i]
		if i > 0 || showInitial {
			fn(diffRow(i, cur, prev, vars))
		}
		prev = cur
	}
}

func diffRow(index int, cur, prev *domain.State, vars []string) Row {
	row := Row{Index: index, Cells: make([]Cell, len(vars))}
	for j, name := range vars {
		c := Cell{Name: name}
		if v, ok := cur.Lookup(name); ok {
			pv, _ := prev.Lookup(name)
			c.Value = v
			c.Diff = domain.Compare(v, pv)
		}
		row.Cells[j] = c
	}
	return row
}

// Layout renders the trace in the given mode. Selected names are
// deduplicated and rendered in alphabetical order.
func Layout(states []domain.State, selected []string, showInitial bool, mode domain.ViewMode) string {
	vars := normalize(selected)
	if mode == domain.SingleTable {
		return singleTable(states, vars, showInitial)
	}
	return chainedTables(states, vars, showInitial)
}

func singleTable(states []domain.State, vars []string, showInitial bool) string {
	var sb strings.Builder
	sb.WriteString("<table><thead><tr><th>#</th>")
	for _, name := range vars {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(name))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")

	first := true
	Walk(states, vars, showInitial, func(r Row) {
		if !first {
			sb.WriteByte('\n')
		}
		first = false
		sb.WriteString("<tr><td>")
		sb.WriteString(strconv.Itoa(r.Index))
		sb.WriteString("</td>")
		for _, c := range r.Cells {
			writeCell(&sb, c)
		}
		sb.WriteString("</tr>")
	})

	sb.WriteString("</tbody></table>")
	return sb.String()
}

func chainedTables(states []domain.State, vars []string, showInitial bool) string {
	var tables []string
	Walk(states, vars, showInitial, func(r Row) {
		var sb strings.Builder
		sb.WriteString("<table><tr><th>#</th><td>")
		sb.WriteString(strconv.Itoa(r.Index))
		sb.WriteString("</td></tr>")
		for _, c := range r.Cells {
			sb.WriteString("<tr><th>")
			sb.WriteString(html.EscapeString(c.Name))
			sb.WriteString("</th>")
			writeCell(&sb, c)
			sb.WriteString("</tr>")
		}
		sb.WriteString("</table>")
		tables = append(tables, sb.String())
	})
	return strings.Join(tables, "\n")
}

func writeCell(sb *strings.Builder, c Cell) {
	if c.Value == nil {
		sb.WriteString("<td></td>")
		return
	}
	if class := render.ClassFor(c.Diff); class != "" {
		sb.WriteString(`<td class="`)
		sb.WriteString(class)
		sb.WriteString(`">`)
	} else {
		sb.WriteString("<td>")
	}
	sb.WriteString(render.Fragment(c.Value, c.Diff))
	sb.WriteString("</td>")
}
