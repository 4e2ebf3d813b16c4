package text

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/layout"
	"github.com/aretw0/itfview/pkg/render"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
)

// Suffixes appended to a cell so markers survive without colour.
var suffixes = map[string]string{
	render.ClassNew:     " +",
	render.ClassChanged: " ~",
	render.ClassReduced: " -",
	render.ClassShape:   " !",
	render.MarkerNested: " *",
}

// Colours for the markers, from the banner palette.
var colours = map[string]string{
	render.ClassNew:     "#34d399",
	render.ClassChanged: "#fbbf24",
	render.ClassReduced: "#fb7185",
	render.ClassShape:   "#818cf8",
	render.MarkerNested: "#c084fc",
}

// Table writes traces as plain terminal tables, one row per state.
type Table struct {
	profile termenv.Profile
}

// Option configures a Table.
type Option func(*Table)

// WithProfile sets the colour profile. termenv.Ascii disables colour.
func WithProfile(p termenv.Profile) Option {
	return func(t *Table) {
		t.profile = p
	}
}

// NewTable creates a Table that writes without colour unless configured.
func NewTable(opts ...Option) *Table {
	t := &Table{profile: termenv.Ascii}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Write renders tr with opts to w. The view mode is ignored; a terminal
// always gets the merged table.
func (t *Table) Write(w io.Writer, tr *domain.Trace, opts domain.DisplayOptions) error {
	if tr == nil {
		return nil
	}
	vars := layout.Select(tr.Vars, opts.SelectedVariables)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(append([]string{"#"}, vars...))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	layout.Walk(tr.States, vars, opts.ShowInitialState, func(r layout.Row) {
		row := make([]string, 0, len(r.Cells)+1)
		row = append(row, strconv.Itoa(r.Index))
		for _, c := range r.Cells {
			row = append(row, t.cell(c))
		}
		table.Append(row)
	})
	table.Render()

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func (t *Table) cell(c layout.Cell) string {
	if c.Value == nil {
		return ""
	}
	s := domain.Format(c.Value)
	m := render.Marker(c.Diff)
	if m == "" {
		return s
	}
	s += suffixes[m]
	return termenv.String(s).Foreground(t.profile.Color(colours[m])).String()
}

// Legend explains the cell suffixes.
func Legend() string {
	return "+ new   ~ changed   - lost members   ! fields changed   * changed inside"
}
