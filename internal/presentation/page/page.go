package page

import (
	"html"
	"html/template"
	"io"
	"slices"
	"strings"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/session"
)

// ApalacheURL is linked from trace descriptions mentioning Apalache.
const ApalacheURL = "https://apalache.informal.systems/"

// Data is everything the page chrome needs around the engine markup.
type Data struct {
	// Title is shown in the browser tab, usually the trace file name.
	Title string

	// Vars are the variables declared by the trace.
	Vars []string

	// Options are the view preferences the body was rendered with.
	Options domain.DisplayOptions

	// Body is the engine markup. It is inserted verbatim.
	Body string

	// Description comes from the trace "#meta" block.
	Description string

	// Error replaces the body when the trace could not be loaded.
	Error string

	// CommandPath is the form target for control commands.
	CommandPath string
}

type variable struct {
	Name    string
	Checked bool
}

type view struct {
	Title          string
	Vars           []variable
	ShowInitial    bool
	Mode           domain.ViewMode
	Body           template.HTML
	Description    template.HTML
	Error          string
	CommandPath    string
	CmdFilter      string
	CmdShowInitial string
	CmdSwitch      string
	CmdReset       string
}

var tmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>View {{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0 0 3em 0; }
#control { padding: .5em; border-bottom: 1px solid #ccc; }
#control form { display: inline; margin-right: 1em; }
table { border-collapse: collapse; margin: .5em; }
th, td { border: 1px solid #ddd; padding: 2px 6px; text-align: left; vertical-align: top; }
td table { margin: 0; }
.newElement { background: #d4f7d4; }
.prevIsDifferent { background: #fff3b0; }
.reducedElements { border: 1px dashed #d33; }
.differentKeys { outline: 1px dotted #33d; }
#meta { position: fixed; bottom: 0; width: 100%; padding: .5em; background: #f5f5f5; border-top: 1px solid #ccc; }
.error { color: #b00; }
</style>
</head>
<body>
<div id="control">
<form method="post" action="{{.CommandPath}}">
<input type="hidden" name="command" value="{{.CmdFilter}}">
<span>Variables:
{{- range .Vars}}
<label><input type="checkbox" name="variables" value="{{.Name}}"{{if .Checked}} checked{{end}}>{{.Name}}</label>
{{- end}}
</span>
<button type="submit">Apply</button>
</form>
<form method="post" action="{{.CommandPath}}">
<input type="hidden" name="command" value="{{.CmdShowInitial}}">
<button type="submit">{{if .ShowInitial}}Hide{{else}}Show{{end}} initial state</button>
</form>
<form method="post" action="{{.CommandPath}}">
<input type="hidden" name="command" value="{{.CmdSwitch}}">
<button type="submit">Switch view</button> <small>{{.Mode}}</small>
</form>
<form method="post" action="{{.CommandPath}}">
<input type="hidden" name="command" value="{{.CmdReset}}">
<button type="submit">Reset</button>
</form>
</div>
<div id="content">
{{if .Error}}<p class="error">{{.Error}}</p>{{else}}{{.Body}}{{end}}
</div>
<div id="meta">{{.Description}}</div>
</body>
</html>
`))

// Write renders the complete page to w.
func Write(w io.Writer, d Data) error {
	return tmpl.Execute(w, newView(d))
}

// Render returns the complete page as a string.
func Render(d Data) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func newView(d Data) view {
	names := slices.Clone(d.Vars)
	slices.Sort(names)

	vars := make([]variable, 0, len(names))
	for _, n := range names {
		vars = append(vars, variable{
			Name:    n,
			Checked: d.Options.SelectedVariables == nil || slices.Contains(d.Options.SelectedVariables, n),
		})
	}

	cmdPath := d.CommandPath
	if cmdPath == "" {
		cmdPath = "/commands"
	}

	return view{
		Title:          d.Title,
		Vars:           vars,
		ShowInitial:    d.Options.ShowInitialState,
		Mode:           d.Options.ViewMode,
		Body:           template.HTML(d.Body),
		Description:    Description(d.Description),
		Error:          d.Error,
		CommandPath:    cmdPath,
		CmdFilter:      session.CommandFilterVariables,
		CmdShowInitial: session.CommandShowInitialState,
		CmdSwitch:      session.CommandSwitchView,
		CmdReset:       session.CommandReset,
	}
}

// Description escapes a trace description and links its first mention of
// Apalache.
func Description(s string) template.HTML {
	escaped := html.EscapeString(s)
	link := `<a href="` + ApalacheURL + `">Apalache</a>`
	return template.HTML(strings.Replace(escaped, "Apalache", link, 1))
}
