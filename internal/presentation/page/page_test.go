package page

import (
	"strings"
	"testing"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"No Mention", "a counterexample", "a counterexample"},
		{
			"Linked",
			"Created by Apalache on Mon",
			`Created by <a href="https://apalache.informal.systems/">Apalache</a> on Mon`,
		},
		{
			"First Mention Only",
			"Apalache and Apalache",
			`<a href="https://apalache.informal.systems/">Apalache</a> and Apalache`,
		},
		{"Escaped", "<b>x</b>", "&lt;b&gt;x&lt;/b&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Description(tt.in)))
		})
	}
}

func TestRender(t *testing.T) {
	body := `<table><tr><th>#</th><td>1</td></tr></table>`
	out, err := Render(Data{
		Title:       "run.itf.json",
		Vars:        []string{"step", "balances", "<x>"},
		Options:     domain.DisplayOptions{SelectedVariables: []string{"step"}, ViewMode: domain.SingleTable},
		Body:        body,
		Description: "Created by Apalache",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>View run.itf.json</title>")
	assert.Contains(t, out, body, "engine markup is inserted verbatim")
	assert.Contains(t, out, `value="step" checked>step</label>`)
	assert.Contains(t, out, `value="balances">balances</label>`)
	assert.Contains(t, out, "&lt;x&gt;", "variable names are escaped")
	assert.Less(t, strings.Index(out, `value="&lt;x&gt;"`), strings.Index(out, `value="balances"`), "variables are sorted")
	assert.Contains(t, out, `value="switch-view"`)
	assert.Contains(t, out, `value="filter-variables"`)
	assert.Contains(t, out, `value="show-initial-state"`)
	assert.Contains(t, out, `value="reset-view"`)
	assert.Contains(t, out, `action="/commands"`)
	assert.Contains(t, out, "Show initial state")
	assert.Contains(t, out, `<a href="https://apalache.informal.systems/">Apalache</a>`)
	assert.NotContains(t, out, "<script")
}

func TestRender_FormCommands(t *testing.T) {
	out, err := Render(Data{Vars: []string{"x"}})
	require.NoError(t, err)

	buttons := []struct {
		command string
		button  string
	}{
		{"filter-variables", "Apply"},
		{"show-initial-state", "Show initial state"},
		{"switch-view", "Switch view"},
		{"reset-view", "Reset"},
	}
	for _, b := range buttons {
		t.Run(b.command, func(t *testing.T) {
			input := `<input type="hidden" name="command" value="` + b.command + `">`
			at := strings.Index(out, input)
			require.GreaterOrEqual(t, at, 0, "form posts %s", b.command)
			form := out[at:]
			form = form[:strings.Index(form, "</form>")]
			assert.Contains(t, form, ">"+b.button+"</button>")
		})
	}
	assert.NotContains(t, out, `name="command" value=""`)
}

func TestRender_AllSelectedByDefault(t *testing.T) {
	out, err := Render(Data{
		Vars:    []string{"a", "b"},
		Options: domain.DefaultDisplayOptions(),
	})
	require.NoError(t, err)
	assert.Contains(t, out, `value="a" checked>`)
	assert.Contains(t, out, `value="b" checked>`)
}

func TestRender_Error(t *testing.T) {
	out, err := Render(Data{
		Body:        "<table></table>",
		Error:       "malformed trace",
		CommandPath: "/v/commands",
		Options:     domain.DisplayOptions{ShowInitialState: true},
	})
	require.NoError(t, err)
	assert.Contains(t, out, `<p class="error">malformed trace</p>`)
	assert.NotContains(t, out, "<table></table>")
	assert.Contains(t, out, `action="/v/commands"`)
	assert.Contains(t, out, "Hide initial state")
}
