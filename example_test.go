package itfview_test

import (
	"fmt"
	"log"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/trace"
)

// ExampleEngine_Render renders a two-state trace with the default options:
// chained tables with the initial state hidden.
func ExampleEngine_Render() {
	t, err := trace.Parse([]byte(`{"vars": ["x"], "states": [{"x": 1}, {"x": 2}]}`))
	if err != nil {
		log.Fatal(err)
	}

	eng := itfview.New()
	fmt.Println(eng.Render(t, domain.DefaultDisplayOptions()))
	// Output:
	// <table><tr><th>#</th><td>1</td></tr><tr><th>x</th><td class="prevIsDifferent">2</td></tr></table>
}

// ExampleEngine_Render_singleTable shows the initial state as the first row.
func ExampleEngine_Render_singleTable() {
	t, err := trace.Parse([]byte(`{"vars": ["s"], "states": [{"s": {"#set": [1]}}, {"s": {"#set": [1, 2]}}]}`))
	if err != nil {
		log.Fatal(err)
	}

	out := itfview.New().Render(t, domain.DisplayOptions{
		ShowInitialState: true,
		ViewMode:         domain.SingleTable,
	})
	fmt.Println(out)
	// Output:
	// <table><thead><tr><th>#</th><th>s</th></tr></thead><tbody><tr><td>0</td><td><span>{<span>1</span>}</span></td></tr>
	// <tr><td>1</td><td><span>{<span>1</span>, <span class="newElement">2</span>}</span></td></tr></tbody></table>
}
