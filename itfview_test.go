package itfview_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/observability"
	"github.com/aretw0/itfview/pkg/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const counter = `{
  "#meta": {"description": "Created by Apalache"},
  "vars": ["n", "seen"],
  "states": [
    {"n": 0, "seen": {"#set": []}},
    {"n": 1, "seen": {"#set": [0]}},
    {"n": 2, "seen": {"#set": [1]}}
  ]
}`

func mustParse(t *testing.T, src string) *domain.Trace {
	t.Helper()
	tr, err := trace.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return tr
}

func TestEngine_Render_DefaultsToChained(t *testing.T) {
	tr := mustParse(t, counter)
	eng := itfview.New()

	got := eng.Render(tr, domain.DisplayOptions{})
	if n := strings.Count(got, "<table><tr><th>#</th>"); n != 2 {
		t.Errorf("expected 2 state tables, got %d in %q", n, got)
	}
	if strings.Contains(got, "<td>0</td>") {
		t.Errorf("initial state should be hidden: %q", got)
	}
}

func TestEngine_Render_NilTrace(t *testing.T) {
	if got := itfview.New().Render(nil, domain.DefaultDisplayOptions()); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestEngine_RenderModes(t *testing.T) {
	tr := mustParse(t, counter)
	eng := itfview.New()
	opts := domain.DisplayOptions{ShowInitialState: true, SelectedVariables: []string{"seen"}}

	views, err := eng.RenderModes(context.Background(), tr, opts)
	if err != nil {
		t.Fatalf("RenderModes failed: %v", err)
	}

	single := opts
	single.ViewMode = domain.SingleTable
	if views.For(domain.SingleTable) != eng.Render(tr, single) {
		t.Error("single view differs from a direct render")
	}
	chained := opts
	chained.ViewMode = domain.ChainedTables
	if views.For(domain.ChainedTables) != eng.Render(tr, chained) {
		t.Error("chained view differs from a direct render")
	}
}

func TestEngine_RenderModes_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := itfview.New().RenderModes(ctx, mustParse(t, counter), domain.DefaultDisplayOptions())
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	eng := itfview.New(itfview.WithMetrics(m))

	eng.Render(mustParse(t, counter), domain.DisplayOptions{ViewMode: domain.SingleTable})

	if got := sumCounter(t, reg, "itfview_renders_total"); got != 1 {
		t.Errorf("expected 1 render, got %v", got)
	}
	// n changes twice; seen gains a member, then swaps it for another.
	if got := sumCounter(t, reg, "itfview_changed_cells_total"); got != 4 {
		t.Errorf("expected 4 changed cells, got %v", got)
	}
	series, err := testutil.GatherAndCount(reg, "itfview_changed_cells_total")
	if err != nil {
		t.Fatal(err)
	}
	if series != 3 {
		t.Errorf("expected prevIsDifferent, nested and reducedElements series, got %d", series)
	}
}

func sumCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}
