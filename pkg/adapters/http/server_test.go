package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/pkg/adapters/memory"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/observability"
	"github.com/aretw0/itfview/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const traceDoc = `{
  "#meta": {"description": "Created by Apalache"},
  "vars": ["s", "n"],
  "states": [
    {"s": {"#set": [1, 2]}, "n": 1},
    {"s": {"#set": [2, 3]}, "n": 2}
  ]
}`

type fixture struct {
	handler http.Handler
	source  *memory.Source
	engine  *itfview.Engine
	reg     *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	src, err := memory.NewSourceFromJSON("run.itf.json", traceDoc)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	eng := itfview.New(itfview.WithMetrics(observability.NewMetrics(reg)))
	mgr := session.NewManager(memory.NewStore())

	return &fixture{
		handler: NewHandler(eng, src, mgr, WithGatherer(reg), WithVersion("1.0.0\n")),
		source:  src,
		engine:  eng,
		reg:     reg,
	}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) trace(t *testing.T) *domain.Trace {
	t.Helper()
	tr, err := f.source.Load(context.Background())
	require.NoError(t, err)
	return tr
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGetPage(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, f.engine.Render(f.trace(t), domain.DefaultDisplayOptions()))
	assert.Contains(t, body, `<a href="https://apalache.informal.systems/">Apalache</a>`)
	assert.Contains(t, body, `value="n" checked>`)
	assert.Contains(t, body, `action="/commands"`)
	assert.NotContains(t, body, "<script")
}

func TestGetPage_SourceFailure(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	h := NewHandler(itfview.New(), memory.NewSource("empty", nil), mgr)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load trace")
}

func TestGetFragment(t *testing.T) {
	f := newFixture(t)
	tr := f.trace(t)

	tests := []struct {
		name string
		path string
		code int
		mode domain.ViewMode
	}{
		{"Stored Mode", "/fragment", http.StatusOK, domain.ChainedTables},
		{"Mode Override", "/fragment?mode=single", http.StatusOK, domain.SingleTable},
		{"Bad Mode", "/fragment?mode=diagonal", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				return
			}
			want := f.engine.Render(tr, domain.DisplayOptions{ViewMode: tt.mode})
			assert.Equal(t, want, w.Body.String())
		})
	}
}

func TestGetFragment_BothModes(t *testing.T) {
	f := newFixture(t)
	tr := f.trace(t)

	require.Equal(t, http.StatusOK, f.do(t, postJSON("/commands", `{"command": "show-initial-state"}`)).Code)

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/fragment?mode=both", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var got FragmentModes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, f.engine.Render(tr, domain.DisplayOptions{ShowInitialState: true, ViewMode: domain.SingleTable}), got.Single)
	assert.Equal(t, f.engine.Render(tr, domain.DisplayOptions{ShowInitialState: true, ViewMode: domain.ChainedTables}), got.Chained)
	assert.NotEqual(t, got.Single, got.Chained)
}

func TestPostCommand_JSON(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, postJSON("/commands", `{"command": "switch-view"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var opts domain.DisplayOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, domain.SingleTable, opts.ViewMode)

	w = f.do(t, httptest.NewRequest(http.MethodGet, "/fragment", nil))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<table><thead>"), "stored mode is used")

	w = f.do(t, postJSON("/commands", `{"command": "filter-variables", "variables": ["n"]}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []string{"n"}, opts.SelectedVariables)
}

func TestPostCommand_Form(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, postForm("/commands", url.Values{
		"command":   {session.CommandFilterVariables},
		"variables": {"s"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = f.do(t, httptest.NewRequest(http.MethodGet, "/options", nil))
	var opts domain.DisplayOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Equal(t, []string{"s"}, opts.SelectedVariables)

	// No boxes ticked selects nothing.
	f.do(t, postForm("/commands", url.Values{"command": {session.CommandFilterVariables}}))
	w = f.do(t, httptest.NewRequest(http.MethodGet, "/options", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.NotNil(t, opts.SelectedVariables)
	assert.Empty(t, opts.SelectedVariables)
}

func TestPostCommand_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"Unknown Command", postJSON("/commands", `{"command": "explode"}`)},
		{"Unknown Form Command", postForm("/commands", url.Values{"command": {"explode"}})},
		{"Invalid JSON", postJSON("/commands", `{"command":`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestViews_AreIsolated(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, postJSON("/commands?view=alice", `{"command": "show-initial-state"}`))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, viewCookie, cookies[0].Name)

	// The cookie alone selects the view.
	req := httptest.NewRequest(http.MethodGet, "/options", nil)
	req.AddCookie(cookies[0])
	w = f.do(t, req)
	var opts domain.DisplayOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.True(t, opts.ShowInitialState)

	w = f.do(t, httptest.NewRequest(http.MethodGet, "/options", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.False(t, opts.ShowInitialState, "the default view is untouched")

	w = f.do(t, postForm("/commands?view=alice", url.Values{"command": {session.CommandSwitchView}}))
	assert.Equal(t, "/?view=alice", w.Header().Get("Location"))
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `itfview_renders_total{mode="chained"} 1`)
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = f.do(t, httptest.NewRequest(http.MethodGet, "/info", nil))
	assert.JSONEq(t, `{"app": "itfview-http", "version": "1.0.0", "source": "run.itf.json"}`, w.Body.String())
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if sc.Text() != "" {
				lines <- sc.Text()
			}
		}
	}()

	next := func() string {
		t.Helper()
		select {
		case l, ok := <-lines:
			require.True(t, ok, "stream ended")
			return l
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	assert.Equal(t, "event: ping", next())
	assert.Equal(t, "data: connected", next())

	f.source.Set(f.trace(t))
	assert.Equal(t, "data: run.itf.json", next())

	cmd, err := http.Post(srv.URL+"/commands", "application/json", strings.NewReader(`{"command": "switch-view"}`))
	require.NoError(t, err)
	cmd.Body.Close()
	assert.Equal(t, "event: view", next())
	assert.Equal(t, "data: switch-view", next())
}

func TestStreamManager_UnsubscribeTwice(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("v")
	sm.Broadcast("v", "hello")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	sm.Broadcast("v", "nobody listens")
}

func TestPostCommand_InvalidInput(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, postJSON("/commands", `{"command": "filter-variables", "variables": ["ÿ", "ok"]}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, postJSON("/commands?view="+strings.Repeat("v", session.MaxViewIDSize+1), `{"command": "switch-view"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
