package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/spf13/cobra"
)

const traceDoc = `{
  "#meta": {"description": "Created by Apalache"},
  "vars": ["s", "n"],
  "states": [
    {"s": {"#set": [1, 2]}, "n": 1},
    {"s": {"#set": [2, 3]}, "n": 2}
  ]
}`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTrace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.itf.json")
	if err := os.WriteFile(path, []byte(traceDoc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out, "itfview version ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRenderCmd(t *testing.T) {
	path := writeTrace(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Default", []string{"render", path}, `<table><tr><th>#</th><td>1</td></tr>`},
		{"Single Table With Initial", []string{"render", path, "--mode", "single", "--initial"}, `<tbody><tr><td>0</td>`},
		{"Selected Variables", []string{"render", path, "--vars", "n"}, `<tr><th>n</th>`},
		{"Text", []string{"render", path, "-f", "text"}, "{2, 3} -"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestRenderCmd_SelectedVariablesHideOthers(t *testing.T) {
	out, _, err := execute(t, "render", writeTrace(t), "--vars", "n")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(out, "<th>s</th>") {
		t.Errorf("unselected variable rendered: %q", out)
	}
}

func TestRenderCmd_Errors(t *testing.T) {
	path := writeTrace(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Missing File Argument", []string{"render"}, "accepts 1 arg"},
		{"Bad Mode", []string{"render", path, "--mode", "diagonal"}, "--mode"},
		{"Bad Format", []string{"render", path, "--format", "pdf"}, "unknown format"},
		{"Missing Config", []string{"render", path, "--config", "nope.yaml"}, "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr %q does not contain %q", errOut, tt.want)
			}
		})
	}
}

func TestInfoCmd(t *testing.T) {
	out, _, err := execute(t, "info", writeTrace(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Apalache") {
		t.Errorf("description missing from %q", out)
	}
}

func TestViewOptions(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addViewFlags(cmd)
	if err := cmd.ParseFlags([]string{"--initial", "--mode", "single"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	base := domain.DisplayOptions{SelectedVariables: []string{"a"}, ViewMode: domain.ChainedTables}
	got, err := viewOptions(cmd, base)
	if err != nil {
		t.Fatalf("viewOptions() error = %v", err)
	}
	if !got.ShowInitialState || got.ViewMode != domain.SingleTable {
		t.Errorf("flags not applied: %+v", got)
	}
	if len(got.SelectedVariables) != 1 || got.SelectedVariables[0] != "a" {
		t.Errorf("unset flag overrode the base: %+v", got)
	}
}
