package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/itfview/pkg/domain"
)

// InfoMarkdown describes a trace: its header, variables and length.
func InfoMarkdown(name string, t *domain.Trace) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)

	if t.Meta.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", linkApalache(t.Meta.Description))
	}

	sb.WriteString("| Property | Value |\n|---|---|\n")
	if t.Meta.Format != "" {
		fmt.Fprintf(&sb, "| Format | %s |\n", t.Meta.Format)
	}
	if t.Meta.Source != "" {
		fmt.Fprintf(&sb, "| Source | `%s` |\n", t.Meta.Source)
	}
	fmt.Fprintf(&sb, "| States | %d |\n", len(t.States))
	fmt.Fprintf(&sb, "| Variables | %d |\n\n", len(t.Vars))

	if len(t.Vars) > 0 {
		sb.WriteString("## Variables\n\n")
		vars := slices.Clone(t.Vars)
		slices.Sort(vars)
		for _, v := range vars {
			fmt.Fprintf(&sb, "- `%s`\n", v)
		}
	}
	return sb.String()
}

func linkApalache(s string) string {
	return strings.Replace(s, "Apalache", "[Apalache](https://apalache.informal.systems/)", 1)
}
