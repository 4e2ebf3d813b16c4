package domain

import (
	"fmt"
	"strings"
)

// ViewMode selects how states are laid out.
type ViewMode string

const (
	// SingleTable renders one row per state in a merged table.
	SingleTable ViewMode = "single"
	// ChainedTables renders one small table per state, stacked vertically.
	ChainedTables ViewMode = "chained"
)

// ParseViewMode accepts the canonical names plus a few aliases.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "singletable", "single-table", "table":
		return SingleTable, nil
	case "chained", "chainedtables", "chained-tables", "chain":
		return ChainedTables, nil
	}
	return "", fmt.Errorf("invalid view mode %q (want single or chained)", s)
}

// Toggle returns the other view mode.
func (m ViewMode) Toggle() ViewMode {
	if m == SingleTable {
		return ChainedTables
	}
	return SingleTable
}

// DisplayOptions is the configuration surface consumed by the layout.
type DisplayOptions struct {
	// SelectedVariables restricts the rendered variables.
	// A nil slice selects every declared variable.
	SelectedVariables []string `json:"selected_variables" yaml:"variables" mapstructure:"variables"`

	// ShowInitialState includes state 0 in the output.
	ShowInitialState bool `json:"show_initial_state" yaml:"show_initial" mapstructure:"show_initial"`

	// ViewMode selects the layout.
	ViewMode ViewMode `json:"view_mode" yaml:"mode" mapstructure:"mode"`
}

// DefaultDisplayOptions mirrors the initial state of a freshly opened view:
// chained tables, initial state hidden, all variables selected.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		ViewMode: ChainedTables,
	}
}
