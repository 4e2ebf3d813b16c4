package session

import (
	"fmt"

	"github.com/aretw0/itfview/pkg/domain"
)

// Command names accepted by Manager.Handle.
const (
	CommandSwitchView       = "switch-view"
	CommandFilterVariables  = "filter-variables"
	CommandShowInitialState = "show-initial-state"
	CommandReset            = "reset-view"
)

// Command is one user action on a view.
type Command struct {
	Name string `json:"command"`

	// Variables is the new selection for filter-variables. A nil list
	// selects nothing.
	Variables []string `json:"variables,omitempty"`
}

// apply returns opts updated by cmd. reset-view restores defaults.
func apply(opts domain.DisplayOptions, cmd Command, defaults domain.DisplayOptions) (domain.DisplayOptions, error) {
	switch cmd.Name {
	case CommandSwitchView:
		mode := opts.ViewMode
		if mode == "" {
			mode = domain.ChainedTables
		}
		opts.ViewMode = mode.Toggle()
	case CommandFilterVariables:
		opts.SelectedVariables = append([]string{}, cmd.Variables...)
	case CommandShowInitialState:
		opts.ShowInitialState = !opts.ShowInitialState
	case CommandReset:
		opts = defaults
	default:
		return opts, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Name)
	}
	return opts, nil
}
