package domain

// TraceMeta is the descriptive header of a trace. It is displayed, never
// interpreted.
type TraceMeta struct {
	Description       string         `json:"description,omitempty" mapstructure:"description"`
	Format            string         `json:"format,omitempty" mapstructure:"format"`
	FormatDescription string         `json:"format-description,omitempty" mapstructure:"format-description"`
	Source            string         `json:"source,omitempty" mapstructure:"source"`
	Extra             map[string]any `json:"-" mapstructure:",remain"`
}

// StateMeta is the per-state header found under "#meta".
type StateMeta struct {
	Index int            `json:"index" mapstructure:"index"`
	Extra map[string]any `json:"-" mapstructure:",remain"`
}

// State is one snapshot of the traced program.
type State struct {
	// Index is the position of the state in the trace (0 = initial state).
	Index int

	// Meta holds the decoded "#meta" block of the state.
	Meta StateMeta

	// Vars maps variable names to their classified values.
	Vars map[string]Value
}

// Lookup returns the value of a variable. A variable missing from the state
// is reported as absent, not as an error.
func (s *State) Lookup(name string) (Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Vars[name]
	return v, ok
}

// Trace is an ordered sequence of states plus the variables in scope.
type Trace struct {
	Meta   TraceMeta
	Vars   []string
	States []State
}

// NewState builds a state from raw decoded variable values.
func NewState(index int, vars map[string]any) State {
	st := State{
		Index: index,
		Meta:  StateMeta{Index: index},
		Vars:  make(map[string]Value, len(vars)),
	}
	for k, v := range vars {
		st.Vars[k] = Classify(v)
	}
	return st
}
