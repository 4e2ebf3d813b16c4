// Package layout walks a trace state by state, diffing each selected
// variable against the preceding state, and assembles the rendered cells
// into either a single table or a chain of per-state tables.
package layout
