// Package cli implements the itfview commands on top of the engine, the
// adapters and the presentation packages. The cobra wiring lives in
// cmd/itfview.
package cli
