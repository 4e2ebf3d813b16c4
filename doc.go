/*
Package itfview renders ITF traces as annotated HTML tables that show what changed between consecutive states.

An ITF trace is the JSON encoding of a run produced by a model checker such as Apalache: a list of variables and a sequence of states binding those variables to values. Values may be scalars, records, arrays, or one of the tagged collections "#set", "#tup" and "#map".

# Concept

Every state is compared with the state immediately before it. The comparison is structural and recursive, and its result is turned into markup carrying four marker classes:

  - newElement: the value (or element, or map pair) has no counterpart in the previous state.
  - prevIsDifferent: an opaque value such as a number or string differs from the previous one.
  - reducedElements: a collection lost members.
  - differentKeys: a record gained or lost fields.

The output holds only tables and spans, so the host decides how to style it.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/itfview"
		"github.com/aretw0/itfview/pkg/domain"
		"github.com/aretw0/itfview/pkg/trace"
	)

	func main() {
		t, err := trace.Load("counterexample.itf.json")
		if err != nil {
			log.Fatal(err)
		}

		eng := itfview.New()
		fmt.Println(eng.Render(t, domain.DefaultDisplayOptions()))
	}

The cmd/itfview binary wraps the same engine in a CLI, an HTTP viewer with live reload and an MCP server.
*/
package itfview
