/*
Package domain contains the value model and the structural diff engine of
itfview.

A trace is a sequence of states; each state maps variable names to values.
Values are classified once, by Classify, into a closed set of kinds that
mirrors the ITF encoding:

  - Scalar: booleans, numbers, strings and null.
  - Record: plain JSON objects.
  - Array: plain JSON arrays.
  - Set, Tuple, Map: objects with a single "#set", "#tup" or "#map" field.

Compare classifies a value against its counterpart in the previous state and
returns a Diff tree (New, Changed, Unchanged, plus the Reduced and
ShapeChanged flags). The package performs no I/O and never mutates its
inputs.
*/
package domain
