/*
Package ports defines the driven ports (interfaces) of the viewer.

These interfaces decouple the display surfaces from storage backends and
trace origins.

# Key Interfaces

  - TraceSource: Supplies the trace to render (e.g., a file on disk).
  - Watchable: Signals that the trace changed and views must reload.
  - PreferenceStore: Persists per-view display options.
  - DistributedLocker: Serializes preference updates across replicas.
*/
package ports
