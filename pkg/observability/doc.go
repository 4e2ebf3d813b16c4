/*
Package observability provides Prometheus instrumentation for the render engine.

Metrics count render passes per view mode, time them, and track how many
states and differing cells each pass produced. A nil *Metrics is valid and
records nothing.
*/
package observability
