// Package http serves rendered traces to browsers.
//
// Routes:
//
//	GET  /          full page with controls and the trace description
//	GET  /fragment  engine markup only; ?mode=both returns both modes as JSON
//	POST /commands  view command, as a form or as JSON {"command", "variables"}
//	GET  /options   current view options as JSON
//	GET  /events    server-sent events on source changes
//	GET  /metrics   Prometheus metrics, when a gatherer is configured
//
// The view is selected by the "view" query parameter or cookie.
package http
