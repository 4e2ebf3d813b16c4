// Package mcp exposes a trace source over the Model Context Protocol: the
// render_trace and list_variables tools and the itf://trace resource.
package mcp
