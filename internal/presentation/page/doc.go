// Package page wraps engine markup in a standalone HTML page with a control
// bar and the trace description. The page carries no scripts; every control
// is a plain form posting a view command.
package page
