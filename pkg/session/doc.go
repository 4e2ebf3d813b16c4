/*
Package session implements the control surface of a view.

A view holds display options (selected variables, initial state toggle, view
mode) that the user changes through commands. The Manager loads them from a
ports.PreferenceStore, applies commands under a per-view lock and persists the
result. Views without stored options start from domain.DefaultDisplayOptions.
*/
package session
