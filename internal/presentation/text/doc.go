// Package text renders traces for terminals, marking changes with a suffix
// and, when the terminal supports it, a colour.
package text
