// Package source provides trace sources backed by the filesystem.
package source
