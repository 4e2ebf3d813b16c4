/*
Package render turns a value and its diff into HTML markup.

The output contains only tables and spans. The sole class attributes are the
four change markers: newElement, prevIsDifferent, reducedElements and
differentKeys. Rendering is pure, so the same value and diff always yield the
same markup.
*/
package render
