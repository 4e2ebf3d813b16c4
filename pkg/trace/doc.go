/*
Package trace reads ITF documents into domain traces.

Numbers are decoded as json.Number so that their literal text survives to the
rendered output. The "#meta" blocks are decoded with mapstructure and unknown
keys are kept. A document without a "vars" list of names or a "states" list
of objects is rejected with domain.ErrMalformedTrace; the wrapped
AggregateError lists every problem found.
*/
package trace
