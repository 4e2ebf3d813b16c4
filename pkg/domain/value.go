package domain

import (
	"encoding/json"
	"math/big"
	"reflect"
	"sort"
)

// Kind names the semantic shape of a Value.
type Kind string

const (
	KindScalar Kind = "scalar"
	KindRecord Kind = "record"
	KindArray  Kind = "array"
	KindSet    Kind = "set"
	KindTuple  Kind = "tuple"
	KindMap    Kind = "map"
)

// Discriminator tags wrapping structured collections in the ITF encoding.
const (
	TagMap   = "#map"
	TagSet   = "#set"
	TagTuple = "#tup"
)

// Value is a classified trace value. The set of implementations is closed:
// Scalar, Record, Array, Set, Tuple and Map.
type Value interface {
	Kind() Kind
	sealed()
}

// Scalar holds a literal: bool, number, string or nil.
type Scalar struct {
	V any
}

// Record maps unique field names to values. Field order carries no meaning.
type Record struct {
	Fields map[string]Value
}

// Array is an ordered sequence where position is significant.
type Array struct {
	Elems []Value
}

// Set is a sequence tagged as set-typed. The encoding order is preserved
// for display but ignored by equality.
type Set struct {
	Elems []Value
}

// Tuple is an ordered sequence tagged as tuple-typed.
type Tuple struct {
	Elems []Value
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an ordered sequence of entries. Keys may be structured, so lookups
// go through Equal rather than hashing.
type Map struct {
	Entries []Entry
}

func (Scalar) Kind() Kind { return KindScalar }
func (Record) Kind() Kind { return KindRecord }
func (Array) Kind() Kind  { return KindArray }
func (Set) Kind() Kind    { return KindSet }
func (Tuple) Kind() Kind  { return KindTuple }
func (Map) Kind() Kind    { return KindMap }

func (Scalar) sealed() {}
func (Record) sealed() {}
func (Array) sealed()  {}
func (Set) sealed()    {}
func (Tuple) sealed()  {}
func (Map) sealed()    {}

// Keys returns the record field names in alphabetical order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the value associated with a deep-equal key.
func (m Map) Lookup(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Elements returns the members of a sequence-shaped value (Array, Set or
// Tuple) and whether v is one.
func Elements(v Value) ([]Value, bool) {
	switch x := v.(type) {
	case Array:
		return x.Elems, true
	case Set:
		return x.Elems, true
	case Tuple:
		return x.Elems, true
	}
	return nil, false
}

// Classify turns a decoded JSON fragment into a Value.
//
// An object with exactly one field named #map, #set or #tup becomes a Map,
// Set or Tuple; any other object is a Record; an array is an Array; anything
// else is a Scalar. A tagged object whose payload has the wrong shape falls
// back to Record. Classify never fails.
func Classify(fragment any) Value {
	switch x := fragment.(type) {
	case nil:
		return Scalar{}
	case Value:
		return x
	case map[string]any:
		if len(x) == 1 {
			if v, ok := classifyTagged(x); ok {
				return v
			}
		}
		fields := make(map[string]Value, len(x))
		for k, f := range x {
			fields[k] = Classify(f)
		}
		return Record{Fields: fields}
	case []any:
		return Array{Elems: classifyAll(x)}
	}

	// Slices and maps of concrete Go types (e.g. []int in tests) are
	// normalized before classification.
	rv := reflect.ValueOf(fragment)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := fragment.([]byte); isBytes {
			break
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return Classify(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		obj := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = iter.Value().Interface()
		}
		return Classify(obj)
	}
	return Scalar{V: fragment}
}

func classifyAll(items []any) []Value {
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = Classify(it)
	}
	return out
}

func classifyTagged(obj map[string]any) (Value, bool) {
	if payload, ok := obj[TagSet]; ok {
		items, ok := asList(payload)
		if !ok {
			return nil, false
		}
		return Set{Elems: classifyAll(items)}, true
	}
	if payload, ok := obj[TagTuple]; ok {
		items, ok := asList(payload)
		if !ok {
			return nil, false
		}
		return Tuple{Elems: classifyAll(items)}, true
	}
	if payload, ok := obj[TagMap]; ok {
		pairs, ok := asList(payload)
		if !ok {
			return nil, false
		}
		entries := make([]Entry, 0, len(pairs))
		for _, p := range pairs {
			kv, ok := asList(p)
			if !ok || len(kv) != 2 {
				return nil, false
			}
			entries = append(entries, Entry{Key: Classify(kv[0]), Value: Classify(kv[1])})
		}
		return Map{Entries: entries}, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// Equal reports deep structural equality. Records and sets ignore order,
// arrays and tuples do not, maps compare entries by deep-equal key.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Scalar:
		return scalarEqual(x.V, b.(Scalar).V)
	case Record:
		y := b.(Record)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for k, v := range x.Fields {
			w, ok := y.Fields[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Array:
		return sequenceEqual(x.Elems, b.(Array).Elems)
	case Tuple:
		return sequenceEqual(x.Elems, b.(Tuple).Elems)
	case Set:
		y := b.(Set)
		return len(x.Elems) == len(y.Elems) && subsetOf(x.Elems, y.Elems) && subsetOf(y.Elems, x.Elems)
	case Map:
		y := b.(Map)
		if len(x.Entries) != len(y.Entries) {
			return false
		}
		for _, e := range x.Entries {
			w, ok := y.Lookup(e.Key)
			if !ok || !Equal(e.Value, w) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether items holds an element deep-equal to v.
func Contains(items []Value, v Value) bool {
	for _, it := range items {
		if Equal(it, v) {
			return true
		}
	}
	return false
}

func sequenceEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func subsetOf(a, b []Value) bool {
	for _, v := range a {
		if !Contains(b, v) {
			return false
		}
	}
	return true
}

func scalarEqual(a, b any) bool {
	if ra, ok := toRat(a); ok {
		if rb, ok := toRat(b); ok {
			return ra.Cmp(rb) == 0
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// toRat converts any numeric scalar to an exact rational so that 1, 1.0 and
// json.Number("1") compare equal.
func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(n.String())
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	case float32:
		return ratFromFloat(float64(n))
	case float64:
		return ratFromFloat(n)
	}
	return nil, false
}

func ratFromFloat(f float64) (*big.Rat, bool) {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		// NaN and infinities have no rational form.
		return nil, false
	}
	return r, true
}
