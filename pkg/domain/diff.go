package domain

// Status classifies a value against its counterpart in the previous state.
type Status uint8

const (
	// StatusUnchanged means the value is deep-equal to its counterpart, or
	// its differences are reported by its members.
	StatusUnchanged Status = iota
	// StatusNew means no counterpart exists in the previous state.
	StatusNew
	// StatusChanged means an opaque value (a scalar, or a value whose kind
	// changed) differs from its counterpart.
	StatusChanged
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusChanged:
		return "changed"
	default:
		return "unchanged"
	}
}

// Diff is the classification tree of a value against its previous version.
// Children mirror the shape of the current value. Subtrees may be shared
// between results, so a Diff must be treated as read-only.
type Diff struct {
	Status Status

	// Reduced is set on a collection whose previous version had members
	// that are absent now.
	Reduced bool

	// ShapeChanged is set on a record whose field set differs from the
	// previous one. Per-field comparison is suppressed in that case.
	ShapeChanged bool

	// Fields holds per-field diffs of a Record.
	Fields map[string]*Diff

	// Elements holds per-element diffs of an Array, Set or Tuple, indexed
	// by position in the current value.
	Elements []*Diff

	// Entries holds per-pair diffs of a Map, indexed by position in the
	// current value.
	Entries []EntryDiff
}

// EntryDiff classifies one map pair. Status is New when the key has no
// counterpart, Changed when the associated value differs. Value is the
// recursive diff of the associated value and is nil for new pairs.
type EntryDiff struct {
	Status Status
	Value  *Diff
}

var (
	unchanged = &Diff{Status: StatusUnchanged}
	fresh     = &Diff{Status: StatusNew}
)

// Field returns the diff of a record field, or an unchanged diff when none
// was computed (e.g. beneath a new node).
func (d *Diff) Field(name string) *Diff {
	if d == nil || d.Fields == nil {
		return unchanged
	}
	if fd, ok := d.Fields[name]; ok && fd != nil {
		return fd
	}
	return unchanged
}

// Element returns the diff of the i-th element.
func (d *Diff) Element(i int) *Diff {
	if d == nil || i < 0 || i >= len(d.Elements) || d.Elements[i] == nil {
		return unchanged
	}
	return d.Elements[i]
}

// Entry returns the diff of the i-th map pair.
func (d *Diff) Entry(i int) EntryDiff {
	if d == nil || i < 0 || i >= len(d.Entries) {
		return EntryDiff{Value: unchanged}
	}
	e := d.Entries[i]
	if e.Value == nil {
		e.Value = unchanged
	}
	return e
}

// IsNew reports whether the node has no counterpart in the previous state.
func (d *Diff) IsNew() bool {
	return d != nil && d.Status == StatusNew
}

// Differs reports whether anything at or beneath this node differs from
// the previous state.
func (d *Diff) Differs() bool {
	if d == nil {
		return false
	}
	if d.Status != StatusUnchanged || d.Reduced || d.ShapeChanged {
		return true
	}
	for _, fd := range d.Fields {
		if fd.Differs() {
			return true
		}
	}
	for _, ed := range d.Elements {
		if ed.Differs() {
			return true
		}
	}
	for _, e := range d.Entries {
		if e.Status != StatusUnchanged || e.Value.Differs() {
			return true
		}
	}
	return false
}

// Compare classifies current against previous. A nil previous means the
// value has no counterpart: the node is New and its subtree is not diffed.
func Compare(current, previous Value) *Diff {
	if previous == nil {
		return fresh
	}

	switch cur := current.(type) {
	case Record:
		return compareRecord(cur, previous)
	case Array, Set, Tuple:
		if previous.Kind() != current.Kind() {
			return &Diff{Status: StatusChanged}
		}
		curElems, _ := Elements(current)
		prevElems, _ := Elements(previous)
		return compareMembers(curElems, prevElems)
	case Map:
		prev, ok := previous.(Map)
		if !ok {
			return &Diff{Status: StatusChanged}
		}
		return compareMap(cur, prev)
	}

	if Equal(current, previous) {
		return unchanged
	}
	return &Diff{Status: StatusChanged}
}

func compareRecord(cur Record, previous Value) *Diff {
	prev, ok := previous.(Record)
	if !ok || !sameFieldNames(cur, prev) {
		// A shape change invalidates per-field comparison: every field is
		// compared against itself.
		fields := make(map[string]*Diff, len(cur.Fields))
		for k := range cur.Fields {
			fields[k] = unchanged
		}
		return &Diff{Status: StatusChanged, ShapeChanged: true, Fields: fields}
	}

	fields := make(map[string]*Diff, len(cur.Fields))
	for k, v := range cur.Fields {
		pv, ok := prev.Fields[k]
		if !ok {
			fields[k] = fresh
			continue
		}
		fields[k] = Compare(v, pv)
	}
	return &Diff{Status: StatusUnchanged, Fields: fields}
}

func sameFieldNames(a, b Record) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for k := range a.Fields {
		if _, ok := b.Fields[k]; !ok {
			return false
		}
	}
	return true
}

// compareMembers implements member-presence semantics for sequences: an
// element is new when no deep-equal element exists anywhere in the previous
// sequence. Positions are never aligned.
func compareMembers(cur, prev []Value) *Diff {
	d := &Diff{Elements: make([]*Diff, len(cur))}
	for i, v := range cur {
		if Contains(prev, v) {
			d.Elements[i] = unchanged
		} else {
			d.Elements[i] = fresh
		}
	}
	for _, pv := range prev {
		if !Contains(cur, pv) {
			d.Reduced = true
			break
		}
	}
	return d
}

func compareMap(cur, prev Map) *Diff {
	d := &Diff{Entries: make([]EntryDiff, len(cur.Entries))}
	for i, e := range cur.Entries {
		pv, ok := prev.Lookup(e.Key)
		if !ok {
			d.Entries[i] = EntryDiff{Status: StatusNew}
			continue
		}
		ed := EntryDiff{Status: StatusUnchanged, Value: Compare(e.Value, pv)}
		if !Equal(e.Value, pv) {
			ed.Status = StatusChanged
		}
		d.Entries[i] = ed
	}
	for _, pe := range prev.Entries {
		if _, ok := cur.Lookup(pe.Key); !ok {
			d.Reduced = true
			break
		}
	}
	return d
}
