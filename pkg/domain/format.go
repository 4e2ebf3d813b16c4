package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format renders v as a compact single-line string in TLA+ notation:
// {1, 2} for sets, <<a, b>> for tuples, [f |-> 1] for records and
// (k :> v) @@ ... for maps.
func Format(v Value) string {
	var sb strings.Builder
	writeFormat(&sb, v)
	return sb.String()
}

func writeFormat(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		return
	case Scalar:
		sb.WriteString(ScalarText(x))
	case Record:
		if len(x.Fields) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		for i, k := range x.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(" |-> ")
			writeFormat(sb, x.Fields[k])
		}
		sb.WriteByte(']')
	case Array:
		writeSequence(sb, "<<", ">>", x.Elems)
	case Tuple:
		writeSequence(sb, "<<", ">>", x.Elems)
	case Set:
		writeSequence(sb, "{", "}", x.Elems)
	case Map:
		if len(x.Entries) == 0 {
			sb.WriteString("<<>>")
			return
		}
		for i, e := range x.Entries {
			if i > 0 {
				sb.WriteString(" @@ ")
			}
			sb.WriteByte('(')
			writeFormat(sb, e.Key)
			sb.WriteString(" :> ")
			writeFormat(sb, e.Value)
			sb.WriteByte(')')
		}
	}
}

func writeSequence(sb *strings.Builder, open, close string, elems []Value) {
	sb.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeFormat(sb, e)
	}
	sb.WriteString(close)
}

// ScalarText returns the JSON literal of a scalar: strings are quoted,
// numbers are printed verbatim and nil becomes null.
func ScalarText(s Scalar) string {
	switch x := s.V.(type) {
	case nil:
		return "null"
	case json.Number:
		return x.String()
	case string:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%q", x)
		}
		return string(b)
	}
	b, err := json.Marshal(s.V)
	if err != nil {
		return fmt.Sprint(s.V)
	}
	return string(b)
}
