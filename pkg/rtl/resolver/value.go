package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the value types a variable environment can hold.
// There is no automatic coercion between kinds.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindBool     Kind = "boolean"
	KindSequence Kind = "sequence"
	KindMapping  Kind = "mapping"
)

// MapEntry is one key/value pair of a mapping. Mappings preserve their
// defined iteration order, which loop evaluation relies on.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is a typed template value: string, number, boolean, ordered
// sequence, or ordered key-value mapping. The zero Value is an empty string.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	seq     []Value
	entries []MapEntry
}

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Sequence creates an ordered sequence value.
func Sequence(vs ...Value) Value { return Value{kind: KindSequence, seq: vs} }

// Strings creates a sequence of string values.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Sequence(vs...)
}

// Mapping creates an ordered mapping value.
func Mapping(entries ...MapEntry) Value { return Value{kind: KindMapping, entries: entries} }

// StringMap creates a mapping of string values from alternating key/value
// pairs, preserving the given order.
func StringMap(pairs ...string) Value {
	entries := make([]MapEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, MapEntry{Key: pairs[i], Value: String(pairs[i+1])})
	}
	return Mapping(entries...)
}

// Kind returns the value's kind. The zero Value reports KindString.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindString
	}
	return v.kind
}

// Str returns the string payload (empty for other kinds).
func (v Value) Str() string { return v.str }

// Num returns the numeric payload (zero for other kinds).
func (v Value) Num() float64 { return v.num }

// IsTrue returns the boolean payload (false for other kinds).
func (v Value) IsTrue() bool { return v.boolean }

// Seq returns the sequence elements (nil for other kinds).
func (v Value) Seq() []Value { return v.seq }

// Entries returns the mapping entries in defined order (nil for other kinds).
func (v Value) Entries() []MapEntry { return v.entries }

// Lookup returns the value under key for mapping values.
func (v Value) Lookup(key string) (Value, bool) {
	if v.Kind() != KindMapping {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Present reports whether the value counts as present for substitution and
// truthiness: a non-blank string, a non-zero number, boolean true, or a
// non-empty sequence or mapping.
func (v Value) Present() bool {
	switch v.Kind() {
	case KindString:
		return strings.TrimSpace(v.str) != ""
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.boolean
	case KindSequence:
		return len(v.seq) > 0
	case KindMapping:
		return len(v.entries) > 0
	}
	return false
}

// Stringify converts the value to plain output text with no formatter:
// strings verbatim, numbers without trailing zeros, booleans as true/false,
// sequences comma separated, mappings as "key: value" pairs.
func (v Value) Stringify() string {
	switch v.Kind() {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.Stringify()
		}
		return strings.Join(parts, ", ")
	case KindMapping:
		parts := make([]string, len(v.entries))
		for i, e := range v.entries {
			parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Value.Stringify())
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// MarshalJSON encodes the value, keeping mapping entries in defined order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindSequence:
		elems := v.seq
		if elems == nil {
			elems = []Value{}
		}
		return json.Marshal(elems)
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(e.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return []byte("null"), nil
}
