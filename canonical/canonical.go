// Package canonical implements deterministic, order-independent normalization
// of structured values.
//
// Canonical bytes are the mandatory input to hashing, sealing, and identity
// derivation. Two logical values that differ only in map key order or in
// source object identity MUST normalize to identical Value trees and identical
// encoded bytes, on any platform. All sealmint hashing and identity derivation
// MUST pass through Canonicalize.
package canonical

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Kind discriminates the canonical value forms.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindNumber
	KindList
	KindMap
)

// CycleSentinel replaces any value that is reachable from itself.
//
// Cyclic inputs are a lossy-but-safe fallback, not an error: normalization is
// total and the sentinel is itself canonical.
const CycleSentinel = "[cyclic]"

// Value is a normalized tree node.
//
// Numbers are carried as decimal text, never native floating point, so exact
// monetary micro-unit quantities survive normalization byte-for-byte. Map
// fields are sorted ascending by key code point; list order is preserved
// (list order is semantically significant, map insertion order is not).
type Value struct {
	Kind Kind

	// Text holds the string value for KindString and the decimal text for
	// KindNumber. Unused otherwise.
	Text string
	Bool bool
	List []Value
	Map  []Field
}

// Field is one sorted map entry.
type Field struct {
	Key   string
	Value Value
}

// Null, BoolValue, StringValue and NumberValue construct leaf values.
func Null() Value { return Value{Kind: KindNull} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

func NumberValue(text string) Value { return Value{Kind: KindNumber, Text: text} }

// Canonicalize normalizes v and encodes it to canonical bytes.
//
// It is total: it never fails and never panics, on arbitrary input including
// cyclic object graphs.
func Canonicalize(v any) []byte {
	return Encode(FromAny(v))
}

// FromAny normalizes an arbitrary Go value into a canonical Value.
//
// Recognized inputs: nil, bool, string, json.Number, all integer widths,
// float32/float64, []any and other slices/arrays, map[string]any and other
// maps (keys stringified), pointers and interfaces (dereferenced). Anything
// else degrades to its fmt representation as a string. Cycles degrade to
// CycleSentinel. Non-finite floats degrade to their names as strings.
func FromAny(v any) Value {
	return fromAny(v, make(map[uintptr]bool))
}

func fromAny(v any, seen map[uintptr]bool) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return BoolValue(x)
	case string:
		return StringValue(x)
	case json.Number:
		return NumberValue(x.String())
	case int:
		return NumberValue(strconv.FormatInt(int64(x), 10))
	case int8:
		return NumberValue(strconv.FormatInt(int64(x), 10))
	case int16:
		return NumberValue(strconv.FormatInt(int64(x), 10))
	case int32:
		return NumberValue(strconv.FormatInt(int64(x), 10))
	case int64:
		return NumberValue(strconv.FormatInt(x, 10))
	case uint:
		return NumberValue(strconv.FormatUint(uint64(x), 10))
	case uint8:
		return NumberValue(strconv.FormatUint(uint64(x), 10))
	case uint16:
		return NumberValue(strconv.FormatUint(uint64(x), 10))
	case uint32:
		return NumberValue(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return NumberValue(strconv.FormatUint(x, 10))
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case Value:
		return x
	case []any:
		return fromReflect(reflect.ValueOf(x), seen)
	case map[string]any:
		return fromReflect(reflect.ValueOf(x), seen)
	}
	return fromReflect(reflect.ValueOf(v), seen)
}

func floatValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// Non-finite floats have no canonical decimal text.
		return StringValue(strconv.FormatFloat(f, 'g', -1, 64))
	}
	// Shortest round-trip formatting; strconv is deterministic across
	// platforms, unlike printf-style formatting in other runtimes.
	return NumberValue(strconv.FormatFloat(f, 'g', -1, 64))
}

func fromReflect(rv reflect.Value, seen map[uintptr]bool) Value {
	if !rv.IsValid() {
		return Null()
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		if rv.Kind() == reflect.Pointer {
			p := rv.Pointer()
			if seen[p] {
				return StringValue(CycleSentinel)
			}
			seen[p] = true
			out := fromAny(rv.Elem().Interface(), seen)
			delete(seen, p)
			return out
		}
		return fromAny(rv.Elem().Interface(), seen)
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		p := rv.Pointer()
		if seen[p] {
			return StringValue(CycleSentinel)
		}
		seen[p] = true
		out := listFromReflect(rv, seen)
		delete(seen, p)
		return out
	case reflect.Array:
		return listFromReflect(rv, seen)
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		p := rv.Pointer()
		if seen[p] {
			return StringValue(CycleSentinel)
		}
		seen[p] = true
		out := mapFromReflect(rv, seen)
		delete(seen, p)
		return out
	}
	// Structs, channels, funcs and other exotics degrade to their fmt
	// representation rather than failing normalization.
	return StringValue(fmt.Sprintf("%v", rv.Interface()))
}

func listFromReflect(rv reflect.Value, seen map[uintptr]bool) Value {
	n := rv.Len()
	list := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, fromAny(rv.Index(i).Interface(), seen))
	}
	return Value{Kind: KindList, List: list}
}

func mapFromReflect(rv reflect.Value, seen map[uintptr]bool) Value {
	keys := rv.MapKeys()
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		key, ok := k.Interface().(string)
		if !ok {
			key = fmt.Sprintf("%v", k.Interface())
		}
		fields = append(fields, Field{Key: key, Value: fromAny(rv.MapIndex(k).Interface(), seen)})
	}
	return Value{Kind: KindMap, Map: sortFields(fields)}
}

// sortFields orders map entries ascending by key code point, discarding the
// original insertion order. Stringified keys can collide (map[any]any with
// 1 and "1"); ties are broken by the entries' encoded value bytes and the
// greatest encoding survives, so the outcome never depends on Go's
// randomized map iteration order.
func sortFields(fields []Field) []Field {
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Key != fields[j].Key {
			return fields[i].Key < fields[j].Key
		}
		return string(Encode(fields[i].Value)) < string(Encode(fields[j].Value))
	})
	out := fields[:0]
	for i := 0; i < len(fields); i++ {
		if i+1 < len(fields) && fields[i+1].Key == fields[i].Key {
			continue
		}
		out = append(out, fields[i])
	}
	return out
}

// MapValue builds a canonical map from fields, sorting by key.
func MapValue(fields ...Field) Value {
	return Value{Kind: KindMap, Map: sortFields(append([]Field(nil), fields...))}
}

// ListValue builds a canonical list preserving element order.
func ListValue(items ...Value) Value {
	return Value{Kind: KindList, List: append([]Value(nil), items...)}
}

// Get returns the field value for key in a KindMap value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	i := sort.Search(len(v.Map), func(i int) bool { return v.Map[i].Key >= key })
	if i < len(v.Map) && v.Map[i].Key == key {
		return v.Map[i].Value, true
	}
	return Value{}, false
}

// Interface converts a canonical Value back into plain Go data: nil, bool,
// string, json.Number, []any, map[string]any. Useful for consumers that want
// to inspect a parsed payload without walking the Value tree.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindString:
		return v.Text
	case KindNumber:
		return json.Number(v.Text)
	case KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Map))
		for _, f := range v.Map {
			out[f.Key] = f.Value.Interface()
		}
		return out
	}
	return nil
}
