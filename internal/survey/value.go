package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Value is a field value: either a scalar string or a multi-valued list.
type Value struct {
	Multi  bool
	Scalar string
	Items  []string
}

// Scalar builds a scalar value.
func Scalar(s string) Value {
	return Value{Scalar: s}
}

// List builds a multi-valued value. A nil slice becomes an empty list.
func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{Multi: true, Items: items}
}

// Equal reports whether both values have the same kind and content. List
// order is significant.
func (v Value) Equal(other Value) bool {
	if v.Multi != other.Multi {
		return false
	}
	if !v.Multi {
		return v.Scalar == other.Scalar
	}
	return slices.Equal(v.Items, other.Items)
}

// Contains reports whether a multi-valued value holds item. Scalars compare
// against their whole value.
func (v Value) Contains(item string) bool {
	if !v.Multi {
		return v.Scalar == item
	}
	return slices.Contains(v.Items, item)
}

// String renders the value for tables and CSV cells.
func (v Value) String() string {
	if !v.Multi {
		return v.Scalar
	}
	return strings.Join(v.Items, "; ")
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	if v.Multi {
		v.Items = slices.Clone(v.Items)
		if v.Items == nil {
			v.Items = []string{}
		}
	}
	return v
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Multi {
		items := v.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.Scalar)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case nil:
		*v = Scalar("")
	case string:
		*v = Scalar(typed)
	case json.Number:
		*v = Scalar(typed.String())
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("list item %v: expected string", item)
			}
			items = append(items, s)
		}
		*v = List(items...)
	default:
		*v = Scalar(fmt.Sprint(typed))
	}
	return nil
}

// Fields is an insertion-ordered field map.
type Fields struct {
	keys   []string
	values map[string]Value
}

// Set stores value under key, appending key when it is new.
func (f *Fields) Set(key string, value Value) {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (Value, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (f Fields) Keys() []string {
	return slices.Clone(f.keys)
}

// Len reports the number of fields.
func (f Fields) Len() int {
	return len(f.keys)
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	out := Fields{
		keys:   slices.Clone(f.keys),
		values: make(map[string]Value, len(f.values)),
	}
	for k, v := range f.values {
		out.values[k] = v.Clone()
	}
	return out
}
