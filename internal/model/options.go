package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gorm.io/datatypes"
)

// OrderOptionKey drives the derived order of sections, groups and questions.
const OrderOptionKey = "order"

type ValueKind uint8

const (
	InvalidKind ValueKind = iota
	StringKind
	NumberKind
	BoolKind
	ListKind
	MapKind
)

func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "bool"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	}
	return "invalid"
}

// Value is a single option value. Only the kinds above can be stored; there
// is no null value, an unset option is simply absent from its map.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	m    map[string]Value
}

func StringValue(s string) Value  { return Value{kind: StringKind, str: s} }
func NumberValue(n float64) Value { return Value{kind: NumberKind, num: n} }
func IntValue(n int) Value        { return Value{kind: NumberKind, num: float64(n)} }
func BoolValue(b bool) Value      { return Value{kind: BoolKind, b: b} }

func ListValue(items ...Value) Value {
	return Value{kind: ListKind, list: append([]Value{}, items...)}
}

func MapValue(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: MapKind, m: cp}
}

// ValueOf converts a decoded JSON value or a Go scalar into a Value.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case nil:
		return Value{}, fmt.Errorf("option values cannot be null")
	case string:
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case []string:
		items := make([]Value, len(v))
		for i, s := range v {
			items[i] = StringValue(s)
		}
		return Value{kind: ListKind, list: items}, nil
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, iv)
		}
		return Value{kind: ListKind, list: items}, nil
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = iv
		}
		return Value{kind: MapKind, m: m}, nil
	}
	return Value{}, fmt.Errorf("unsupported option value of type %T", x)
}

// MustValue is ValueOf for literals known to be valid.
func MustValue(x any) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsString() (string, bool)  { return v.str, v.kind == StringKind }
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == NumberKind }
func (v Value) AsBool() (bool, bool)      { return v.b, v.kind == BoolKind }
func (v Value) AsList() ([]Value, bool)   { return v.list, v.kind == ListKind }

func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == MapKind }

// Interface returns the plain Go form used for JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case StringKind:
		return v.str
	case NumberKind:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int64(v.num)
		}
		return v.num
	case BoolKind:
		return v.b
	case ListKind:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case MapKind:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case StringKind:
		return v.str == o.str
	case NumberKind:
		return v.num == o.num
	case BoolKind:
		return v.b == o.b
	case ListKind:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case MapKind:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, item := range v.m {
			other, ok := o.m[k]
			if !ok || !item.Equal(other) {
				return false
			}
		}
		return true
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == InvalidKind {
		return nil, fmt.Errorf("cannot encode an invalid option value")
	}
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Options is the free-form key/value bag carried by sections, groups,
// questions and answers.
type Options map[string]Value

// OptionsFrom converts a decoded JSON object. Null members are treated as
// absent keys.
func OptionsFrom(m map[string]any) (Options, error) {
	out := make(Options, len(m))
	for k, raw := range m {
		if raw == nil {
			continue
		}
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Keys returns the option keys in lexical order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o Options) Equal(other Options) bool {
	if len(o) != len(other) {
		return false
	}
	for k, v := range o {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Order is the derived sort position: options["order"] when it holds a
// number (or numeric string), otherwise 1.
func (o Options) Order() int {
	v, ok := o[OrderOptionKey]
	if !ok {
		return 1
	}
	switch v.kind {
	case NumberKind:
		return int(v.num)
	case StringKind:
		if n, err := strconv.Atoi(strings.TrimSpace(v.str)); err == nil {
			return n
		}
	}
	return 1
}

func (o *Options) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := OptionsFrom(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// OptionsColumn is the persisted form of an Options bag.
type OptionsColumn = datatypes.JSONType[Options]

func NewOptionsColumn(o Options) OptionsColumn {
	if o == nil {
		o = Options{}
	}
	return datatypes.NewJSONType(o)
}

// Optioned is implemented by every entity that carries an options bag.
type Optioned interface {
	GetOptions() Options
	PutOptions(Options)
}
