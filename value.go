package quicksilver

import (
	"math"
	"strconv"
	"strings"
)

// Type is the discriminant tag of a Value.
type Type int32

const (
	TypeUndefined Type = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	// TypeObject covers the built-in namespaces (Math, console) and native
	// functions. User-defined objects, arrays and functions are reserved
	// extensions of this variant.
	TypeObject
)

// String returns the tag name, e.g. "number".
func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	}
	return "unknown"
}

// nativeFunc is the signature of built-in functions callable from scripts.
type nativeFunc func(args []Value) (Value, error)

// object backs TypeObject values: built-in namespaces and native functions.
// Objects are constructed once at runtime setup and never mutated afterwards.
type object struct {
	name  string // display name ("Math", "sqrt", ...)
	props map[string]Value
	call  nativeFunc // non-nil when the object is callable
}

// Value represents a JavaScript value. Exactly one variant is active at a
// time and a Value is immutable once constructed; operations produce new
// Values. Values are plain Go values with copy semantics, so there is no
// release call on this side of the boundary (see capi.go for the
// handle-based lifecycle foreign callers use).
type Value struct {
	kind Type
	num  float64
	str  string
	obj  *object
}

// Undefined returns the undefined value.
func Undefined() Value {
	return Value{kind: TypeUndefined}
}

// Null returns the null value.
func Null() Value {
	return Value{kind: TypeNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: TypeBoolean}
	if b {
		v.num = 1
	}
	return v
}

// Number returns a number value.
func Number(f float64) Value {
	return Value{kind: TypeNumber, num: f}
}

// String returns a string value. The text is copied by Go string semantics;
// the caller's buffer is not retained.
func String(s string) Value {
	return Value{kind: TypeString, str: s}
}

func objectValue(o *object) Value {
	return Value{kind: TypeObject, obj: o}
}

// Type returns the discriminant tag of the value.
func (v Value) Type() Type {
	return v.kind
}

func (v Value) IsUndefined() bool { return v.kind == TypeUndefined }
func (v Value) IsNull() bool      { return v.kind == TypeNull }
func (v Value) IsBool() bool      { return v.kind == TypeBoolean }
func (v Value) IsNumber() bool    { return v.kind == TypeNumber }
func (v Value) IsString() bool    { return v.kind == TypeString }
func (v Value) IsObject() bool    { return v.kind == TypeObject }

// IsNullish reports whether the value is null or undefined.
func (v Value) IsNullish() bool {
	return v.kind == TypeUndefined || v.kind == TypeNull
}

// ToBool coerces the value to a boolean following JavaScript truthiness:
// undefined, null, false, 0, NaN and "" are false, everything else true.
func (v Value) ToBool() bool {
	switch v.kind {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.num != 0
	case TypeNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TypeString:
		return v.str != ""
	}
	return true
}

// ToFloat64 coerces the value to a number. Undefined is NaN, null is 0,
// booleans are 0/1, strings are parsed as numeric literals (empty string
// is 0, unparsable text is NaN).
func (v Value) ToFloat64() float64 {
	switch v.kind {
	case TypeUndefined:
		return math.NaN()
	case TypeNull:
		return 0
	case TypeBoolean:
		return v.num
	case TypeNumber:
		return v.num
	case TypeString:
		return stringToNumber(v.str)
	}
	return math.NaN()
}

// ToString coerces the value to its textual form: "undefined", "null",
// "true"/"false", the shortest round-trippable decimal for numbers (or
// "NaN"/"Infinity"/"-Infinity"), the text itself for strings.
func (v Value) ToString() string {
	switch v.kind {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.num)
	case TypeString:
		return v.str
	case TypeObject:
		if v.obj.call != nil {
			return "[Native: " + v.obj.name + "]"
		}
		return "[object Object]"
	}
	return "undefined"
}

// String implements fmt.Stringer; it is ToString.
func (v Value) String() string {
	return v.ToString()
}

// TypeOf returns the result of the typeof operator, including the
// historical "object" for null.
func (v Value) TypeOf() string {
	switch v.kind {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "object"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		if v.obj.call != nil {
			return "function"
		}
		return "object"
	}
	return "undefined"
}

// StrictEquals implements === semantics. NaN is not equal to itself;
// objects compare by identity.
func (v Value) StrictEquals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.num == other.num
	case TypeNumber:
		return v.num == other.num // NaN != NaN falls out of Go float compare
	case TypeString:
		return v.str == other.str
	case TypeObject:
		return v.obj == other.obj
	}
	return false
}

// Equals implements == semantics: strict equality within a type, null and
// undefined equal to each other, numeric coercion across the remaining
// primitive pairs.
func (v Value) Equals(other Value) bool {
	if v.kind == other.kind {
		return v.StrictEquals(other)
	}
	if v.IsNullish() && other.IsNullish() {
		return true
	}
	if v.IsNullish() || other.IsNullish() || v.kind == TypeObject || other.kind == TypeObject {
		return false
	}
	return v.ToFloat64() == other.ToFloat64()
}

// property looks up an own property on object values.
func (v Value) property(name string) (Value, bool) {
	if v.kind != TypeObject {
		return Value{}, false
	}
	p, ok := v.obj.props[name]
	return p, ok
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// formatNumber renders a float the way JavaScript prints numbers: integral
// values without a fraction, everything else as the shortest decimal that
// round-trips.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0" // covers negative zero as well
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
