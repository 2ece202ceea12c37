package runtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the dynamic type of a value.
type Kind int8

// Value kinds of the subject language.
const (
	Undefined Kind = iota
	Null
	Number
	String
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a dynamically typed value. The zero value is undefined.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Undef returns the undefined value.
func Undef() Value { return Value{} }

// NullValue returns null.
func NullValue() Value { return Value{kind: Null} }

// Num wraps a number.
func Num(f float64) Value { return Value{kind: Number, num: f} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: String, str: s} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: Boolean, b: b} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined is a predicate for undefined.
func (v Value) IsUndefined() bool { return v.kind == Undefined }

// IsNullish is true for null and undefined.
func (v Value) IsNullish() bool { return v.kind == Undefined || v.kind == Null }

// TypeOf returns the result of the typeof operator.
func (v Value) TypeOf() string {
	if v.kind == Null {
		return "object"
	}
	return v.kind.String()
}

// String converts a value to its textual form, as console output shows it.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Number:
		return FormatNumber(v.num)
	case String:
		return v.str
	case Boolean:
		return strconv.FormatBool(v.b)
	}
	return "undefined"
}

// ToNumber converts a value to a number.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case Null:
		return 0
	case Number:
		return v.num
	case String:
		return StringToNumber(v.str)
	case Boolean:
		if v.b {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// Truthy converts a value to a boolean.
func (v Value) Truthy() bool {
	switch v.kind {
	case Number:
		return v.num != 0 && !math.IsNaN(v.num)
	case String:
		return v.str != ""
	case Boolean:
		return v.b
	}
	return false
}

// StrictEquals implements ===.
func (v Value) StrictEquals(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case Number:
		return v.num == w.num // NaN never equals, +0 equals -0
	case String:
		return v.str == w.str
	case Boolean:
		return v.b == w.b
	}
	return true
}

// LooseEquals implements ==, with type coercion between numbers, strings and
// booleans. null and undefined equal each other and nothing else.
func (v Value) LooseEquals(w Value) bool {
	if v.kind == w.kind {
		return v.StrictEquals(w)
	}
	if v.IsNullish() || w.IsNullish() {
		return v.IsNullish() && w.IsNullish()
	}
	if v.kind == Boolean {
		return Num(v.ToNumber()).LooseEquals(w)
	}
	if w.kind == Boolean {
		return v.LooseEquals(Num(w.ToNumber()))
	}
	return v.ToNumber() == w.ToNumber()
}

func (v Value) GoString() string {
	if v.kind == String {
		return strconv.Quote(v.str)
	}
	return v.String()
}

// FormatNumber renders a number the way the subject language prints it:
// integers without fraction, exponent notation for very large and very small
// magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StringToNumber converts numeric text; anything else is NaN.
func StringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.ContainsAny(s, "_xXiInN") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
