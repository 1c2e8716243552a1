package value

import (
	"fmt"
	"math/big"
	"strings"

	verr "github.com/nihei9/wavelabel/error"
)

// Digit is one position of a bit vector.
type Digit byte

const (
	Zero          = Digit('0')
	One           = Digit('1')
	Unknown       = Digit('x')
	HighImpedance = Digit('z')
	DontCare      = Digit('-')
	WeakHigh      = Digit('h')
	WeakLow       = Digit('l')
	WeakUnknown   = Digit('w')
	Uninitialized = Digit('u')
)

func (d Digit) String() string {
	return string(d)
}

// IsDefined reports whether d is a plain 0 or 1.
func (d Digit) IsDefined() bool {
	return d == Zero || d == One
}

// States is the size of the digit alphabet a binary literal may use.
type States int

const (
	TwoState  = States(2)
	FourState = States(4)
	NineState = States(9)
)

func (s States) String() string {
	switch s {
	case FourState:
		return "four-state"
	case NineState:
		return "nine-state"
	}
	return "two-state"
}

// Allows reports whether d belongs to the alphabet. The zero value of States behaves as TwoState.
func (s States) Allows(d Digit) bool {
	switch d {
	case Zero, One:
		return true
	case Unknown, HighImpedance:
		return s == FourState || s == NineState
	case DontCare, WeakHigh, WeakLow, WeakUnknown, Uninitialized:
		return s == NineState
	}
	return false
}

// Value is a fixed-width bit vector, most significant digit first. Values are comparable and can be used as map
// keys. Two values are equal only when their digit sequences are equal, so widths must be normalized first.
type Value struct {
	digits string
}

// FromString makes a value from a digit string as a waveform source reports it. Upper-case digits are folded.
func FromString(s string, states States) (Value, error) {
	if s == "" {
		return Value{}, verr.Detail(verr.ErrMalformedLiteral, "empty digit string")
	}
	digits := strings.ToLower(s)
	for i := 0; i < len(digits); i++ {
		if !states.Allows(Digit(digits[i])) {
			return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%q is not a %v digit", digits[i], states)
		}
	}
	return Value{digits: digits}, nil
}

// MustFromString is like FromString but panics on an error.
func MustFromString(s string) Value {
	v, err := FromString(s, NineState)
	if err != nil {
		panic(err)
	}
	return v
}

// FromUint makes a width-digit value holding n. When n needs more than width bits, the width grows to fit.
func FromUint(n uint64, width int) Value {
	digits := new(big.Int).SetUint64(n).Text(2)
	if len(digits) < width {
		digits = strings.Repeat("0", width-len(digits)) + digits
	}
	return Value{digits: digits}
}

func fromBig(n *big.Int) Value {
	return Value{digits: n.Text(2)}
}

func (v Value) Width() int {
	return len(v.digits)
}

func (v Value) String() string {
	return v.digits
}

// Digit returns the i-th digit counted from the most significant one.
func (v Value) Digit(i int) Digit {
	return Digit(v.digits[i])
}

// IsDefined reports whether every digit is 0 or 1.
func (v Value) IsDefined() bool {
	for i := 0; i < len(v.digits); i++ {
		if !Digit(v.digits[i]).IsDefined() {
			return false
		}
	}
	return len(v.digits) > 0
}

// Big returns the numeric value. ok is false when v contains a multi-valued digit.
func (v Value) Big() (n *big.Int, ok bool) {
	if !v.IsDefined() {
		return nil, false
	}
	n, ok = new(big.Int).SetString(v.digits, 2)
	return n, ok
}

// ZeroExtend pads v with the defined-zero digit on its most significant side until it is width digits wide.
func (v Value) ZeroExtend(width int) (Value, error) {
	if v.Width() > width {
		return Value{}, verr.Detail(verr.ErrWidthOverflow, "%v needs %v bits, but the width is %v", v.digits, v.Width(), width)
	}
	if v.Width() == width {
		return v, nil
	}
	return Value{digits: strings.Repeat(string(Zero), width-v.Width()) + v.digits}, nil
}

// Extend applies the VCD extension rule used for values coming from a waveform: a leading 0 or 1 extends with 0,
// a leading x with x and a leading z with z. Other values and values that are already wide enough are returned
// unchanged.
func (v Value) Extend(width int) Value {
	if v.Width() >= width || v.Width() == 0 {
		return v
	}
	var pad Digit
	switch d := v.Digit(0); d {
	case Zero, One:
		pad = Zero
	case Unknown, HighImpedance:
		pad = d
	default:
		return v
	}
	return Value{digits: strings.Repeat(string(pad), width-v.Width()) + v.digits}
}

// Format renders v as a literal in radix r. Only binary can represent multi-valued digits.
func (v Value) Format(r Radix) (string, error) {
	if r == Binary {
		return r.Prefix() + v.digits, nil
	}
	n, ok := v.Big()
	if !ok {
		return "", verr.Detail(verr.ErrMalformedLiteral, "%v has multi-valued digits and cannot be written in %v", v.digits, r)
	}
	return r.Prefix() + n.Text(int(r)), nil
}

// Compare orders values by width and then digit by digit.
func Compare(a, b Value) int {
	switch {
	case a.Width() < b.Width():
		return -1
	case a.Width() > b.Width():
		return 1
	}
	return strings.Compare(a.digits, b.digits)
}

func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.digits), nil
}

func (v *Value) UnmarshalText(text []byte) error {
	w, err := FromString(string(text), NineState)
	if err != nil {
		return fmt.Errorf("cannot unmarshal a value: %w", err)
	}
	*v = w
	return nil
}
