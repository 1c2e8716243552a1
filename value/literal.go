package value

import (
	"math/big"
	"strings"

	verr "github.com/nihei9/wavelabel/error"
)

type Radix int

const (
	Binary  = Radix(2)
	Octal   = Radix(8)
	Decimal = Radix(10)
	Hex     = Radix(16)
)

func (r Radix) String() string {
	switch r {
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	case Decimal:
		return "decimal"
	case Hex:
		return "hexadecimal"
	}
	return "unknown radix"
}

// Prefix returns the prefix a literal uses to select r explicitly. Decimal has none.
func (r Radix) Prefix() string {
	switch r {
	case Binary:
		return "0b"
	case Octal:
		return "0o"
	case Hex:
		return "0x"
	}
	return ""
}

func (r Radix) isDigit(c byte) bool {
	var n int
	switch {
	case c >= '0' && c <= '9':
		n = int(c - '0')
	case c >= 'a' && c <= 'f':
		n = int(c-'a') + 10
	default:
		return false
	}
	return n < int(r)
}

// LiteralOptions configures ParseLiteral for one file format.
type LiteralOptions struct {
	// States limits the digits a binary literal may use.
	States States

	// BareRadix is the radix of a literal without a prefix. The zero value means Decimal.
	BareRadix Radix

	// BareFallback is tried when a bare literal is not valid in BareRadix. The zero value disables it.
	BareFallback Radix
}

func (o LiteralOptions) bareRadix() Radix {
	if o.BareRadix == 0 {
		return Decimal
	}
	return o.BareRadix
}

// ParseLiteral parses a number literal into a value. The width of the value is the number of digits for binary
// literals and the bit length of the number for the other radixes, where 0 is one bit wide.
func ParseLiteral(tok string, opts LiteralOptions) (Value, error) {
	if tok == "" {
		return Value{}, verr.Detail(verr.ErrMalformedLiteral, "empty literal")
	}

	if len(tok) >= 2 && tok[0] == '0' {
		var r Radix
		switch tok[1] {
		case 'b', 'B':
			r = Binary
		case 'o', 'O':
			r = Octal
		case 'x', 'X':
			r = Hex
		}
		if r != 0 {
			digits := cleanDigits(tok[2:])
			if digits == "" {
				return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%v has no digits after its prefix", tok)
			}
			return parseDigits(tok, digits, r, opts.States)
		}
	}

	digits := cleanDigits(tok)
	if digits == "" {
		return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%v has no digits", tok)
	}
	v, err := parseDigits(tok, digits, opts.bareRadix(), opts.States)
	if err != nil && opts.BareFallback != 0 {
		if fv, ferr := parseDigits(tok, digits, opts.BareFallback, opts.States); ferr == nil {
			return fv, nil
		}
	}
	return v, err
}

func cleanDigits(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

func parseDigits(tok, digits string, r Radix, states States) (Value, error) {
	if r == Binary {
		for i := 0; i < len(digits); i++ {
			if !states.Allows(Digit(digits[i])) {
				return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%v: %q is not a %v binary digit", tok, digits[i], states)
			}
		}
		return Value{digits: digits}, nil
	}

	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if r.isDigit(c) {
			continue
		}
		if NineState.Allows(Digit(c)) {
			return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%v: multi-valued digit %q is only allowed in binary literals", tok, c)
		}
		return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%v: %q is not a %v digit", tok, c, r)
	}
	n, ok := new(big.Int).SetString(digits, int(r))
	if !ok {
		return Value{}, verr.Detail(verr.ErrMalformedLiteral, "%v is not a %v number", tok, r)
	}
	return fromBig(n), nil
}
