// Package bignum provides an arbitrary-precision decimal type modeled on
// java.math.BigDecimal's scaled-integer representation: no ecosystem
// decimal library appears anywhere in the retrieval pack this module was
// built from, so this is grounded directly on the pack's pervasive use of
// math/big for arbitrary-precision arithmetic (see DESIGN.md).
package bignum

import (
	"fmt"
	"math/big"
	"strings"
)

var ten = big.NewInt(10)

// Decimal is an arbitrary-precision decimal number: value = unscaled *
// 10^(-scale), with scale always >= 0.
type Decimal struct {
	unscaled *big.Int
	scale    int
}

// Parse accepts the lexer's number grammar for decimals:
// [+-]? digit+ '.' digit+ ('e' digit+)?
// The '.' fraction is optional here: ParseInteger hands its dot-less,
// exponent-carrying literals to Parse as well.
func Parse(literal string) (*Decimal, error) {
	sign := ""
	rest := literal
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		if rest[0] == '-' {
			sign = "-"
		}
		rest = rest[1:]
	}

	mantissa := rest
	exponent := 0
	if idx := strings.IndexByte(rest, 'e'); idx >= 0 {
		mantissa = rest[:idx]
		expDigits := rest[idx+1:]
		var e big.Int
		if _, ok := e.SetString(expDigits, 10); !ok {
			return nil, fmt.Errorf("bignum: invalid exponent in %q", literal)
		}
		exponent = int(e.Int64())
	}

	intPart := mantissa
	fracPart := ""
	if idx := strings.IndexByte(mantissa, '.'); idx >= 0 {
		intPart = mantissa[:idx]
		fracPart = mantissa[idx+1:]
	}

	digits := intPart + fracPart
	unscaled, ok := new(big.Int).SetString(sign+digits, 10)
	if !ok {
		return nil, fmt.Errorf("bignum: invalid decimal literal %q", literal)
	}

	scale := len(fracPart) - exponent
	return normalize(unscaled, scale), nil
}

// ParseInteger accepts the lexer's number grammar for integers:
// [+-]? digit+ ('e' digit+)? — no '.' is present, but an exponent may be.
// Per spec.md §4.2, an integer literal containing 'e' is first parsed as
// a decimal and then truncated.
func ParseInteger(literal string) (*big.Int, error) {
	if !strings.ContainsRune(literal, 'e') {
		v, ok := new(big.Int).SetString(literal, 10)
		if !ok {
			return nil, fmt.Errorf("bignum: invalid integer literal %q", literal)
		}
		return v, nil
	}
	d, err := Parse(literal)
	if err != nil {
		return nil, err
	}
	return d.Truncate(), nil
}

func normalize(unscaled *big.Int, scale int) *Decimal {
	if scale < 0 {
		shift := new(big.Int).Exp(ten, big.NewInt(int64(-scale)), nil)
		unscaled = new(big.Int).Mul(unscaled, shift)
		scale = 0
	}
	return &Decimal{unscaled: unscaled, scale: scale}
}

// Truncate converts the Decimal to an integer, discarding any fractional
// digits (rounding toward zero), mirroring BigDecimal.toBigInteger().
func (d *Decimal) Truncate() *big.Int {
	if d.scale == 0 {
		return new(big.Int).Set(d.unscaled)
	}
	divisor := new(big.Int).Exp(ten, big.NewInt(int64(d.scale)), nil)
	q := new(big.Int)
	q.Quo(d.unscaled, divisor)
	return q
}

// String renders the Decimal the way BigDecimal's constructor-from-string
// round-trips simple literals: digits with a decimal point inserted scale
// places from the right.
func (d *Decimal) String() string {
	if d.scale == 0 {
		return d.unscaled.String()
	}

	neg := d.unscaled.Sign() < 0
	digits := new(big.Int).Abs(d.unscaled).String()
	for len(digits) <= d.scale {
		digits = "0" + digits
	}
	cut := len(digits) - d.scale
	s := digits[:cut] + "." + digits[cut:]
	if neg {
		s = "-" + s
	}
	return s
}
