package sale

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrInvalidAmount is returned for amounts that are not plain decimals or need more than 128 bits.
var ErrInvalidAmount = errors.New("InvalidAmount")

const amountBits = 128

// Amount is a fungible-token quantity in [0, 2^128). It travels as a decimal string on
// the wire. The zero value is zero and amounts compare with ==.
type Amount struct {
	v uint256.Int
}

func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount reads a decimal amount, rejecting signs, blanks and values above 2^128-1.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Amount{}, ErrInvalidAmount
		}
	}
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if a.v.BitLen() > amountBits {
		return Amount{}, ErrInvalidAmount
	}
	return a, nil
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) String() string {
	return a.v.Dec()
}

// words splits the amount into its high and low 64-bit halves.
func (a Amount) words() (hi, lo uint64) {
	return a.v[1], a.v[0]
}

func amountFromWords(hi, lo uint64) Amount {
	var a Amount
	a.v[1], a.v[0] = hi, lo
	return a
}
