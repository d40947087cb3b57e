package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

// EtherDecimals is the default token decimals, used for the native asset
const EtherDecimals int32 = 18

// Wei is an unsigned integer amount in a token's smallest unit, kept as a
// base 10 string so it survives bson and json without precision loss.
type Wei string

const ZeroWei = Wei("0")

func NewWei(v *big.Int) Wei {
	if v == nil {
		return ZeroWei
	}
	return Wei(v.String())
}

// Big returns the amount, or zero when w is empty or malformed
func (w Wei) Big() *big.Int {
	n, ok := new(big.Int).SetString(string(w), 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

func (w Wei) Validate() error {
	n, ok := new(big.Int).SetString(string(w), 10)
	if !ok || n.Sign() < 0 {
		return xerrors.Errorf("%w: amount %q", ErrInvalidNumberFormat, string(w))
	}
	return nil
}

func (w Wei) IsZero() bool {
	return w.Big().Sign() == 0
}

func (w Wei) Cmp(o Wei) int {
	return w.Big().Cmp(o.Big())
}

func (w Wei) Add(o Wei) Wei {
	return NewWei(new(big.Int).Add(w.Big(), o.Big()))
}

func (w Wei) Sub(o Wei) Wei {
	return NewWei(new(big.Int).Sub(w.Big(), o.Big()))
}

func (w Wei) String() string {
	if w == "" {
		return "0"
	}
	return string(w)
}

// ParseUnits converts a human decimal like "1.5" into the integer amount with
// the given decimals, ethers.parseUnits style. Extra fraction digits are rejected.
func ParseUnits(s string, decimals int32) (Wei, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", xerrors.Errorf("%w: %s", ErrInvalidNumberFormat, err)
	}
	if d.IsNegative() {
		return "", xerrors.Errorf("%w: negative amount %s", ErrInvalidNumberFormat, s)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return "", xerrors.Errorf("%w: too many decimals in %s", ErrInvalidNumberFormat, s)
	}
	return NewWei(scaled.BigInt()), nil
}

// MustParseEther is ParseUnits(s, 18) for constants and tests
func MustParseEther(s string) Wei {
	w, err := ParseUnits(s, EtherDecimals)
	if err != nil {
		panic(err)
	}
	return w
}

// FormatUnits is the inverse of ParseUnits
func FormatUnits(w Wei, decimals int32) string {
	return decimal.NewFromBigInt(w.Big(), -decimals).String()
}
