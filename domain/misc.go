package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	Big0  = big.NewInt(0)
	Big1  = big.NewInt(1)
	Big10 = big.NewInt(10)
)

type SortDir int8

const (
	SortDirAsc  SortDir = 1
	SortDirDesc SortDir = -1
)

// Address is a hex encoded account or contract address. Stored lowercased.
type Address string

// EmptyAddress is the zero address, used as the currency id of the native asset
const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

// IsNative reports whether a is the zero address
func (a Address) IsNative() bool {
	return a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) ToCommon() common.Address {
	return common.HexToAddress(string(a))
}

// IsValid accepts both checksummed and lowercased addresses
func (a Address) IsValid() bool {
	if !common.IsHexAddress(string(a)) {
		return false
	}
	return strings.EqualFold(common.HexToAddress(string(a)).Hex(), string(a))
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) IsValid() bool {
	n, ok := new(big.Int).SetString(string(i), 10)
	return ok && n.Sign() >= 0
}

// Canonical drops leading zeros so "01" and "1" name the same token.
// Invalid ids are returned as is.
func (i TokenId) Canonical() TokenId {
	n, ok := new(big.Int).SetString(string(i), 10)
	if !ok {
		return i
	}
	return TokenId(n.String())
}
