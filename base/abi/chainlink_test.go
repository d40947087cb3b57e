package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func TestChainlinkFeedABI(t *testing.T) {
	req := require.New(t)

	for _, m := range []string{"decimals", "description", "latestAnswer", "latestRoundData"} {
		_, ok := ChainlinkFeedABI.Methods[m]
		req.True(ok, m)
	}

	// round trip a latestRoundData response
	method := ChainlinkFeedABI.Methods["latestRoundData"]
	packed, err := method.Outputs.Pack(
		big.NewInt(7),
		big.NewInt(200000000000),
		big.NewInt(1700000000),
		big.NewInt(1700000005),
		big.NewInt(7),
	)
	req.NoError(err)

	out, err := ChainlinkFeedABI.Unpack("latestRoundData", packed)
	req.NoError(err)
	req.Len(out, 5)
	answer := *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	req.Equal("200000000000", answer.String())
}
