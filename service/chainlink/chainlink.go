package chainlink

import (
	"math/big"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

// Round is one aggregator report
type Round struct {
	RoundId   *big.Int  `json:"roundId"`
	Answer    *big.Int  `json:"answer"`
	Decimals  uint8     `json:"decimals"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reader reads the latest round of a price feed
type Reader interface {
	LatestRound(c ctx.Ctx, feedAddress domain.Address) (*Round, error)
}
