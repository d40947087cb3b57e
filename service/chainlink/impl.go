package chainlink

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/xerrors"

	baseabi "github.com/x-xyz/nftauction/base/abi"
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/keys"
	"github.com/x-xyz/nftauction/service/cache"
	"github.com/x-xyz/nftauction/service/chain"
)

type impl struct {
	chainClient chain.Client
	cache       cache.Service
}

// New reads aggregators over rpc. Rounds are cached in c for its ttl, feeds
// update at most every few minutes so a short ttl saves most calls.
func New(chainClient chain.Client, c cache.Service) Reader {
	return &impl{
		chainClient: chainClient,
		cache:       c,
	}
}

func (im *impl) LatestRound(c ctx.Ctx, feed domain.Address) (*Round, error) {
	res := Round{}
	key := keys.RedisKey(feed.ToLowerStr(), "latest")

	if err := im.cache.GetByFunc(c, key, &res, func() (interface{}, error) {
		return im.latestRound(c, feed)
	}); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"feed": feed,
		}).Error("cache.GetByFunc failed")
		return nil, err
	}
	return &res, nil
}

func (im *impl) latestRound(c ctx.Ctx, feed domain.Address) (*Round, error) {
	addr := feed.ToCommon()

	out, err := im.chainClient.Call(c, addr, nil, baseabi.ChainlinkFeedABI, "latestRoundData")
	if err != nil {
		c.WithFields(log.Fields{"err": err, "feed": feed}).Error("latestRoundData failed")
		return nil, err
	}
	if len(out) != 5 {
		return nil, xerrors.Errorf("latestRoundData returned %d values", len(out))
	}

	decOut, err := im.chainClient.Call(c, addr, nil, baseabi.ChainlinkFeedABI, "decimals")
	if err != nil {
		c.WithFields(log.Fields{"err": err, "feed": feed}).Error("decimals failed")
		return nil, err
	}

	roundId := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	answer := *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	updatedAt := *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	decimals := *abi.ConvertType(decOut[0], new(uint8)).(*uint8)

	return &Round{
		RoundId:   roundId,
		Answer:    answer,
		Decimals:  decimals,
		UpdatedAt: time.Unix(updatedAt.Int64(), 0).UTC(),
	}, nil
}
