package chainlink

import (
	"math/big"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

// Fixed serves preset answers, standing in for aggregators on devnets
type Fixed struct {
	mu      sync.RWMutex
	answers map[domain.Address]*Round
}

func NewFixed() *Fixed {
	return &Fixed{answers: map[domain.Address]*Round{}}
}

// Set publishes a new answer for feed, like MockV3Aggregator.updateAnswer
func (f *Fixed) Set(feed domain.Address, answer *big.Int, decimals uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	roundId := big.NewInt(1)
	if prev, ok := f.answers[feed.ToLower()]; ok {
		roundId = new(big.Int).Add(prev.RoundId, domain.Big1)
	}
	f.answers[feed.ToLower()] = &Round{
		RoundId:   roundId,
		Answer:    new(big.Int).Set(answer),
		Decimals:  decimals,
		UpdatedAt: time.Now().UTC(),
	}
}

func (f *Fixed) LatestRound(c ctx.Ctx, feed domain.Address) (*Round, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.answers[feed.ToLower()]
	if !ok {
		return nil, xerrors.Errorf("feed %s: %w", feed, domain.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}
