package settler

import (
	"errors"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/nftauction/base/backoff"
	bCtx "github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/goroutine"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/keys"
)

const (
	defaultInterval = 10 * time.Second
	defaultLimit    = int32(100)
	defaultWorkers  = 8
)

var (
	timeNow = time.Now
	met     = metrics.New("settler")
)

type SettlerCfg struct {
	Auction auction.Usecase
	// Locker keeps concurrent settlers from listing the same batch
	Locker domain.Locker
	// Admin is the identity used to close auctions
	Admin    domain.Address
	Interval time.Duration
	Limit    int32
	Workers  int
}

// Settler closes auctions whose deadline has passed.
type Settler struct {
	auction   auction.Usecase
	locker    domain.Locker
	admin     domain.Address
	interval  time.Duration
	limit     int32
	workers   int
	stoppedCh chan interface{}
}

func New(cfg *SettlerCfg) *Settler {
	s := &Settler{
		auction:   cfg.Auction,
		locker:    cfg.Locker,
		admin:     cfg.Admin,
		interval:  cfg.Interval,
		limit:     cfg.Limit,
		workers:   cfg.Workers,
		stoppedCh: make(chan interface{}),
	}
	if s.interval <= 0 {
		s.interval = defaultInterval
	}
	if s.limit <= 0 {
		s.limit = defaultLimit
	}
	if s.workers <= 0 {
		s.workers = defaultWorkers
	}
	return s
}

// Start runs the settle loop until ctx is done. A panicking loop is restarted
// with exponential backoff.
func (s *Settler) Start(ctx bCtx.Ctx) {
	go func() {
		defer close(s.stoppedCh)
		goroutine.Supervise(ctx, backoff.NewExponential(time.Second, time.Minute), func() {
			s.loop(ctx)
		})
	}()
}

func (s *Settler) Wait() {
	<-s.stoppedCh
}

func (s *Settler) loop(ctx bCtx.Ctx) {
	nextTick := time.Second * 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(nextTick):
			// only a fully settled batch hints at more waiting behind it
			n, err := s.Settle(ctx)
			if err != nil || n < int(s.limit) {
				nextTick = s.interval
			} else {
				nextTick = time.Second * 0
			}
		}
	}
}

// Settle ends one batch of expired auctions and returns how many of them are
// closed now, counting those another caller closed first. Failed ones are
// left for the next round.
func (s *Settler) Settle(ctx bCtx.Ctx) (int, error) {
	unlock, err := s.locker.Lock(ctx, keys.RedisKey(keys.PfxSettler, "leader"), s.interval+time.Minute)
	if err != nil {
		ctx.WithField("err", err).Warn("locker.Lock failed")
		return 0, err
	}
	defer unlock()

	now := timeNow()
	expired, err := s.auction.FindExpired(ctx, now, s.limit)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"limit": s.limit,
		}).Error("auction.FindExpired failed")
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ctx.WithField("count", len(expired)).Info("settling expired auctions")

	b := goroutines.NewBatch(s.workers, goroutines.WithBatchSize(len(expired)))
	defer b.Close()
	for i := 0; i < len(expired); i++ {
		id := expired[i].Id
		b.Queue(func() (interface{}, error) {
			return s.auction.EndAuction(ctx, s.admin, id)
		})
	}
	b.QueueComplete()

	settled := 0
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			// another instance or a manual call closed it first
			if errors.Is(err, auction.ErrAuctionClosed) {
				settled++
				continue
			}
			ctx.WithField("err", err).Error("auction.EndAuction failed")
			met.BumpSum("end.failed", 1)
			continue
		}
		settlement := ret.Value().(*auction.Settlement)
		ctx.WithFields(log.Fields{
			"id":          settlement.AuctionId,
			"nftReceiver": settlement.NftReceiver,
			"proceeds":    settlement.Proceeds,
		}).Info("auction settled")
		met.BumpSum("end.succeeded", 1)
		settled++
	}

	return settled, nil
}
