package usecase

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/base/ptr"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/custody"
	"github.com/x-xyz/nftauction/domain/keys"
	"github.com/x-xyz/nftauction/domain/pricefeed"
)

const defaultLockTtl = 30 * time.Second

var (
	timeNow = time.Now
	met     = metrics.New("auction")
)

type AuctionUseCaseCfg struct {
	Repo       auction.Repo
	BidRepo    auction.BidRepo
	Custody    custody.Usecase
	PriceFeed  pricefeed.Usecase
	Transactor domain.Transactor
	Locker     domain.Locker
	Admin      domain.Address
	// LockTtl bounds how long a crashed instance can block an auction
	LockTtl time.Duration
}

type impl struct {
	repo       auction.Repo
	bid        auction.BidRepo
	custody    custody.Usecase
	pricefeed  pricefeed.Usecase
	transactor domain.Transactor
	locker     domain.Locker
	admin      domain.Address
	lockTtl    time.Duration
}

func New(cfg *AuctionUseCaseCfg) auction.Usecase {
	lockTtl := cfg.LockTtl
	if lockTtl <= 0 {
		lockTtl = defaultLockTtl
	}
	return &impl{
		repo:       cfg.Repo,
		bid:        cfg.BidRepo,
		custody:    cfg.Custody,
		pricefeed:  cfg.PriceFeed,
		transactor: cfg.Transactor,
		locker:     cfg.Locker,
		admin:      cfg.Admin.ToLower(),
		lockTtl:    lockTtl,
	}
}

func (im *impl) CreateAuction(c ctx.Ctx, caller domain.Address, params auction.CreateParams) (*auction.Auction, error) {
	if !caller.Equals(im.admin) {
		met.BumpSum("create.reject", 1, "reason", "admin")
		return nil, auction.ErrOnlyAdminCreate
	}
	if params.Duration <= uint64(auction.MinDuration/time.Second) {
		met.BumpSum("create.reject", 1, "reason", "duration")
		return nil, auction.ErrDurationTooShort
	}
	if err := params.StartingPrice.Validate(); err != nil {
		return nil, err
	}
	if params.StartingPrice.IsZero() {
		met.BumpSum("create.reject", 1, "reason", "price")
		return nil, auction.ErrZeroStartingPrice
	}
	if !params.NftContract.IsValid() {
		return nil, domain.ErrInvalidAddress
	}
	if !params.TokenId.IsValid() {
		return nil, domain.ErrBadParamInput
	}

	now := timeNow()
	if params.Duration > uint64(math.MaxInt64-now.Unix()) {
		met.BumpSum("create.reject", 1, "reason", "duration")
		return nil, auction.ErrDurationTooLong
	}
	a := &auction.Auction{
		Seller:        caller.ToLower(),
		NftContract:   params.NftContract.ToLower(),
		TokenId:       params.TokenId.Canonical(),
		StartingPrice: params.StartingPrice,
		Duration:      params.Duration,
		StartTime:     now.Unix(),
		HighestBidder: domain.EmptyAddress,
		HighestBid:    domain.ZeroWei,
		TokenAddress:  domain.EmptyAddress,
		Ended:         false,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}

	if err := im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		id, err := im.repo.NextId(c)
		if err != nil {
			c.WithField("err", err).Error("repo.NextId failed")
			return err
		}
		a.Id = id

		if err := im.custody.TransferNft(c, im.custody.Escrow(), a.NftContract, a.TokenId, caller, im.custody.Escrow()); err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"contract": a.NftContract,
				"tokenId":  a.TokenId,
			}).Warn("custody.TransferNft failed")
			return err
		}

		if err := im.repo.Insert(c, a); err != nil {
			c.WithFields(log.Fields{"err": err, "id": a.Id}).Error("repo.Insert failed")
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	met.BumpSum("created", 1)
	c.WithFields(log.Fields{
		"id":            a.Id,
		"contract":      a.NftContract,
		"tokenId":       a.TokenId,
		"startingPrice": a.StartingPrice,
		"duration":      a.Duration,
	}).Info("auction created")
	return a, nil
}

func (im *impl) BidWith(c ctx.Ctx, caller domain.Address, id uint64, params auction.BidParams) (*auction.Auction, error) {
	defer met.BumpTime("bid.time").End()

	currency := params.Currency
	if currency.IsEmpty() {
		currency = domain.EmptyAddress
	}
	if !currency.IsValid() {
		return nil, domain.ErrInvalidAddress
	}
	currency = currency.ToLower()

	amount, err := bidAmount(currency, params)
	if err != nil {
		return nil, err
	}

	unlock, err := im.locker.Lock(c, keys.AuctionLockKey(id), im.lockTtl)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Warn("locker.Lock failed")
		return nil, err
	}
	defer unlock()

	a, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	if !a.IsOpenAt(timeNow()) {
		met.BumpSum("bid.reject", 1, "reason", "ended")
		return nil, auction.ErrAuctionEnded
	}

	value, err := im.pricefeed.Normalize(c, currency, amount)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency}).Warn("pricefeed.Normalize failed")
		return nil, err
	}
	if err := im.outbids(c, a, value); err != nil {
		met.BumpSum("bid.reject", 1, "reason", "low")
		return nil, err
	}

	escrow := im.custody.Escrow()
	now := timeNow().UTC()
	if err := im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		var err error
		if currency.IsNative() {
			err = im.custody.Transfer(c, caller, currency, escrow, amount)
		} else {
			err = im.custody.TransferFrom(c, escrow, currency, caller, escrow, amount)
		}
		if err != nil {
			c.WithFields(log.Fields{"err": err, "bidder": caller, "currency": currency}).Warn("collect bid failed")
			return err
		}

		if a.HasBid() {
			if err := im.custody.Transfer(c, escrow, a.TokenAddress, a.HighestBidder, a.HighestBid); err != nil {
				c.WithFields(log.Fields{"err": err, "bidder": a.HighestBidder}).Error("refund failed")
				return err
			}
		}

		bidder := caller.ToLower()
		if err := im.repo.Patch(c, id, &auction.Patchable{
			HighestBidder: &bidder,
			HighestBid:    &amount,
			TokenAddress:  &currency,
			UpdatedAt:     ptr.Time(now),
		}); err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("repo.Patch failed")
			return err
		}

		if err := im.bid.Insert(c, &auction.Bid{
			Id:        uuid.NewString(),
			AuctionId: id,
			Bidder:    bidder,
			Amount:    amount,
			Currency:  currency,
			UsdValue:  value.String(),
			CreatedAt: now,
		}); err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("bid.Insert failed")
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	refunded := a.HighestBidder
	a.HighestBidder = caller.ToLower()
	a.HighestBid = amount
	a.TokenAddress = currency
	a.UpdatedAt = now

	met.BumpSum("bid", 1, "currency", string(currency))
	c.WithFields(log.Fields{
		"id":       id,
		"bidder":   a.HighestBidder,
		"amount":   amount,
		"currency": currency,
		"usd":      value.String(),
		"refunded": refunded,
	}).Info("bid accepted")
	return a, nil
}

// bidAmount picks the amount actually paid. Native bids pay what they send.
func bidAmount(currency domain.Address, params auction.BidParams) (domain.Wei, error) {
	native := params.NativeValue
	if native == "" {
		native = domain.ZeroWei
	}
	if err := native.Validate(); err != nil {
		return "", err
	}

	if currency.IsNative() {
		if native.IsZero() {
			return "", auction.ErrNativeValueRequired
		}
		return native, nil
	}

	if !native.IsZero() {
		return "", auction.ErrUnexpectedNativeValue
	}
	if err := params.Amount.Validate(); err != nil {
		return "", err
	}
	if params.Amount.IsZero() {
		return "", auction.ErrBidTooLow
	}
	return params.Amount, nil
}

// outbids checks value against the starting price and the standing bid, both
// converted to USD with the latest answers
func (im *impl) outbids(c ctx.Ctx, a *auction.Auction, value decimal.Decimal) error {
	start, err := im.pricefeed.Normalize(c, domain.EmptyAddress, a.StartingPrice)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": a.Id}).Warn("normalize starting price failed")
		return err
	}
	if value.LessThan(start) {
		return auction.ErrBidTooLow
	}

	if !a.HasBid() {
		return nil
	}
	highest, err := im.pricefeed.Normalize(c, a.TokenAddress, a.HighestBid)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": a.Id}).Warn("normalize highest bid failed")
		return err
	}
	if !value.GreaterThan(highest) {
		return auction.ErrBidTooLow
	}
	return nil
}

func (im *impl) EndAuction(c ctx.Ctx, caller domain.Address, id uint64) (*auction.Settlement, error) {
	if !caller.Equals(im.admin) {
		met.BumpSum("end.reject", 1, "reason", "admin")
		return nil, auction.ErrOnlyAdminEnd
	}

	unlock, err := im.locker.Lock(c, keys.AuctionLockKey(id), im.lockTtl)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Warn("locker.Lock failed")
		return nil, err
	}
	defer unlock()

	a, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	if a.Ended {
		met.BumpSum("end.reject", 1, "reason", "closed")
		return nil, auction.ErrAuctionNotEnded.Because(auction.ErrAuctionClosed)
	}
	now := timeNow()
	if now.Unix() < a.EndTime() {
		met.BumpSum("end.reject", 1, "reason", "deadline")
		return nil, auction.ErrAuctionNotEnded.Because(auction.ErrDeadlineNotReached)
	}

	s := &auction.Settlement{
		AuctionId:   a.Id,
		Seller:      a.Seller,
		NftReceiver: a.Seller,
		Proceeds:    domain.ZeroWei,
		Currency:    a.TokenAddress,
		EndedAt:     now.UTC(),
	}
	if a.HasBid() {
		s.NftReceiver = a.HighestBidder
		s.Proceeds = a.HighestBid
	}

	escrow := im.custody.Escrow()
	if err := im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.repo.MarkEnded(c, id, s.EndedAt); errors.Is(err, domain.ErrConflict) {
			return auction.ErrAuctionNotEnded.Because(auction.ErrAuctionClosed)
		} else if err != nil {
			c.WithFields(log.Fields{"err": err, "id": id}).Error("repo.MarkEnded failed")
			return err
		}

		if err := im.custody.TransferNft(c, escrow, a.NftContract, a.TokenId, escrow, s.NftReceiver); err != nil {
			c.WithFields(log.Fields{"err": err, "id": id, "to": s.NftReceiver}).Error("custody.TransferNft failed")
			return err
		}

		if !s.Proceeds.IsZero() {
			if err := im.custody.Transfer(c, escrow, s.Currency, s.Seller, s.Proceeds); err != nil {
				c.WithFields(log.Fields{"err": err, "id": id, "seller": s.Seller}).Error("custody.Transfer failed")
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	met.BumpSum("ended", 1, "sold", boolTag(a.HasBid()))
	c.WithFields(log.Fields{
		"id":          id,
		"nftReceiver": s.NftReceiver,
		"proceeds":    s.Proceeds,
		"currency":    s.Currency,
	}).Info("auction ended")
	return s, nil
}

func (im *impl) Get(c ctx.Ctx, id uint64) (*auction.Auction, error) {
	a, err := im.repo.FindOne(c, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, auction.ErrAuctionNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("repo.FindOne failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptions) ([]*auction.Auction, error) {
	res, err := im.repo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) ListBids(c ctx.Ctx, id uint64, opts ...auction.FindAllOptions) ([]*auction.Bid, error) {
	if _, err := im.Get(c, id); err != nil {
		return nil, err
	}
	res, err := im.bid.FindAll(c, id, opts...)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("bid.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindExpired(c ctx.Ctx, now time.Time, limit int32) ([]*auction.Auction, error) {
	return im.FindAll(c,
		auction.WithEnded(false),
		auction.WithEndTimeBefore(now.Unix()),
		auction.WithSort("id", domain.SortDirAsc),
		auction.WithPagination(0, limit),
	)
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
