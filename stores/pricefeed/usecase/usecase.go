package usecase

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/pricefeed"
	"github.com/x-xyz/nftauction/service/chainlink"
)

var timeNow = time.Now

type PriceFeedUseCaseCfg struct {
	Repo   pricefeed.Repo
	Reader chainlink.Reader
	Admin  domain.Address
}

type impl struct {
	repo   pricefeed.Repo
	reader chainlink.Reader
	admin  domain.Address
}

func New(cfg *PriceFeedUseCaseCfg) pricefeed.Usecase {
	return &impl{
		repo:   cfg.Repo,
		reader: cfg.Reader,
		admin:  cfg.Admin,
	}
}

func (im *impl) SetPriceFeed(c ctx.Ctx, caller, currency domain.Address, params pricefeed.SetParams) (*pricefeed.Feed, error) {
	if !caller.Equals(im.admin) {
		return nil, pricefeed.ErrOnlyAdminSet
	}
	if !currency.IsValid() || !params.FeedAddress.IsValid() || params.FeedAddress.IsNative() {
		return nil, domain.ErrInvalidAddress
	}

	decimals := domain.EtherDecimals
	if prev, err := im.repo.FindOne(c, currency); err == nil {
		decimals = prev.TokenDecimals
	} else if !errors.Is(err, domain.ErrNotFound) {
		c.WithFields(log.Fields{"err": err, "currency": currency}).Error("repo.FindOne failed")
		return nil, err
	}
	if params.TokenDecimals != nil {
		decimals = *params.TokenDecimals
	}
	if decimals < 0 || decimals > pricefeed.MaxTokenDecimals {
		return nil, pricefeed.ErrInvalidDecimals
	}

	feed := &pricefeed.Feed{
		Currency:      currency.ToLower(),
		FeedAddress:   params.FeedAddress.ToLower(),
		TokenDecimals: decimals,
		UpdatedAt:     timeNow().UTC(),
	}
	if err := im.repo.Upsert(c, feed); err != nil {
		c.WithFields(log.Fields{"err": err, "feed": feed}).Error("repo.Upsert failed")
		return nil, err
	}

	c.WithFields(log.Fields{
		"currency": feed.Currency,
		"feed":     feed.FeedAddress,
		"decimals": feed.TokenDecimals,
	}).Info("price feed set")
	return feed, nil
}

func (im *impl) GetFeed(c ctx.Ctx, currency domain.Address) (*pricefeed.Feed, error) {
	feed, err := im.repo.FindOne(c, currency)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoPriceFeed
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency}).Error("repo.FindOne failed")
		return nil, err
	}
	return feed, nil
}

func (im *impl) FindAll(c ctx.Ctx) ([]*pricefeed.Feed, error) {
	feeds, err := im.repo.FindAll(c)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return feeds, nil
}

func (im *impl) LatestAnswer(c ctx.Ctx, currency domain.Address) (*pricefeed.Answer, error) {
	feed, err := im.GetFeed(c, currency)
	if err != nil {
		return nil, err
	}
	return im.latestAnswer(c, feed)
}

func (im *impl) latestAnswer(c ctx.Ctx, feed *pricefeed.Feed) (*pricefeed.Answer, error) {
	round, err := im.reader.LatestRound(c, feed.FeedAddress)
	if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"currency": feed.Currency,
			"feed":     feed.FeedAddress,
		}).Error("reader.LatestRound failed")
		return nil, err
	}
	if round.Answer == nil || round.Answer.Sign() <= 0 {
		c.WithFields(log.Fields{
			"currency": feed.Currency,
			"feed":     feed.FeedAddress,
			"answer":   round.Answer,
		}).Warn("non positive answer")
		return nil, pricefeed.ErrInvalidAnswer
	}

	return &pricefeed.Answer{
		Currency:  feed.Currency,
		Answer:    round.Answer,
		Decimals:  round.Decimals,
		UpdatedAt: round.UpdatedAt,
	}, nil
}

func (im *impl) Normalize(c ctx.Ctx, currency domain.Address, amount domain.Wei) (decimal.Decimal, error) {
	if err := amount.Validate(); err != nil {
		return decimal.Zero, err
	}

	feed, err := im.GetFeed(c, currency)
	if err != nil {
		return decimal.Zero, xerrors.Errorf("currency %s: %w", currency, err)
	}

	answer, err := im.latestAnswer(c, feed)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromBigInt(amount.Big(), -feed.TokenDecimals).Mul(answer.Price()), nil
}
