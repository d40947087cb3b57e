package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/memtx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/pricefeed"
)

var mockCtx = ctx.Background()

const (
	usdc    = domain.Address("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	ethFeed = domain.Address("0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
)

type memorySuite struct {
	suite.Suite
	repo pricefeed.Repo
}

func TestMemory(t *testing.T) {
	suite.Run(t, new(memorySuite))
}

func (s *memorySuite) SetupTest() {
	s.repo = NewMemory()
}

func (s *memorySuite) TestUpsertAndFind() {
	_, err := s.repo.FindOne(mockCtx, usdc)
	s.ErrorIs(err, domain.ErrNotFound)

	s.Require().NoError(s.repo.Upsert(mockCtx, &pricefeed.Feed{Currency: usdc, FeedAddress: ethFeed, TokenDecimals: 6}))
	s.Require().NoError(s.repo.Upsert(mockCtx, &pricefeed.Feed{Currency: domain.EmptyAddress, FeedAddress: ethFeed, TokenDecimals: 18}))

	feed, err := s.repo.FindOne(mockCtx, usdc.ToLower())
	s.Require().NoError(err)
	s.Equal(int32(6), feed.TokenDecimals)
	s.Equal(ethFeed.ToLower(), feed.FeedAddress)

	feeds, err := s.repo.FindAll(mockCtx)
	s.Require().NoError(err)
	s.Len(feeds, 2)
	s.Equal(domain.EmptyAddress, feeds[0].Currency)
}

func (s *memorySuite) TestRollback() {
	s.Require().NoError(s.repo.Upsert(mockCtx, &pricefeed.Feed{Currency: usdc, FeedAddress: ethFeed, TokenDecimals: 6}))

	errAbort := errors.New("abort")
	err := memtx.New().RunWithTransaction(mockCtx, func(c ctx.Ctx) error {
		if err := s.repo.Upsert(c, &pricefeed.Feed{Currency: usdc, FeedAddress: ethFeed, TokenDecimals: 8}); err != nil {
			return err
		}
		if err := s.repo.Upsert(c, &pricefeed.Feed{Currency: domain.EmptyAddress, FeedAddress: ethFeed}); err != nil {
			return err
		}
		return errAbort
	})
	s.ErrorIs(err, errAbort)

	feed, err := s.repo.FindOne(mockCtx, usdc)
	s.Require().NoError(err)
	s.Equal(int32(6), feed.TokenDecimals)

	_, err = s.repo.FindOne(mockCtx, domain.EmptyAddress)
	s.ErrorIs(err, domain.ErrNotFound)
}
