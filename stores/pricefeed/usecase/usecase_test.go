package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ptr"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/pricefeed"
	mockPricefeed "github.com/x-xyz/nftauction/domain/pricefeed/mocks"
	"github.com/x-xyz/nftauction/service/chainlink"
	mockChainlink "github.com/x-xyz/nftauction/service/chainlink/mocks"
)

var (
	mockCtx = ctx.Background()
	now     = time.Unix(1700000000, 0)
)

const (
	admin   = domain.Address("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	alice   = domain.Address("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	usdc    = domain.Address("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	ethFeed = domain.Address("0x5f4ec3df9cbd43714fe2740f5e3616155c5b8419")
	usdFeed = domain.Address("0x8fffffd4afb6115b954bd326cbe7b4ba576818f6")
)

type testsuite struct {
	suite.Suite
	repo   *mockPricefeed.Repo
	reader *mockChainlink.Reader
	im     pricefeed.Usecase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	timeNow = func() time.Time { return now }
	t.repo = &mockPricefeed.Repo{}
	t.reader = &mockChainlink.Reader{}
	t.im = New(&PriceFeedUseCaseCfg{Repo: t.repo, Reader: t.reader, Admin: admin})
}

func (t *testsuite) TearDownTest() {
	timeNow = time.Now
	t.repo.AssertExpectations(t.T())
	t.reader.AssertExpectations(t.T())
}

func (t *testsuite) TestSetPriceFeedOnlyAdmin() {
	_, err := t.im.SetPriceFeed(mockCtx, alice, domain.EmptyAddress, pricefeed.SetParams{FeedAddress: ethFeed})
	t.ErrorIs(err, pricefeed.ErrOnlyAdminSet)
	t.ErrorIs(err, domain.ErrForbidden)
	t.Equal("Only admin can set price feed", err.Error())
}

func (t *testsuite) TestSetPriceFeedInvalidAddress() {
	_, err := t.im.SetPriceFeed(mockCtx, admin, domain.EmptyAddress, pricefeed.SetParams{FeedAddress: "0x1234"})
	t.ErrorIs(err, domain.ErrInvalidAddress)

	_, err = t.im.SetPriceFeed(mockCtx, admin, domain.EmptyAddress, pricefeed.SetParams{FeedAddress: domain.EmptyAddress})
	t.ErrorIs(err, domain.ErrInvalidAddress)
}

func (t *testsuite) TestSetPriceFeedDefaultsDecimals() {
	t.repo.On("FindOne", mockCtx, domain.EmptyAddress).Return(nil, domain.ErrNotFound).Once()
	t.repo.On("Upsert", mockCtx, &pricefeed.Feed{
		Currency:      domain.EmptyAddress,
		FeedAddress:   ethFeed,
		TokenDecimals: 18,
		UpdatedAt:     now.UTC(),
	}).Return(nil).Once()

	feed, err := t.im.SetPriceFeed(mockCtx, admin, domain.EmptyAddress, pricefeed.SetParams{FeedAddress: "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419"})
	t.Require().NoError(err)
	t.Equal(ethFeed, feed.FeedAddress)
}

func (t *testsuite) TestSetPriceFeedKeepsDecimals() {
	t.repo.On("FindOne", mockCtx, usdc).Return(&pricefeed.Feed{Currency: usdc, FeedAddress: ethFeed, TokenDecimals: 6}, nil).Once()
	t.repo.On("Upsert", mockCtx, mock.MatchedBy(func(f *pricefeed.Feed) bool {
		return f.TokenDecimals == 6 && f.FeedAddress == usdFeed
	})).Return(nil).Once()

	_, err := t.im.SetPriceFeed(mockCtx, admin, usdc, pricefeed.SetParams{FeedAddress: usdFeed})
	t.Require().NoError(err)
}

func (t *testsuite) TestSetPriceFeedDecimalsRange() {
	t.repo.On("FindOne", mockCtx, usdc).Return(nil, domain.ErrNotFound).Once()

	_, err := t.im.SetPriceFeed(mockCtx, admin, usdc, pricefeed.SetParams{FeedAddress: usdFeed, TokenDecimals: ptr.Int32(-1)})
	t.ErrorIs(err, pricefeed.ErrInvalidDecimals)
}

func (t *testsuite) TestLatestAnswer() {
	t.repo.On("FindOne", mockCtx, domain.EmptyAddress).Return(&pricefeed.Feed{Currency: domain.EmptyAddress, FeedAddress: ethFeed, TokenDecimals: 18}, nil).Once()
	t.reader.On("LatestRound", mockCtx, ethFeed).Return(&chainlink.Round{
		RoundId:   big.NewInt(1),
		Answer:    big.NewInt(200000000000),
		Decimals:  8,
		UpdatedAt: now,
	}, nil).Once()

	ans, err := t.im.LatestAnswer(mockCtx, domain.EmptyAddress)
	t.Require().NoError(err)
	t.Equal("200000000000", ans.Answer.String())
	t.Equal(uint8(8), ans.Decimals)
	t.True(decimal.NewFromInt(2000).Equal(ans.Price()))
}

func (t *testsuite) TestLatestAnswerNoFeed() {
	t.repo.On("FindOne", mockCtx, usdc).Return(nil, domain.ErrNotFound).Once()

	_, err := t.im.LatestAnswer(mockCtx, usdc)
	t.ErrorIs(err, domain.ErrNoPriceFeed)
	t.Equal("Price feed not set", err.Error())
}

func (t *testsuite) TestLatestAnswerInvalid() {
	t.repo.On("FindOne", mockCtx, usdc).Return(&pricefeed.Feed{Currency: usdc, FeedAddress: usdFeed, TokenDecimals: 6}, nil).Once()
	t.reader.On("LatestRound", mockCtx, usdFeed).Return(&chainlink.Round{RoundId: big.NewInt(1), Answer: big.NewInt(0), Decimals: 8}, nil).Once()

	_, err := t.im.LatestAnswer(mockCtx, usdc)
	t.ErrorIs(err, pricefeed.ErrInvalidAnswer)
}

func (t *testsuite) TestNormalize() {
	t.repo.On("FindOne", mockCtx, usdc).Return(&pricefeed.Feed{Currency: usdc, FeedAddress: usdFeed, TokenDecimals: 6}, nil).Once()
	t.reader.On("LatestRound", mockCtx, usdFeed).Return(&chainlink.Round{RoundId: big.NewInt(1), Answer: big.NewInt(99990000), Decimals: 8}, nil).Once()

	// 150 USDC at 0.9999
	v, err := t.im.Normalize(mockCtx, usdc, domain.Wei("150000000"))
	t.Require().NoError(err)
	t.True(decimal.RequireFromString("149.985").Equal(v), v.String())
}

func (t *testsuite) TestNormalizeNoFeed() {
	t.repo.On("FindOne", mockCtx, usdc).Return(nil, domain.ErrNotFound).Once()

	_, err := t.im.Normalize(mockCtx, usdc, domain.Wei("1"))
	t.ErrorIs(err, domain.ErrNoPriceFeed)
}
