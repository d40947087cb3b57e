package pricefeed

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

var (
	ErrOnlyAdminSet    = domain.Reject("Only admin can set price feed", domain.ErrForbidden)
	ErrInvalidDecimals = domain.Reject("Token decimals out of range")

	// ErrInvalidAnswer is returned for a non positive oracle answer
	ErrInvalidAnswer = domain.Reject("Price feed answer is invalid")
)

// MaxTokenDecimals bounds the decimals a feed binding may declare
const MaxTokenDecimals = 36

// Feed binds a currency to the aggregator reporting its USD price
type Feed struct {
	Currency    domain.Address `json:"currency" bson:"currency"`
	FeedAddress domain.Address `json:"feedAddress" bson:"feedAddress"`
	// TokenDecimals of the currency itself, 18 unless configured
	TokenDecimals int32     `json:"tokenDecimals" bson:"tokenDecimals"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Answer is the latest round reported by a feed
type Answer struct {
	Currency  domain.Address `json:"currency"`
	Answer    *big.Int       `json:"answer"`
	Decimals  uint8          `json:"decimals"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Price is Answer scaled by its decimals
func (a *Answer) Price() decimal.Decimal {
	return decimal.NewFromBigInt(a.Answer, -int32(a.Decimals))
}

type SetParams struct {
	FeedAddress domain.Address
	// TokenDecimals is optional, nil keeps the existing or default value
	TokenDecimals *int32
}

type Repo interface {
	FindOne(c ctx.Ctx, currency domain.Address) (*Feed, error)
	FindAll(c ctx.Ctx) ([]*Feed, error)
	Upsert(c ctx.Ctx, feed *Feed) error
}

type Usecase interface {
	SetPriceFeed(c ctx.Ctx, caller, currency domain.Address, params SetParams) (*Feed, error)
	GetFeed(c ctx.Ctx, currency domain.Address) (*Feed, error)
	FindAll(c ctx.Ctx) ([]*Feed, error)
	// LatestAnswer returns domain.ErrNoPriceFeed when the currency has no feed
	LatestAnswer(c ctx.Ctx, currency domain.Address) (*Answer, error)
	// Normalize converts amount of currency into USD
	Normalize(c ctx.Ctx, currency domain.Address, amount domain.Wei) (decimal.Decimal, error)
}
