package auction

import (
	"math"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

// MinDuration is exclusive, an auction must run strictly longer
const MinDuration = 10 * time.Second

// Auction escrows one NFT until the administrator ends it
type Auction struct {
	Id            uint64         `json:"id" bson:"id"`
	Seller        domain.Address `json:"seller" bson:"seller"`
	NftContract   domain.Address `json:"nftContract" bson:"nftContract"`
	TokenId       domain.TokenId `json:"tokenId" bson:"tokenId"`
	StartingPrice domain.Wei     `json:"startingPrice" bson:"startingPrice"`
	// Duration in seconds
	Duration uint64 `json:"duration" bson:"duration"`
	// StartTime in unix seconds
	StartTime     int64          `json:"startTime" bson:"startTime"`
	HighestBidder domain.Address `json:"highestBidder" bson:"highestBidder"`
	HighestBid    domain.Wei     `json:"highestBid" bson:"highestBid"`
	// TokenAddress is the currency of HighestBid, EmptyAddress for the native asset
	TokenAddress domain.Address `json:"tokenAddress" bson:"tokenAddress"`
	Ended        bool           `json:"ended" bson:"ended"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// EndTime in unix seconds, the first instant the auction can be ended.
// Saturates at math.MaxInt64.
func (a *Auction) EndTime() int64 {
	if a.Duration > math.MaxInt64 {
		return math.MaxInt64
	}
	if a.StartTime > 0 && int64(a.Duration) > math.MaxInt64-a.StartTime {
		return math.MaxInt64
	}
	return a.StartTime + int64(a.Duration)
}

// HasBid reports whether any bid was accepted
func (a *Auction) HasBid() bool {
	return !a.HighestBidder.IsEmpty() && !a.HighestBidder.Equals(domain.EmptyAddress)
}

// IsOpenAt reports whether bids are accepted at t
func (a *Auction) IsOpenAt(t time.Time) bool {
	return !a.Ended && t.Unix() < a.EndTime()
}

// Patchable is the mutable part of an auction, nil fields are left untouched
type Patchable struct {
	HighestBidder *domain.Address `bson:"highestBidder,omitempty"`
	HighestBid    *domain.Wei     `bson:"highestBid,omitempty"`
	TokenAddress  *domain.Address `bson:"tokenAddress,omitempty"`
	UpdatedAt     *time.Time      `bson:"updatedAt,omitempty"`
}

// Bid is an accepted bid, kept as history even after being outbid
type Bid struct {
	Id        string         `json:"id" bson:"_id"`
	AuctionId uint64         `json:"auctionId" bson:"auctionId"`
	Bidder    domain.Address `json:"bidder" bson:"bidder"`
	Amount    domain.Wei     `json:"amount" bson:"amount"`
	Currency  domain.Address `json:"currency" bson:"currency"`
	// UsdValue is the normalized value used for comparison
	UsdValue  string    `json:"usdValue" bson:"usdValue"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Settlement describes where the escrowed assets went when an auction ended
type Settlement struct {
	AuctionId   uint64         `json:"auctionId"`
	Seller      domain.Address `json:"seller"`
	NftReceiver domain.Address `json:"nftReceiver"`
	Proceeds    domain.Wei     `json:"proceeds"`
	Currency    domain.Address `json:"currency"`
	EndedAt     time.Time      `json:"endedAt"`
}

type CreateParams struct {
	Duration      uint64
	NftContract   domain.Address
	StartingPrice domain.Wei
	TokenId       domain.TokenId
}

type BidParams struct {
	Amount   domain.Wei
	Currency domain.Address
	// NativeValue is the native asset sent along with the bid
	NativeValue domain.Wei
}

type Repo interface {
	// NextId allocates ids densely starting at 0
	NextId(c ctx.Ctx) (uint64, error)
	Insert(c ctx.Ctx, a *Auction) error
	FindOne(c ctx.Ctx, id uint64) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Auction, error)
	Patch(c ctx.Ctx, id uint64, patch *Patchable) error
	// MarkEnded flips ended to true, domain.ErrConflict if it already was
	MarkEnded(c ctx.Ctx, id uint64, at time.Time) error
}

type BidRepo interface {
	Insert(c ctx.Ctx, b *Bid) error
	FindAll(c ctx.Ctx, auctionId uint64, opts ...FindAllOptions) ([]*Bid, error)
}

type Usecase interface {
	CreateAuction(c ctx.Ctx, caller domain.Address, params CreateParams) (*Auction, error)
	BidWith(c ctx.Ctx, caller domain.Address, id uint64, params BidParams) (*Auction, error)
	EndAuction(c ctx.Ctx, caller domain.Address, id uint64) (*Settlement, error)
	Get(c ctx.Ctx, id uint64) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]*Auction, error)
	ListBids(c ctx.Ctx, id uint64, opts ...FindAllOptions) ([]*Bid, error)
	// FindExpired lists open auctions whose deadline passed at now
	FindExpired(c ctx.Ctx, now time.Time, limit int32) ([]*Auction, error)
}
