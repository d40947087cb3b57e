package custody

import (
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

var (
	ErrNotOwnerOrApproved = domain.Reject("Not token owner or approved")
	ErrTokenNotMinted     = domain.Reject("Token does not exist", domain.ErrNotFound)
	ErrTokenAlreadyMinted = domain.Reject("Token already minted", domain.ErrConflict)
	ErrInsufficientFunds  = domain.Reject("Insufficient balance")
	ErrInsufficientAllow  = domain.Reject("Insufficient allowance")
	ErrOnlyAdminMint      = domain.Reject("Only admin can mint", domain.ErrForbidden)
	ErrOnlyAdminCredit    = domain.Reject("Only admin can credit", domain.ErrForbidden)
	ErrZeroAmount         = domain.Reject("Amount must be greater than 0")
)

// NftOwnership is the ERC721 state of one token
type NftOwnership struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
	Owner    domain.Address `json:"owner" bson:"owner"`
	// Approved may transfer the token on behalf of Owner, cleared on transfer
	Approved  domain.Address `json:"approved" bson:"approved"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type Balance struct {
	Currency  domain.Address `json:"currency" bson:"currency"`
	Holder    domain.Address `json:"holder" bson:"holder"`
	Amount    domain.Wei     `json:"amount" bson:"amount"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type Allowance struct {
	Currency  domain.Address `json:"currency" bson:"currency"`
	Owner     domain.Address `json:"owner" bson:"owner"`
	Spender   domain.Address `json:"spender" bson:"spender"`
	Amount    domain.Wei     `json:"amount" bson:"amount"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type NftRepo interface {
	FindOne(c ctx.Ctx, contract domain.Address, tokenId domain.TokenId) (*NftOwnership, error)
	FindAll(c ctx.Ctx, owner domain.Address) ([]*NftOwnership, error)
	Insert(c ctx.Ctx, o *NftOwnership) error
	Update(c ctx.Ctx, o *NftOwnership) error
}

type BalanceRepo interface {
	// FindOne returns a zero balance for unknown holders
	FindOne(c ctx.Ctx, currency, holder domain.Address) (*Balance, error)
	Upsert(c ctx.Ctx, b *Balance) error
}

type AllowanceRepo interface {
	// FindOne returns a zero allowance when none was approved
	FindOne(c ctx.Ctx, currency, owner, spender domain.Address) (*Allowance, error)
	Upsert(c ctx.Ctx, a *Allowance) error
}

type Usecase interface {
	// Escrow is the account holding auctioned NFTs and bid funds
	Escrow() domain.Address

	OwnerOf(c ctx.Ctx, contract domain.Address, tokenId domain.TokenId) (*NftOwnership, error)
	TokensOf(c ctx.Ctx, owner domain.Address) ([]*NftOwnership, error)
	Mint(c ctx.Ctx, caller, contract domain.Address, tokenId domain.TokenId, to domain.Address) error
	Approve(c ctx.Ctx, caller, contract domain.Address, tokenId domain.TokenId, operator domain.Address) error
	TransferNft(c ctx.Ctx, operator, contract domain.Address, tokenId domain.TokenId, from, to domain.Address) error

	BalanceOf(c ctx.Ctx, currency, holder domain.Address) (domain.Wei, error)
	Allowance(c ctx.Ctx, currency, owner, spender domain.Address) (domain.Wei, error)
	ApproveSpend(c ctx.Ctx, owner, currency, spender domain.Address, amount domain.Wei) error
	Transfer(c ctx.Ctx, from, currency, to domain.Address, amount domain.Wei) error
	TransferFrom(c ctx.Ctx, spender, currency, from, to domain.Address, amount domain.Wei) error
	Credit(c ctx.Ctx, caller, currency, to domain.Address, amount domain.Wei) error
}
