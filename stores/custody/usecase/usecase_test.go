package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/memtx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/custody"
	"github.com/x-xyz/nftauction/stores/custody/repository"
)

var mockCtx = ctx.Background()

const (
	admin  = domain.Address("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	escrow = domain.Address("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512")
	alice  = domain.Address("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	bob    = domain.Address("0x90f79bf6eb2c4f870365e785982e1f101e93b906")
	nft    = domain.Address("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	usdc   = domain.Address("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
)

type testsuite struct {
	suite.Suite
	im custody.Usecase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	timeNow = func() time.Time { return time.Unix(1700000000, 0) }
	t.im = New(&CustodyUseCaseCfg{
		NftRepo:       repository.NewNftMemory(),
		BalanceRepo:   repository.NewBalanceMemory(),
		AllowanceRepo: repository.NewAllowanceMemory(),
		Transactor:    memtx.New(),
		Escrow:        escrow,
		Admin:         admin,
	})
}

func (t *testsuite) TearDownTest() {
	timeNow = time.Now
}

func (t *testsuite) balance(currency, holder domain.Address) domain.Wei {
	b, err := t.im.BalanceOf(mockCtx, currency, holder)
	t.Require().NoError(err)
	return b
}

func (t *testsuite) TestMint() {
	t.ErrorIs(t.im.Mint(mockCtx, alice, nft, "0", alice), custody.ErrOnlyAdminMint)
	t.ErrorIs(t.im.Mint(mockCtx, admin, nft, "abc", alice), domain.ErrBadParamInput)
	t.ErrorIs(t.im.Mint(mockCtx, admin, nft, "0", domain.EmptyAddress), domain.ErrInvalidAddress)

	t.Require().NoError(t.im.Mint(mockCtx, admin, nft, "0", alice))
	t.ErrorIs(t.im.Mint(mockCtx, admin, nft, "0", bob), custody.ErrTokenAlreadyMinted)

	o, err := t.im.OwnerOf(mockCtx, nft, "0")
	t.Require().NoError(err)
	t.Equal(alice, o.Owner)

	_, err = t.im.OwnerOf(mockCtx, nft, "1")
	t.ErrorIs(err, custody.ErrTokenNotMinted)
	t.ErrorIs(err, domain.ErrNotFound)

	owned, err := t.im.TokensOf(mockCtx, alice)
	t.Require().NoError(err)
	t.Len(owned, 1)
}

func (t *testsuite) TestTokenIdLeadingZeros() {
	t.Require().NoError(t.im.Mint(mockCtx, admin, nft, "007", alice))
	t.ErrorIs(t.im.Mint(mockCtx, admin, nft, "7", bob), custody.ErrTokenAlreadyMinted)
	t.ErrorIs(t.im.Mint(mockCtx, admin, nft, "0007", bob), custody.ErrTokenAlreadyMinted)

	o, err := t.im.OwnerOf(mockCtx, nft, "7")
	t.Require().NoError(err)
	t.Equal(alice, o.Owner)
	t.Equal(domain.TokenId("7"), o.TokenId)

	t.Require().NoError(t.im.Approve(mockCtx, alice, nft, "07", escrow))
	t.Require().NoError(t.im.TransferNft(mockCtx, escrow, nft, "7", alice, bob))

	o, err = t.im.OwnerOf(mockCtx, nft, "007")
	t.Require().NoError(err)
	t.Equal(bob, o.Owner)
}

func (t *testsuite) TestTransferNft() {
	t.Require().NoError(t.im.Mint(mockCtx, admin, nft, "0", alice))

	// escrow is not approved yet
	err := t.im.TransferNft(mockCtx, escrow, nft, "0", alice, escrow)
	t.ErrorIs(err, custody.ErrNotOwnerOrApproved)
	t.Equal("Not token owner or approved", err.Error())

	t.ErrorIs(t.im.Approve(mockCtx, bob, nft, "0", escrow), custody.ErrNotOwnerOrApproved)
	t.Require().NoError(t.im.Approve(mockCtx, alice, nft, "0", escrow))

	// from must be the current owner
	t.ErrorIs(t.im.TransferNft(mockCtx, escrow, nft, "0", bob, escrow), custody.ErrNotOwnerOrApproved)

	t.Require().NoError(t.im.TransferNft(mockCtx, escrow, nft, "0", alice, escrow))
	o, err := t.im.OwnerOf(mockCtx, nft, "0")
	t.Require().NoError(err)
	t.Equal(escrow, o.Owner)
	t.Equal(domain.EmptyAddress, o.Approved)

	// approval is cleared by the transfer
	t.ErrorIs(t.im.TransferNft(mockCtx, alice, nft, "0", escrow, alice), custody.ErrNotOwnerOrApproved)

	// owner moves its own token
	t.Require().NoError(t.im.TransferNft(mockCtx, escrow, nft, "0", escrow, bob))
	o, err = t.im.OwnerOf(mockCtx, nft, "0")
	t.Require().NoError(err)
	t.Equal(bob, o.Owner)
}

func (t *testsuite) TestCreditAndTransfer() {
	one := domain.MustParseEther("1")

	t.ErrorIs(t.im.Credit(mockCtx, alice, domain.EmptyAddress, alice, one), custody.ErrOnlyAdminCredit)
	t.ErrorIs(t.im.Credit(mockCtx, admin, domain.EmptyAddress, alice, domain.ZeroWei), custody.ErrZeroAmount)
	t.ErrorIs(t.im.Credit(mockCtx, admin, domain.EmptyAddress, alice, "-1"), domain.ErrInvalidNumberFormat)

	t.Require().NoError(t.im.Credit(mockCtx, admin, domain.EmptyAddress, alice, domain.MustParseEther("3")))
	t.Equal(domain.MustParseEther("3"), t.balance(domain.EmptyAddress, alice))

	t.Require().NoError(t.im.Transfer(mockCtx, alice, domain.EmptyAddress, bob, one))
	t.Equal(domain.MustParseEther("2"), t.balance(domain.EmptyAddress, alice))
	t.Equal(one, t.balance(domain.EmptyAddress, bob))

	err := t.im.Transfer(mockCtx, bob, domain.EmptyAddress, alice, domain.MustParseEther("1.5"))
	t.ErrorIs(err, custody.ErrInsufficientFunds)
	t.Equal(one, t.balance(domain.EmptyAddress, bob))

	// self transfer keeps the balance
	t.Require().NoError(t.im.Transfer(mockCtx, bob, domain.EmptyAddress, bob, one))
	t.Equal(one, t.balance(domain.EmptyAddress, bob))
}

func (t *testsuite) TestTransferFrom() {
	hundred := domain.Wei("100000000")
	t.Require().NoError(t.im.Credit(mockCtx, admin, usdc, alice, hundred))

	t.ErrorIs(t.im.ApproveSpend(mockCtx, alice, domain.EmptyAddress, escrow, hundred), domain.ErrInvalidCurrency)
	t.ErrorIs(t.im.TransferFrom(mockCtx, escrow, domain.EmptyAddress, alice, escrow, hundred), domain.ErrInvalidCurrency)

	t.ErrorIs(t.im.TransferFrom(mockCtx, escrow, usdc, alice, escrow, hundred), custody.ErrInsufficientAllow)

	t.Require().NoError(t.im.ApproveSpend(mockCtx, alice, usdc, escrow, domain.Wei("150000000")))
	allowance, err := t.im.Allowance(mockCtx, usdc, alice, escrow)
	t.Require().NoError(err)
	t.Equal(domain.Wei("150000000"), allowance)

	// allowance covers it, balance does not, nothing is consumed
	t.ErrorIs(t.im.TransferFrom(mockCtx, escrow, usdc, alice, escrow, domain.Wei("150000000")), custody.ErrInsufficientFunds)
	allowance, err = t.im.Allowance(mockCtx, usdc, alice, escrow)
	t.Require().NoError(err)
	t.Equal(domain.Wei("150000000"), allowance)

	t.Require().NoError(t.im.TransferFrom(mockCtx, escrow, usdc, alice, escrow, domain.Wei("60000000")))
	t.Equal(domain.Wei("40000000"), t.balance(usdc, alice))
	t.Equal(domain.Wei("60000000"), t.balance(usdc, escrow))
	allowance, err = t.im.Allowance(mockCtx, usdc, alice, escrow)
	t.Require().NoError(err)
	t.Equal(domain.Wei("90000000"), allowance)
}
