package usecase

import (
	"errors"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/custody"
)

var timeNow = time.Now

type CustodyUseCaseCfg struct {
	NftRepo       custody.NftRepo
	BalanceRepo   custody.BalanceRepo
	AllowanceRepo custody.AllowanceRepo
	Transactor    domain.Transactor
	// Escrow holds auctioned NFTs and bid funds
	Escrow domain.Address
	Admin  domain.Address
}

type impl struct {
	nft        custody.NftRepo
	balance    custody.BalanceRepo
	allowance  custody.AllowanceRepo
	transactor domain.Transactor
	escrow     domain.Address
	admin      domain.Address
}

func New(cfg *CustodyUseCaseCfg) custody.Usecase {
	return &impl{
		nft:        cfg.NftRepo,
		balance:    cfg.BalanceRepo,
		allowance:  cfg.AllowanceRepo,
		transactor: cfg.Transactor,
		escrow:     cfg.Escrow.ToLower(),
		admin:      cfg.Admin.ToLower(),
	}
}

func (im *impl) Escrow() domain.Address {
	return im.escrow
}

func (im *impl) OwnerOf(c ctx.Ctx, contract domain.Address, tokenId domain.TokenId) (*custody.NftOwnership, error) {
	tokenId = tokenId.Canonical()
	o, err := im.nft.FindOne(c, contract, tokenId)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, custody.ErrTokenNotMinted
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": contract, "tokenId": tokenId}).Error("nft.FindOne failed")
		return nil, err
	}
	return o, nil
}

func (im *impl) TokensOf(c ctx.Ctx, owner domain.Address) ([]*custody.NftOwnership, error) {
	res, err := im.nft.FindAll(c, owner)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "owner": owner}).Error("nft.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Mint(c ctx.Ctx, caller, contract domain.Address, tokenId domain.TokenId, to domain.Address) error {
	if !caller.Equals(im.admin) {
		return custody.ErrOnlyAdminMint
	}
	if !contract.IsValid() || !to.IsValid() || to.IsNative() {
		return domain.ErrInvalidAddress
	}
	if !tokenId.IsValid() {
		return domain.ErrBadParamInput
	}

	err := im.nft.Insert(c, &custody.NftOwnership{
		Contract:  contract,
		TokenId:   tokenId.Canonical(),
		Owner:     to,
		Approved:  domain.EmptyAddress,
		UpdatedAt: timeNow().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return custody.ErrTokenAlreadyMinted
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": contract, "tokenId": tokenId}).Error("nft.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Approve(c ctx.Ctx, caller, contract domain.Address, tokenId domain.TokenId, operator domain.Address) error {
	if !operator.IsValid() {
		return domain.ErrInvalidAddress
	}

	return im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		o, err := im.OwnerOf(c, contract, tokenId)
		if err != nil {
			return err
		}
		if !o.Owner.Equals(caller) {
			return custody.ErrNotOwnerOrApproved
		}

		o.Approved = operator
		o.UpdatedAt = timeNow().UTC()
		if err := im.nft.Update(c, o); err != nil {
			c.WithFields(log.Fields{"err": err, "contract": contract, "tokenId": tokenId}).Error("nft.Update failed")
			return err
		}
		return nil
	})
}

func (im *impl) TransferNft(c ctx.Ctx, operator, contract domain.Address, tokenId domain.TokenId, from, to domain.Address) error {
	if !to.IsValid() || to.IsNative() {
		return domain.ErrInvalidAddress
	}

	return im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		o, err := im.OwnerOf(c, contract, tokenId)
		if err != nil {
			return err
		}
		if !o.Owner.Equals(from) {
			return custody.ErrNotOwnerOrApproved
		}
		if !operator.Equals(o.Owner) && !operator.Equals(o.Approved) {
			return custody.ErrNotOwnerOrApproved
		}

		o.Owner = to
		o.Approved = domain.EmptyAddress
		o.UpdatedAt = timeNow().UTC()
		if err := im.nft.Update(c, o); err != nil {
			c.WithFields(log.Fields{"err": err, "contract": contract, "tokenId": tokenId}).Error("nft.Update failed")
			return err
		}

		c.WithFields(log.Fields{
			"contract": o.Contract,
			"tokenId":  o.TokenId,
			"from":     from,
			"to":       to,
		}).Info("nft transferred")
		return nil
	})
}

func (im *impl) BalanceOf(c ctx.Ctx, currency, holder domain.Address) (domain.Wei, error) {
	b, err := im.balance.FindOne(c, currency, holder)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "holder": holder}).Error("balance.FindOne failed")
		return "", err
	}
	return b.Amount, nil
}

func (im *impl) Allowance(c ctx.Ctx, currency, owner, spender domain.Address) (domain.Wei, error) {
	a, err := im.allowance.FindOne(c, currency, owner, spender)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "owner": owner, "spender": spender}).Error("allowance.FindOne failed")
		return "", err
	}
	return a.Amount, nil
}

func (im *impl) ApproveSpend(c ctx.Ctx, owner, currency, spender domain.Address, amount domain.Wei) error {
	if currency.IsNative() {
		return domain.ErrInvalidCurrency
	}
	if !currency.IsValid() || !spender.IsValid() {
		return domain.ErrInvalidAddress
	}
	if err := amount.Validate(); err != nil {
		return err
	}

	return im.allowance.Upsert(c, &custody.Allowance{
		Currency:  currency,
		Owner:     owner,
		Spender:   spender,
		Amount:    amount,
		UpdatedAt: timeNow().UTC(),
	})
}

func (im *impl) Transfer(c ctx.Ctx, from, currency, to domain.Address, amount domain.Wei) error {
	if err := im.validateAmount(currency, amount); err != nil {
		return err
	}
	if !to.IsValid() || to.IsNative() {
		return domain.ErrInvalidAddress
	}

	return im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		return im.move(c, currency, from, to, amount)
	})
}

func (im *impl) TransferFrom(c ctx.Ctx, spender, currency, from, to domain.Address, amount domain.Wei) error {
	if currency.IsNative() {
		return domain.ErrInvalidCurrency
	}
	if err := im.validateAmount(currency, amount); err != nil {
		return err
	}
	if !to.IsValid() || to.IsNative() {
		return domain.ErrInvalidAddress
	}

	return im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		a, err := im.allowance.FindOne(c, currency, from, spender)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "currency": currency, "owner": from, "spender": spender}).Error("allowance.FindOne failed")
			return err
		}
		if a.Amount.Cmp(amount) < 0 {
			return custody.ErrInsufficientAllow
		}

		a.Amount = a.Amount.Sub(amount)
		a.UpdatedAt = timeNow().UTC()
		if err := im.allowance.Upsert(c, a); err != nil {
			c.WithFields(log.Fields{"err": err, "currency": currency, "owner": from}).Error("allowance.Upsert failed")
			return err
		}
		return im.move(c, currency, from, to, amount)
	})
}

func (im *impl) Credit(c ctx.Ctx, caller, currency, to domain.Address, amount domain.Wei) error {
	if !caller.Equals(im.admin) {
		return custody.ErrOnlyAdminCredit
	}
	if err := im.validateAmount(currency, amount); err != nil {
		return err
	}
	if !to.IsValid() || to.IsNative() {
		return domain.ErrInvalidAddress
	}

	return im.transactor.RunWithTransaction(c, func(c ctx.Ctx) error {
		return im.add(c, currency, to, amount)
	})
}

func (im *impl) validateAmount(currency domain.Address, amount domain.Wei) error {
	if !currency.IsValid() {
		return domain.ErrInvalidAddress
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return custody.ErrZeroAmount
	}
	return nil
}

// move must run inside a transaction
func (im *impl) move(c ctx.Ctx, currency, from, to domain.Address, amount domain.Wei) error {
	b, err := im.balance.FindOne(c, currency, from)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "holder": from}).Error("balance.FindOne failed")
		return err
	}
	if b.Amount.Cmp(amount) < 0 {
		return custody.ErrInsufficientFunds
	}

	b.Amount = b.Amount.Sub(amount)
	b.UpdatedAt = timeNow().UTC()
	if err := im.balance.Upsert(c, b); err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "holder": from}).Error("balance.Upsert failed")
		return err
	}
	if err := im.add(c, currency, to, amount); err != nil {
		return err
	}

	c.WithFields(log.Fields{
		"currency": currency,
		"from":     from,
		"to":       to,
		"amount":   amount,
	}).Info("funds transferred")
	return nil
}

func (im *impl) add(c ctx.Ctx, currency, to domain.Address, amount domain.Wei) error {
	b, err := im.balance.FindOne(c, currency, to)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "holder": to}).Error("balance.FindOne failed")
		return err
	}

	b.Amount = b.Amount.Add(amount)
	b.UpdatedAt = timeNow().UTC()
	if err := im.balance.Upsert(c, b); err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "holder": to}).Error("balance.Upsert failed")
		return err
	}
	return nil
}
