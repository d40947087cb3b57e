package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/custody"
	"github.com/x-xyz/nftauction/service/query"
)

// EnsureIndexes creates the unique keys of every custody table
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	unique := options.Index().SetUnique(true)
	if err := q.EnsureIndexes(c, domain.TableNftOwnerships, []mongo.IndexModel{
		{Keys: bson.D{{Key: "contract", Value: 1}, {Key: "tokenId", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	}); err != nil {
		return err
	}
	if err := q.EnsureIndexes(c, domain.TableBalances, []mongo.IndexModel{
		{Keys: bson.D{{Key: "currency", Value: 1}, {Key: "holder", Value: 1}}, Options: unique},
	}); err != nil {
		return err
	}
	return q.EnsureIndexes(c, domain.TableAllowances, []mongo.IndexModel{
		{Keys: bson.D{{Key: "currency", Value: 1}, {Key: "owner", Value: 1}, {Key: "spender", Value: 1}}, Options: unique},
	})
}

type nftMongoRepo struct {
	q query.Mongo
}

func NewNftMongo(q query.Mongo) custody.NftRepo {
	return &nftMongoRepo{q: q}
}

func nftSelector(contract domain.Address, tokenId domain.TokenId) bson.M {
	return bson.M{"contract": contract.ToLower(), "tokenId": tokenId}
}

func (r *nftMongoRepo) FindOne(c ctx.Ctx, contract domain.Address, tokenId domain.TokenId) (*custody.NftOwnership, error) {
	res := &custody.NftOwnership{}
	if err := r.q.FindOne(c, domain.TableNftOwnerships, nftSelector(contract, tokenId), res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": contract, "tokenId": tokenId}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *nftMongoRepo) FindAll(c ctx.Ctx, owner domain.Address) ([]*custody.NftOwnership, error) {
	res := []*custody.NftOwnership{}
	if err := r.q.Search(c, domain.TableNftOwnerships, 0, 0, "contract,tokenId", bson.M{"owner": owner.ToLower()}, &res); err != nil {
		c.WithFields(log.Fields{"err": err, "owner": owner}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *nftMongoRepo) Insert(c ctx.Ctx, o *custody.NftOwnership) error {
	normalizeNft(o)
	if err := r.q.Insert(c, domain.TableNftOwnerships, o); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": o.Contract, "tokenId": o.TokenId}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *nftMongoRepo) Update(c ctx.Ctx, o *custody.NftOwnership) error {
	normalizeNft(o)
	if err := r.q.Patch(c, domain.TableNftOwnerships, nftSelector(o.Contract, o.TokenId), o); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": o.Contract, "tokenId": o.TokenId}).Error("q.Patch failed")
		return err
	}
	return nil
}

type balanceMongoRepo struct {
	q query.Mongo
}

func NewBalanceMongo(q query.Mongo) custody.BalanceRepo {
	return &balanceMongoRepo{q: q}
}

func (r *balanceMongoRepo) FindOne(c ctx.Ctx, currency, holder domain.Address) (*custody.Balance, error) {
	res := &custody.Balance{}
	selector := bson.M{"currency": currency.ToLower(), "holder": holder.ToLower()}
	if err := r.q.FindOne(c, domain.TableBalances, selector, res); err == query.ErrNotFound {
		return &custody.Balance{Currency: currency.ToLower(), Holder: holder.ToLower(), Amount: domain.ZeroWei}, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "holder": holder}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *balanceMongoRepo) Upsert(c ctx.Ctx, b *custody.Balance) error {
	b.Currency, b.Holder = b.Currency.ToLower(), b.Holder.ToLower()
	selector := bson.M{"currency": b.Currency, "holder": b.Holder}
	if err := r.q.Upsert(c, domain.TableBalances, selector, b); err != nil {
		c.WithFields(log.Fields{"err": err, "currency": b.Currency, "holder": b.Holder}).Error("q.Upsert failed")
		return err
	}
	return nil
}

type allowanceMongoRepo struct {
	q query.Mongo
}

func NewAllowanceMongo(q query.Mongo) custody.AllowanceRepo {
	return &allowanceMongoRepo{q: q}
}

func (r *allowanceMongoRepo) FindOne(c ctx.Ctx, currency, owner, spender domain.Address) (*custody.Allowance, error) {
	res := &custody.Allowance{}
	selector := bson.M{"currency": currency.ToLower(), "owner": owner.ToLower(), "spender": spender.ToLower()}
	if err := r.q.FindOne(c, domain.TableAllowances, selector, res); err == query.ErrNotFound {
		return &custody.Allowance{
			Currency: currency.ToLower(),
			Owner:    owner.ToLower(),
			Spender:  spender.ToLower(),
			Amount:   domain.ZeroWei,
		}, nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency, "owner": owner, "spender": spender}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *allowanceMongoRepo) Upsert(c ctx.Ctx, a *custody.Allowance) error {
	a.Currency, a.Owner, a.Spender = a.Currency.ToLower(), a.Owner.ToLower(), a.Spender.ToLower()
	selector := bson.M{"currency": a.Currency, "owner": a.Owner, "spender": a.Spender}
	if err := r.q.Upsert(c, domain.TableAllowances, selector, a); err != nil {
		c.WithFields(log.Fields{"err": err, "currency": a.Currency, "owner": a.Owner}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func normalizeNft(o *custody.NftOwnership) {
	o.Contract = o.Contract.ToLower()
	o.Owner = o.Owner.ToLower()
	o.Approved = o.Approved.ToLower()
}
