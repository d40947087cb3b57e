package repository

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/service/query"
)

const counterAuctions = "auctions"

type counter struct {
	Id  string `bson:"_id"`
	Seq uint64 `bson:"seq"`
}

// EnsureIndexes creates the indexes used by auction and bid queries
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	if err := q.EnsureIndexes(c, domain.TableAuctions, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ended", Value: 1}, {Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "id", Value: 1}}},
	}); err != nil {
		return err
	}
	return q.EnsureIndexes(c, domain.TableBids, []mongo.IndexModel{
		{Keys: bson.D{{Key: "auctionId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) auction.Repo {
	return &mongoRepo{q: q}
}

func (r *mongoRepo) NextId(c ctx.Ctx) (uint64, error) {
	res := counter{}
	if err := r.q.Increment(c, domain.TableCounters, bson.M{"_id": counterAuctions}, &res, "seq", 1); err != nil {
		c.WithField("err", err).Error("q.Increment failed")
		return 0, err
	}
	return res.Seq - 1, nil
}

func (r *mongoRepo) Insert(c ctx.Ctx, a *auction.Auction) error {
	normalize(a)
	if err := r.q.Insert(c, domain.TableAuctions, a); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": a.Id}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindOne(c ctx.Ctx, id uint64) (*auction.Auction, error) {
	res := &auction.Auction{}
	if err := r.q.FindOne(c, domain.TableAuctions, bson.M{"id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *mongoRepo) FindAll(c ctx.Ctx, optFns ...auction.FindAllOptions) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.Seller != nil {
		qry["seller"] = opts.Seller.ToLower()
	}
	if opts.Ended != nil {
		qry["ended"] = *opts.Ended
	}
	if opts.EndTimeBefore != nil {
		qry["$expr"] = bson.M{"$lte": bson.A{bson.M{"$add": bson.A{"$startTime", "$duration"}}, *opts.EndTimeBefore}}
	}

	offset, limit := pagination(opts.Offset, opts.Limit)
	res := []*auction.Auction{}
	if err := r.q.Search(c, domain.TableAuctions, offset, limit, sortString(opts.SortBy, opts.SortDir, "id"), qry, &res); err != nil {
		c.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *mongoRepo) Patch(c ctx.Ctx, id uint64, patch *auction.Patchable) error {
	if patch.HighestBidder != nil {
		bidder := patch.HighestBidder.ToLower()
		patch.HighestBidder = &bidder
	}
	if patch.TokenAddress != nil {
		token := patch.TokenAddress.ToLower()
		patch.TokenAddress = &token
	}
	update, err := mongoclient.MakeBsonM(patch)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("mongoclient.MakeBsonM failed")
		return err
	}
	if len(update) == 0 {
		return nil
	}
	if err := r.q.Patch(c, domain.TableAuctions, bson.M{"id": id}, update); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *mongoRepo) MarkEnded(c ctx.Ctx, id uint64, at time.Time) error {
	err := r.q.Patch(c, domain.TableAuctions, bson.M{"id": id, "ended": false}, bson.M{"ended": true, "updatedAt": at})
	if err == nil {
		return nil
	}
	if err != query.ErrNotFound {
		c.WithFields(log.Fields{"err": err, "id": id}).Error("q.Patch failed")
		return err
	}
	if _, err := r.FindOne(c, id); err != nil {
		return err
	}
	return domain.ErrConflict
}

type bidMongoRepo struct {
	q query.Mongo
}

func NewBidMongo(q query.Mongo) auction.BidRepo {
	return &bidMongoRepo{q: q}
}

func (r *bidMongoRepo) Insert(c ctx.Ctx, b *auction.Bid) error {
	b.Bidder, b.Currency = b.Bidder.ToLower(), b.Currency.ToLower()
	if err := r.q.Insert(c, domain.TableBids, b); err != nil {
		c.WithFields(log.Fields{"err": err, "auctionId": b.AuctionId, "bid": b.Id}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *bidMongoRepo) FindAll(c ctx.Ctx, auctionId uint64, optFns ...auction.FindAllOptions) ([]*auction.Bid, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("GetFindAllOptions failed")
		return nil, err
	}

	offset, limit := pagination(opts.Offset, opts.Limit)
	res := []*auction.Bid{}
	if err := r.q.Search(c, domain.TableBids, offset, limit, sortString(opts.SortBy, opts.SortDir, "createdAt"), bson.M{"auctionId": auctionId}, &res); err != nil {
		c.WithFields(log.Fields{"err": err, "auctionId": auctionId}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func sortString(sortBy *string, sortDir *domain.SortDir, def string) string {
	if sortBy == nil {
		return def
	}
	if sortDir != nil && *sortDir == domain.SortDirDesc {
		return fmt.Sprintf("-%s", *sortBy)
	}
	return *sortBy
}

func pagination(offset, limit *int32) (int, int) {
	o, l := 0, 0
	if offset != nil {
		o = int(*offset)
	}
	if limit != nil {
		l = int(*limit)
	}
	return o, l
}

func normalize(a *auction.Auction) {
	a.Seller = a.Seller.ToLower()
	a.NftContract = a.NftContract.ToLower()
	a.HighestBidder = a.HighestBidder.ToLower()
	a.TokenAddress = a.TokenAddress.ToLower()
}
