package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/pricefeed"
	"github.com/x-xyz/nftauction/service/query"
)

type mongoRepo struct {
	q query.Mongo
}

func NewMongo(q query.Mongo) pricefeed.Repo {
	return &mongoRepo{q: q}
}

// EnsureIndexes creates the unique currency index
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(c, domain.TablePriceFeeds, []mongo.IndexModel{
		{Keys: bson.D{{Key: "currency", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}

func (r *mongoRepo) FindOne(c ctx.Ctx, currency domain.Address) (*pricefeed.Feed, error) {
	feed := &pricefeed.Feed{}
	if err := r.q.FindOne(c, domain.TablePriceFeeds, bson.M{"currency": currency.ToLower()}, feed); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "currency": currency}).Error("q.FindOne failed")
		return nil, err
	}
	return feed, nil
}

func (r *mongoRepo) FindAll(c ctx.Ctx) ([]*pricefeed.Feed, error) {
	feeds := []*pricefeed.Feed{}
	if err := r.q.Search(c, domain.TablePriceFeeds, 0, 0, "currency", bson.M{}, &feeds); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return feeds, nil
}

func (r *mongoRepo) Upsert(c ctx.Ctx, feed *pricefeed.Feed) error {
	feed.Currency = feed.Currency.ToLower()
	feed.FeedAddress = feed.FeedAddress.ToLower()
	if err := r.q.Upsert(c, domain.TablePriceFeeds, bson.M{"currency": feed.Currency}, feed); err != nil {
		c.WithFields(log.Fields{"err": err, "currency": feed.Currency}).Error("q.Upsert failed")
		return err
	}
	return nil
}
