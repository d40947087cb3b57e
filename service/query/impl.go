package query

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
)

const (
	queryMaxTime    = 20 * time.Second
	slowLogMs       = 500
	maxConcurrentTx = 10
)

var (
	timeNow = time.Now
	met     = metrics.New("mongo")
)

type impl struct {
	client     *mongoclient.Client
	checkIndex bool
	tokens     chan struct{}
}

// New initializes an impl. checkIndex rejects queries without an index plan,
// meant for staging.
func New(client *mongoclient.Client, checkIndex bool) Mongo {
	return &impl{
		client:     client,
		checkIndex: checkIndex,
		tokens:     make(chan struct{}, maxConcurrentTx),
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) Insert(c ctx.Ctx, table domain.Table, insert interface{}) error {
	defer met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(c, string(table), "insert", nil)()

	if _, err := im.coll(table).InsertOne(c, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		c.WithFields(log.Fields{"err": err, "table": table}).Error("InsertOne failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(c, string(table), "findone", query)()

	if err := im.checkQueryIndex(c, string(table), "find", bson.E{Key: "filter", Value: query}); err != nil {
		return err
	}

	res := im.coll(table).FindOne(c, query, options.FindOne().SetMaxTime(queryMaxTime))
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		c.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("FindOne failed")
		return err
	}
	return nil
}

func (im *impl) Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(c, string(table), "count", selector)()

	if err := im.checkQueryIndex(c, string(table), "count", bson.E{Key: "query", Value: selector}); err != nil {
		return 0, err
	}

	n, err := im.coll(table).CountDocuments(c, selector, options.Count().SetMaxTime(queryMaxTime))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "selector": selector}).Error("CountDocuments failed")
		return 0, err
	}
	return int(n), nil
}

func (im *impl) Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer met.BumpTime("time", "func", "upsert", "table", string(table)).End()
	defer slowLog(c, string(table), "upsert", selector)()

	if _, err := im.coll(table).ReplaceOne(c, selector, update, options.Replace().SetUpsert(true)); err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "selector": selector}).Error("ReplaceOne failed")
		return err
	}
	return nil
}

func sortOption(sort string) bson.D {
	res := bson.D{}
	for _, s := range strings.Split(sort, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s[0] == '-' {
			res = append(res, bson.E{Key: s[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: s, Value: 1})
		}
	}
	return res
}

func (im *impl) Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(c, string(table), "search", query)()

	if err := im.checkQueryIndex(c, string(table), "find", bson.E{Key: "filter", Value: query}); err != nil {
		return err
	}

	findOpts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset))
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	if s := sortOption(sort); len(s) > 0 {
		findOpts.SetSort(s)
	}

	cursor, err := im.coll(table).Find(c, query, findOpts)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "query": query}).Error("Find failed")
		return err
	}
	defer cursor.Close(c)

	if err := cursor.All(c, results); err != nil {
		c.WithFields(log.Fields{"err": err, "table": table}).Error("cursor.All failed")
		return err
	}
	return nil
}

func (im *impl) Patch(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer met.BumpTime("time", "func", "patch", "table", string(table)).End()
	defer slowLog(c, string(table), "patch", selector)()

	res, err := im.coll(table).UpdateOne(c, selector, bson.M{"$set": update})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "selector": selector}).Error("UpdateOne failed")
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) Increment(c ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error {
	defer met.BumpTime("time", "func", "increment", "table", string(table)).End()
	defer slowLog(c, string(table), "increment", selector)()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	res := im.coll(table).FindOneAndUpdate(c, selector, bson.M{"$inc": bson.M{field: inc}}, opts)
	if err := res.Decode(result); err != nil {
		c.WithFields(log.Fields{"err": err, "table": table, "selector": selector}).Error("FindOneAndUpdate failed")
		return err
	}
	return nil
}

func (im *impl) EnsureIndexes(c ctx.Ctx, table domain.Table, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	names, err := im.coll(table).Indexes().CreateMany(c, models)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "table": table}).Error("CreateMany indexes failed")
		return err
	}
	c.WithFields(log.Fields{"table": table, "indexes": names}).Info("indexes ensured")
	return nil
}

// RunWithTransaction runs run inside a multi document transaction. Calls made
// with a context that already carries a session join it.
func (im *impl) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	if mongo.SessionFromContext(c) != nil {
		return run(c)
	}

	select {
	case <-c.Done():
		return c.Err()
	case im.tokens <- struct{}{}:
	}
	defer func() { <-im.tokens }()

	defer met.BumpTime("time", "func", "transaction").End()

	// explain is not supported in transaction
	if im.checkIndex {
		return run(c)
	}

	session, err := im.client.StartSession()
	if err != nil {
		c.WithField("err", err).Error("StartSession failed")
		return err
	}
	defer session.EndSession(c)

	_, err = session.WithTransaction(c, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, run(ctx.From(sessCtx, c.Logger))
	})
	return err
}

func slowLog(c ctx.Ctx, table, action string, query interface{}) func() {
	start := timeNow()

	return func() {
		elapsedMs := time.Since(start).Milliseconds()
		if elapsedMs >= slowLogMs {
			met.BumpSum("slowlog", 1, "table", table, "action", action)
			c.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"startTime":  start.Unix(),
				"durationMs": elapsedMs,
				"query":      query,
			}).Warn("mongo slowlog")
		}
	}
}

func (im *impl) checkQueryIndex(c ctx.Ctx, table string, action string, query bson.E) error {
	if !im.checkIndex {
		return nil
	}
	// https://docs.mongodb.com/manual/reference/command/explain/
	res := im.client.Database(im.client.DbName).RunCommand(c, bson.D{
		{Key: "explain", Value: bson.D{{Key: action, Value: table}, query}},
		{Key: "verbosity", Value: "queryPlanner"},
	})

	var m bson.M
	if err := res.Decode(&m); err != nil {
		c.WithField("err", err).Warn("checkQueryIndex decode failed")
		return nil
	}

	// the plan layout differs between server versions, match on the text
	if strings.Contains(fmt.Sprintf("%v", m), "COLLSCAN") {
		c.WithFields(log.Fields{"table": table, "query": query}).Warn("COLLSCAN")
		return ErrCollScan
	}
	return nil
}
