package query

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/domain"
)

var (
	mockCTX = ctx.Background()
)

const (
	mockTable = domain.Table("query_test")
	dbName    = "testdb"
)

func TestSortOption(t *testing.T) {
	s := sortOption("-startTime, id")
	if len(s) != 2 || s[0].Key != "startTime" || s[0].Value != -1 || s[1].Key != "id" || s[1].Value != 1 {
		t.Fatalf("unexpected sort %v", s)
	}
	if len(sortOption("")) != 0 {
		t.Fatal("empty sort should be skipped")
	}
}

// querySuite talks to a real replica set, set MONGO_URI to run it, e.g.
// mongodb://localhost:27017/?replicaSet=rs0
type querySuite struct {
	suite.Suite
	im *impl
}

func TestQuerySuite(t *testing.T) {
	if os.Getenv("MONGO_URI") == "" {
		t.Skip("MONGO_URI not set")
	}
	suite.Run(t, new(querySuite))
}

func (q *querySuite) SetupTest() {
	client := mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:        os.Getenv("MONGO_URI"),
		AuthDBName: "admin",
		DBName:     dbName,
	})
	q.im = New(client, false).(*impl)
	q.Require().NoError(q.im.coll(mockTable).Drop(mockCTX))
}

type dummy struct {
	Key   string `bson:"key"`
	Value int    `bson:"value"`
}

func (q *querySuite) TestInsertAndFindOne() {
	q.NoError(q.im.Insert(mockCTX, mockTable, dummy{"a", 1}))

	res := dummy{}
	q.NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"key": "a"}, &res))
	q.Equal(dummy{"a", 1}, res)

	q.Equal(ErrNotFound, q.im.FindOne(mockCTX, mockTable, bson.M{"key": "b"}, &res))
}

func (q *querySuite) TestPatchAndUpsert() {
	q.Equal(ErrNotFound, q.im.Patch(mockCTX, mockTable, bson.M{"key": "a"}, bson.M{"value": 2}))

	q.NoError(q.im.Upsert(mockCTX, mockTable, bson.M{"key": "a"}, dummy{"a", 1}))
	q.NoError(q.im.Patch(mockCTX, mockTable, bson.M{"key": "a"}, bson.M{"value": 2}))

	res := dummy{}
	q.NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"key": "a"}, &res))
	q.Equal(2, res.Value)
}

func (q *querySuite) TestIncrement() {
	res := dummy{}
	q.NoError(q.im.Increment(mockCTX, mockTable, bson.M{"key": "seq"}, &res, "value", 1))
	q.Equal(1, res.Value)
	q.NoError(q.im.Increment(mockCTX, mockTable, bson.M{"key": "seq"}, &res, "value", 1))
	q.Equal(2, res.Value)
}

func (q *querySuite) TestSearch() {
	for i := 0; i < 5; i++ {
		q.NoError(q.im.Insert(mockCTX, mockTable, dummy{"k", i}))
	}
	res := []dummy{}
	q.NoError(q.im.Search(mockCTX, mockTable, 1, 2, "-value", bson.M{"key": "k"}, &res))
	q.Equal([]dummy{{"k", 3}, {"k", 2}}, res)

	n, err := q.im.Count(mockCTX, mockTable, bson.M{"key": "k"})
	q.NoError(err)
	q.Equal(5, n)
}

func (q *querySuite) TestTransactionRollback() {
	q.NoError(q.im.Insert(mockCTX, mockTable, dummy{"tx", 0}))
	boom := errors.New("boom")

	err := q.im.RunWithTransaction(mockCTX, func(c ctx.Ctx) error {
		if err := q.im.Patch(c, mockTable, bson.M{"key": "tx"}, bson.M{"value": 9}); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return q.im.RunWithTransaction(c, func(inner ctx.Ctx) error {
			q.NotNil(mongo.SessionFromContext(inner))
			return boom
		})
	})
	q.Equal(boom, err)

	res := dummy{}
	q.NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"key": "tx"}, &res))
	q.Equal(0, res.Value)
}
