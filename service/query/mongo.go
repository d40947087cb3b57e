package query

/*
	Package query wraps https://github.com/mongodb/mongo-go-driver with the
	handful of operations the repositories use. Every call logs failures with
	the table and selector, and reports latency to metrics.
*/

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

// Mongo abstract the mongo layer.
type Mongo interface {
	domain.Transactor

	// Insert inserts a new document to the table
	Insert(c ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne decodes the first match into result, ErrNotFound if none
	FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count return counting for matched entry in the table
	Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error)

	// Upsert replaces the matched document or inserts update
	Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sort order by `sort` argument (ex "timestamp" ascending, or "-timestamp" descending)
	// if `sort` is "", the sort action is skipped.
	Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Patch $sets update on the first match, ErrNotFound if none
	Patch(c ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Increment adds inc to field, inserting the document if missing, and
	// decodes the updated document into result
	Increment(c ctx.Ctx, table domain.Table, selector, result interface{}, field string, inc interface{}) error

	// EnsureIndexes creates indexes if they don't exist yet
	EnsureIndexes(c ctx.Ctx, table domain.Table, models []mongo.IndexModel) error
}
