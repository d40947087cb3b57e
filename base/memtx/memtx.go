// Package memtx gives in-memory repositories the all-or-nothing behaviour of
// a mongo transaction. Writers record an undo step for every mutation, and a
// failed unit of work replays them in reverse.
package memtx

import (
	"sync"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
)

type journalKey struct{}

type journal struct {
	undo []func()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// Transactor serializes units of work, so a unit never observes another's
// uncommitted writes.
type Transactor struct {
	mu sync.Mutex
}

func New() domain.Transactor {
	return &Transactor{}
}

func (t *Transactor) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) (err error) {
	if _, ok := c.Value(journalKey{}).(*journal); ok {
		return run(c)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
		if err != nil {
			j.rollback()
		}
	}()

	return run(ctx.WithHiddenValue(c, journalKey{}, j))
}

// OnRollback records how to revert a write made under c. Outside a
// transaction the write is final and undo is dropped.
func OnRollback(c ctx.Ctx, undo func()) {
	if j, ok := c.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

// InTransaction reports whether c belongs to a running unit of work
func InTransaction(c ctx.Ctx) bool {
	_, ok := c.Value(journalKey{}).(*journal)
	return ok
}
