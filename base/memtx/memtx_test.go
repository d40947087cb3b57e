package memtx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/nftauction/base/ctx"
)

func TestRollbackInReverseOrder(t *testing.T) {
	tx := New()
	state := []string{}
	boom := errors.New("boom")

	err := tx.RunWithTransaction(ctx.Background(), func(c ctx.Ctx) error {
		assert.True(t, InTransaction(c))
		state = append(state, "a")
		OnRollback(c, func() { state = state[:len(state)-1] })
		state = append(state, "b")
		OnRollback(c, func() { state = state[:len(state)-1] })
		return boom
	})

	assert.Equal(t, boom, err)
	assert.Empty(t, state)
}

func TestCommitKeepsWrites(t *testing.T) {
	tx := New()
	n := 0
	err := tx.RunWithTransaction(ctx.Background(), func(c ctx.Ctx) error {
		n++
		OnRollback(c, func() { n-- })
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNestedJoinsOuter(t *testing.T) {
	tx := New()
	n := 0
	boom := errors.New("boom")

	err := tx.RunWithTransaction(ctx.Background(), func(c ctx.Ctx) error {
		// would deadlock if the inner call tried to take the mutex again
		if err := tx.RunWithTransaction(c, func(inner ctx.Ctx) error {
			n++
			OnRollback(inner, func() { n-- })
			return nil
		}); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 0, n)
}

func TestPanicRollsBack(t *testing.T) {
	tx := New()
	n := 0
	assert.Panics(t, func() {
		_ = tx.RunWithTransaction(ctx.Background(), func(c ctx.Ctx) error {
			n++
			OnRollback(c, func() { n-- })
			panic("settle")
		})
	})
	assert.Equal(t, 0, n)

	// mutex was released
	assert.NoError(t, tx.RunWithTransaction(ctx.Background(), func(ctx.Ctx) error { return nil }))
}

func TestOutsideTransaction(t *testing.T) {
	called := false
	OnRollback(ctx.Background(), func() { called = true })
	assert.False(t, called)
	assert.False(t, InTransaction(ctx.Background()))
}
