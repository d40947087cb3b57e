package goroutine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/nftauction/base/backoff"
)

func TestRecoverableGo(t *testing.T) {
	res := []string{}

	<-RecoverableGo(
		func() {
			res = append(res, "run task")
			panic("panic")
		},
		WithBeforeStart(func() {
			res = append(res, "before start")
		}),
		WithAfterEnded(func() {
			res = append(res, "after ended")
		}),
		WithAfterRecovered(func(p interface{}, stack []byte) {
			res = append(res, "after recovered")
			res = append(res, p.(string))
		}),
	)

	assert.Equal(t, []string{
		"before start",
		"run task",
		"after ended",
		"after recovered",
		"panic",
	}, res)
}

func TestRecoverableGoNoPanic(t *testing.T) {
	evt, ok := <-RecoverableGo(func() {})
	assert.False(t, ok)
	assert.Nil(t, evt)
}

func TestSuperviseRestartsAfterPanic(t *testing.T) {
	runs := 0
	b := backoff.NewExponential(time.Millisecond, 4*time.Millisecond)

	Supervise(context.Background(), b, func() {
		runs++
		if runs < 3 {
			panic("settle failed")
		}
	})

	assert.Equal(t, 3, runs)
	assert.Equal(t, time.Millisecond, b.NextDuration)
}

func TestSuperviseStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runs := 0
	Supervise(ctx, backoff.NewLinear(time.Hour, 0), func() {
		runs++
		panic("always")
	})
	assert.Equal(t, 1, runs)
}
