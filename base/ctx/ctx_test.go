package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftauction/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "auctionId", uint64(3))
	ts.Equal(uint64(3), ctx.Value("auctionId"))
	ts.Nil(bg.Value("auctionId"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	ctx := WithValues(bg, map[string]interface{}{
		"caller":  "0xabc",
		"request": "r1",
	})
	ts.Equal("0xabc", ctx.Value("caller"))
	ts.Equal("r1", ctx.Value("request"))
}

type hiddenKey struct{}

func (ts *testsuite) TestWithHiddenValue() {
	ctx := WithHiddenValue(Background(), hiddenKey{}, 42)
	ts.Equal(42, ctx.Value(hiddenKey{}))
}

func (ts *testsuite) TestFrom() {
	type key struct{}
	parent := context.WithValue(context.Background(), key{}, "v")
	ctx := From(parent, log.Log())
	ts.Equal("v", ctx.Value(key{}))
}

func (ts *testsuite) TestWithCancel() {
	ctx, cancel := WithCancel(Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		ts.Fail("context not canceled")
	}
	ts.Equal(context.Canceled, ctx.Err())
}

func (ts *testsuite) TestTimeout() {
	ctx, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	<-ctx.Done()
	ts.Equal("context deadline exceeded", ctx.Err().Error())
}
