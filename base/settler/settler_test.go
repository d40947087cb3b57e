package settler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/auction/mocks"
	"github.com/x-xyz/nftauction/service/lock"
)

const admin = domain.Address("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")

var mockCtx = ctx.Background()

type settlerSuite struct {
	suite.Suite
	now time.Time
	au  *mocks.Usecase
	s   *Settler
}

func TestSettler(t *testing.T) {
	suite.Run(t, new(settlerSuite))
}

func (t *settlerSuite) SetupTest() {
	t.now = time.Unix(1700000000, 0)
	timeNow = func() time.Time { return t.now }
	t.au = &mocks.Usecase{}
	t.s = New(&SettlerCfg{
		Auction:  t.au,
		Locker:   lock.NewLocal(),
		Admin:    admin,
		Interval: 10 * time.Millisecond,
		Limit:    3,
		Workers:  2,
	})
}

func (t *settlerSuite) TearDownTest() {
	timeNow = time.Now
	t.au.AssertExpectations(t.T())
}

func (t *settlerSuite) TestSettleEndsEveryExpiredAuction() {
	t.au.On("FindExpired", mock.Anything, t.now, int32(3)).Return([]*auction.Auction{{Id: 1}, {Id: 2}}, nil).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(1)).Return(&auction.Settlement{AuctionId: 1}, nil).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(2)).Return(&auction.Settlement{AuctionId: 2}, nil).Once()

	n, err := t.s.Settle(mockCtx)
	t.NoError(err)
	t.Equal(2, n)
}

func (t *settlerSuite) TestSettleKeepsGoingOnFailure() {
	t.au.On("FindExpired", mock.Anything, t.now, int32(3)).Return([]*auction.Auction{{Id: 1}, {Id: 2}, {Id: 3}}, nil).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(1)).Return(nil, auction.ErrAuctionNotEnded.Because(auction.ErrAuctionClosed)).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(2)).Return(nil, domain.ErrConflict).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(3)).Return(&auction.Settlement{AuctionId: 3}, nil).Once()

	n, err := t.s.Settle(mockCtx)
	t.NoError(err)
	t.Equal(2, n)
}

func (t *settlerSuite) TestSettleListFailed() {
	t.au.On("FindExpired", mock.Anything, t.now, int32(3)).Return(nil, domain.ErrNotFound).Once()

	n, err := t.s.Settle(mockCtx)
	t.ErrorIs(err, domain.ErrNotFound)
	t.Equal(0, n)
}

func (t *settlerSuite) TestStartStopsWithContext() {
	c, cancel := ctx.WithCancel(mockCtx)

	var once sync.Once
	called := make(chan struct{})
	t.au.On("FindExpired", mock.Anything, mock.Anything, int32(3)).Run(func(mock.Arguments) {
		once.Do(func() { close(called) })
	}).Return([]*auction.Auction{}, nil)

	t.s.Start(c)
	<-called
	cancel()
	t.s.Wait()
}

func (t *settlerSuite) TestFailingBatchWaitsForNextTick() {
	s := New(&SettlerCfg{
		Auction:  t.au,
		Locker:   lock.NewLocal(),
		Admin:    admin,
		Interval: time.Hour,
		Limit:    3,
		Workers:  2,
	})
	c, cancel := ctx.WithCancel(mockCtx)

	var listed int32
	t.au.On("FindExpired", mock.Anything, mock.Anything, int32(3)).Run(func(mock.Arguments) {
		atomic.AddInt32(&listed, 1)
	}).Return([]*auction.Auction{{Id: 1}, {Id: 2}, {Id: 3}}, nil)
	t.au.On("EndAuction", mock.Anything, admin, mock.Anything).Return(nil, domain.ErrConflict)

	s.Start(c)
	t.Eventually(func() bool { return atomic.LoadInt32(&listed) >= 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	cancel()
	s.Wait()

	t.Equal(int32(1), atomic.LoadInt32(&listed))
	t.au.AssertNumberOfCalls(t.T(), "EndAuction", 3)
}

func (t *settlerSuite) TestSettledBatchRunsAgainAtOnce() {
	s := New(&SettlerCfg{
		Auction:  t.au,
		Locker:   lock.NewLocal(),
		Admin:    admin,
		Interval: time.Hour,
		Limit:    2,
		Workers:  2,
	})
	c, cancel := ctx.WithCancel(mockCtx)

	t.au.On("FindExpired", mock.Anything, mock.Anything, int32(2)).Return([]*auction.Auction{{Id: 1}, {Id: 2}}, nil).Once()
	done := make(chan struct{})
	t.au.On("FindExpired", mock.Anything, mock.Anything, int32(2)).Run(func(mock.Arguments) {
		close(done)
	}).Return([]*auction.Auction{}, nil).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(1)).Return(&auction.Settlement{AuctionId: 1}, nil).Once()
	t.au.On("EndAuction", mock.Anything, admin, uint64(2)).Return(nil, auction.ErrAuctionNotEnded.Because(auction.ErrAuctionClosed)).Once()

	s.Start(c)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fail("second batch was not listed")
	}
	cancel()
	s.Wait()
}
