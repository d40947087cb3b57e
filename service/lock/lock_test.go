package lock

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/domain"
	mockRedis "github.com/x-xyz/nftauction/service/redis/mocks"
)

var (
	mockCtx = ctx.Background()
)

type lockSuite struct {
	suite.Suite
}

func TestLockSuite(t *testing.T) {
	suite.Run(t, new(lockSuite))
}

func (s *lockSuite) TestLocalSerializes() {
	l := NewLocal()
	counter := 0
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(mockCtx, "auctionLock:0", time.Second)
			s.Require().NoError(err)
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()
	s.Equal(50, counter)
	s.Empty(l.(*localLocker).slots)
}

func (s *lockSuite) TestLocalIndependentKeys() {
	l := NewLocal()
	unlockA, err := l.Lock(mockCtx, "a", time.Second)
	s.Require().NoError(err)
	defer unlockA()

	unlockB, err := l.Lock(mockCtx, "b", time.Second)
	s.Require().NoError(err)
	unlockB()
	// double unlock is harmless
	unlockB()
}

func (s *lockSuite) TestLocalCancelled() {
	l := NewLocal()
	unlock, err := l.Lock(mockCtx, "a", time.Second)
	s.Require().NoError(err)
	defer unlock()

	c, cancel := ctx.WithTimeout(mockCtx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(c, "a", time.Second)
	s.Equal(domain.ErrLockNotAcquired, err)
}

func (s *lockSuite) TestRedisRetriesUntilAcquired() {
	r := &mockRedis.Service{}
	l := &redisLocker{redis: r, retryInterval: time.Millisecond}

	r.On("SetNX", mockCtx, "auctionLock:1", mock.Anything, time.Second).Return(false, nil).Twice()
	r.On("SetNX", mockCtx, "auctionLock:1", mock.Anything, time.Second).Return(true, nil).Once()
	r.On("CompareAndDel", mock.Anything, "auctionLock:1", mock.Anything).Return(true, nil).Once()

	unlock, err := l.Lock(mockCtx, "auctionLock:1", time.Second)
	s.Require().NoError(err)
	unlock()
	r.AssertExpectations(s.T())

	// the released token is the one written by SetNX
	written := r.Calls[2].Arguments.Get(2).([]byte)
	released := r.Calls[3].Arguments.Get(2).([]byte)
	s.Equal(written, released)
}

func (s *lockSuite) TestRedisError() {
	r := &mockRedis.Service{}
	l := NewRedis(r)
	boom := errors.New("redis down")
	r.On("SetNX", mockCtx, "k", mock.Anything, time.Second).Return(false, boom).Once()

	_, err := l.Lock(mockCtx, "k", time.Second)
	s.Equal(boom, err)
}
