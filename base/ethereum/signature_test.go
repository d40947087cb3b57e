package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMsgSignature(t *testing.T) {
	req := require.New(t)
	messageTemplate := "Sign in to the auction house at %d"
	privateKey, address, err := GenerateKey()
	req.NoError(err)
	message := []byte(fmt.Sprintf(messageTemplate, 1700000000))

	signature, err := SignMsg(privateKey, message)
	req.NoError(err)

	ok, err := ValidateMsgSignature(message, signature, address.Hex())
	req.NoError(err)
	req.True(ok)

	// lowercase signer is still accepted
	ok, err = ValidateMsgSignature(message, signature, strings.ToLower(address.Hex()))
	req.NoError(err)
	req.True(ok)

	// different message
	ok, err = ValidateMsgSignature([]byte("654321"), signature, address.Hex())
	req.NoError(err)
	req.False(ok)

	// different signer
	_, other, err := GenerateKey()
	req.NoError(err)
	ok, err = ValidateMsgSignature(message, signature, other.Hex())
	req.NoError(err)
	req.False(ok)
}

func TestRecoverMsgSignerRejectsMalformed(t *testing.T) {
	_, err := RecoverMsgSigner([]byte("hello"), "not-hex")
	assert.Error(t, err)

	_, err = RecoverMsgSigner([]byte("hello"), "0x1234")
	assert.Error(t, err)
}

type slowCaller struct {
	inflight int32
	peak     int32
	mu       sync.Mutex
}

func (s *slowCaller) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	return nil, nil
}

func (s *slowCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	n := atomic.AddInt32(&s.inflight, 1)
	s.mu.Lock()
	if n > s.peak {
		s.peak = n
	}
	s.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(&s.inflight, -1)
	return []byte{1}, nil
}

func TestThrottledCaller(t *testing.T) {
	inner := &slowCaller{}
	c := NewThrottledCaller(inner, 2)

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CallContract(context.Background(), ethereum.CallMsg{}, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, inner.peak, int32(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	full := NewThrottledCaller(inner, 1)
	full.tokens <- struct{}{}
	_, err := full.CallContract(ctx, ethereum.CallMsg{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
