package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// ThrottledCaller bounds the number of in-flight eth_call requests to one rpc endpoint.
type ThrottledCaller struct {
	bind.ContractCaller
	tokens chan struct{}
}

func NewThrottledCaller(caller bind.ContractCaller, n int) *ThrottledCaller {
	if n <= 0 {
		n = 1
	}
	return &ThrottledCaller{
		ContractCaller: caller,
		tokens:         make(chan struct{}, n),
	}
}

func (c *ThrottledCaller) CodeAt(ctx context.Context, address common.Address, number *big.Int) ([]byte, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()
	return c.ContractCaller.CodeAt(ctx, address, number)
}

func (c *ThrottledCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()
	return c.ContractCaller.CallContract(ctx, msg, number)
}

func (c *ThrottledCaller) acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.tokens <- struct{}{}:
		return nil
	}
}

func (c *ThrottledCaller) release() {
	<-c.tokens
}
