package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/x-xyz/nftauction/base/ctx"
	baseeth "github.com/x-xyz/nftauction/base/ethereum"
	"github.com/x-xyz/nftauction/base/log"
)

type ClientCfg struct {
	RpcUrl string
	// MaxConcurrency bounds in-flight eth_call requests, 0 means 8
	MaxConcurrency int
}

// Client performs read only contract calls
type Client interface {
	Call(c bCtx.Ctx, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
}

type clientImpl struct {
	caller bind.ContractCaller
}

func NewClient(c bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	client, err := ethclient.DialContext(c, cfg.RpcUrl)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"url": cfg.RpcUrl,
		}).Error("failed to dial rpc")
		return nil, err
	}
	n := cfg.MaxConcurrency
	if n <= 0 {
		n = 8
	}
	return NewClientWithCaller(baseeth.NewThrottledCaller(client, n)), nil
}

// NewClientWithCaller uses any eth_call backend, such as a simulated chain in tests
func NewClientWithCaller(caller bind.ContractCaller) Client {
	return &clientImpl{caller: caller}
}

func (im *clientImpl) Call(c bCtx.Ctx, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	data, err := _abi.Pack(method, params...)
	if err != nil {
		c.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := im.caller.CallContract(c, msg, blk)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "addr": addr.Hex(), "method": method}).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "addr": addr.Hex(), "method": method}).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}
