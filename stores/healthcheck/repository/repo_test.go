package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/nftauction/base/ctx"
)

func TestPingWithoutStores(t *testing.T) {
	assert.NoError(t, New(nil, nil).PingDB(ctx.Background()))
}
