package keys

import (
	"strconv"
	"strings"
)

const (
	// PfxAuctionLock prefixes the per auction mutex key
	PfxAuctionLock = "auctionLock"
	// PfxPriceFeed prefixes cached oracle rounds
	PfxPriceFeed = "priceFeed"
	// PfxSettler prefixes the settler leader key
	PfxSettler = "settler"
	// PfxHealthCheck prefixes the redis write probe
	PfxHealthCheck = "healthCheck"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// AuctionLockKey is shared by every instance bidding on or ending auction id
func AuctionLockKey(id uint64) string {
	return RedisKey(PfxAuctionLock, strconv.FormatUint(id, 10))
}

// GetPrefix returns the leading component of a key, used as metric tag
func GetPrefix(key string) string {
	if i := strings.Index(key, ":"); i > 0 {
		return key[:i]
	}
	return ""
}
