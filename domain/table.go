package domain

// Table is a mongo collection name
type Table string

const (
	TableAuctions      Table = "auctions"
	TableBids          Table = "auction_bids"
	TableCounters      Table = "counters"
	TablePriceFeeds    Table = "price_feeds"
	TableNftOwnerships Table = "nft_ownerships"
	TableBalances      Table = "balances"
	TableAllowances    Table = "allowances"
)
