package auction

import (
	"errors"

	"github.com/x-xyz/nftauction/domain"
)

var (
	ErrOnlyAdminCreate   = domain.Reject("Only admin can create auctions", domain.ErrForbidden)
	ErrDurationTooShort  = domain.Reject("Duration must be greater than 10s")
	ErrDurationTooLong   = domain.Reject("Duration is out of range", domain.ErrBadParamInput)
	ErrZeroStartingPrice = domain.Reject("Starting price must be greater than 0")
	ErrAuctionNotFound   = domain.Reject("Auction does not exist", domain.ErrNotFound)

	ErrAuctionEnded          = domain.Reject("Auction has ended")
	ErrBidTooLow             = domain.Reject("Bid must be higher than the current highest bid")
	ErrNativeValueRequired   = domain.Reject("Native bids must carry a value")
	ErrUnexpectedNativeValue = domain.Reject("Native value not accepted for token bids")

	ErrOnlyAdminEnd = domain.Reject("Only admin can end auctions", domain.ErrForbidden)
	// ErrAuctionNotEnded is returned both before the deadline and after the
	// auction was closed. The attached cause tells the two apart.
	ErrAuctionNotEnded = domain.Reject("Auction has not ended")

	ErrDeadlineNotReached = errors.New("deadline not reached")
	ErrAuctionClosed      = errors.New("auction already closed")
)
