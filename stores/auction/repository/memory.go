package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/memtx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
)

type memoryRepo struct {
	mu       sync.RWMutex
	nextId   uint64
	auctions map[uint64]auction.Auction
}

// NewMemory keeps auctions in process. Writes made inside a memtx unit of
// work are reverted when it fails.
func NewMemory() auction.Repo {
	return &memoryRepo{auctions: map[uint64]auction.Auction{}}
}

func (r *memoryRepo) NextId(c ctx.Ctx) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextId
	r.nextId++
	memtx.OnRollback(c, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.nextId = id
	})
	return id, nil
}

func (r *memoryRepo) Insert(c ctx.Ctx, a *auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalize(a)
	if _, ok := r.auctions[a.Id]; ok {
		return domain.ErrConflict
	}
	r.auctions[a.Id] = *a
	memtx.OnRollback(c, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.auctions, a.Id)
	})
	return nil
}

func (r *memoryRepo) FindOne(c ctx.Ctx, id uint64) (*auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *memoryRepo) FindAll(c ctx.Ctx, optFns ...auction.FindAllOptions) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	res := []*auction.Auction{}
	for _, a := range r.auctions {
		a := a
		if opts.Seller != nil && !a.Seller.Equals(*opts.Seller) {
			continue
		}
		if opts.Ended != nil && a.Ended != *opts.Ended {
			continue
		}
		if opts.EndTimeBefore != nil && a.EndTime() > *opts.EndTimeBefore {
			continue
		}
		res = append(res, &a)
	}
	r.mu.RUnlock()

	desc := opts.SortDir != nil && *opts.SortDir == domain.SortDirDesc
	sort.Slice(res, func(i, j int) bool {
		if desc {
			return res[i].Id > res[j].Id
		}
		return res[i].Id < res[j].Id
	})

	start, end := bounds(len(res), opts.Offset, opts.Limit)
	return res[start:end], nil
}

func (r *memoryRepo) Patch(c ctx.Ctx, id uint64, patch *auction.Patchable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.auctions[id]
	if !ok {
		return domain.ErrNotFound
	}

	a := prev
	if patch.HighestBidder != nil {
		a.HighestBidder = patch.HighestBidder.ToLower()
	}
	if patch.HighestBid != nil {
		a.HighestBid = *patch.HighestBid
	}
	if patch.TokenAddress != nil {
		a.TokenAddress = patch.TokenAddress.ToLower()
	}
	if patch.UpdatedAt != nil {
		a.UpdatedAt = *patch.UpdatedAt
	}
	r.put(c, prev, a)
	return nil
}

func (r *memoryRepo) MarkEnded(c ctx.Ctx, id uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.auctions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Ended {
		return domain.ErrConflict
	}

	a := prev
	a.Ended = true
	a.UpdatedAt = at
	r.put(c, prev, a)
	return nil
}

// put must hold mu
func (r *memoryRepo) put(c ctx.Ctx, prev, next auction.Auction) {
	r.auctions[next.Id] = next
	memtx.OnRollback(c, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.auctions[prev.Id] = prev
	})
}

type bidMemoryRepo struct {
	mu   sync.RWMutex
	bids map[uint64][]auction.Bid
}

func NewBidMemory() auction.BidRepo {
	return &bidMemoryRepo{bids: map[uint64][]auction.Bid{}}
}

func (r *bidMemoryRepo) Insert(c ctx.Ctx, b *auction.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.Bidder, b.Currency = b.Bidder.ToLower(), b.Currency.ToLower()
	n := len(r.bids[b.AuctionId])
	r.bids[b.AuctionId] = append(r.bids[b.AuctionId], *b)
	memtx.OnRollback(c, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.bids[b.AuctionId] = r.bids[b.AuctionId][:n]
	})
	return nil
}

func (r *bidMemoryRepo) FindAll(c ctx.Ctx, auctionId uint64, optFns ...auction.FindAllOptions) ([]*auction.Bid, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	res := make([]*auction.Bid, 0, len(r.bids[auctionId]))
	for _, b := range r.bids[auctionId] {
		b := b
		res = append(res, &b)
	}
	r.mu.RUnlock()

	if opts.SortDir != nil && *opts.SortDir == domain.SortDirDesc {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	start, end := bounds(len(res), opts.Offset, opts.Limit)
	return res[start:end], nil
}

// bounds converts offset and limit into slice bounds over n items
func bounds(n int, offset, limit *int32) (int, int) {
	start, size := pagination(offset, limit)
	if start > n {
		start = n
	}
	end := n
	if size > 0 && start+size < n {
		end = start + size
	}
	return start, end
}
