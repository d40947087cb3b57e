package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/memtx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/pricefeed"
)

type memoryRepo struct {
	mu    sync.RWMutex
	feeds map[domain.Address]pricefeed.Feed
}

// NewMemory keeps bindings in process, for devnets and tests
func NewMemory() pricefeed.Repo {
	return &memoryRepo{feeds: map[domain.Address]pricefeed.Feed{}}
}

func (r *memoryRepo) FindOne(c ctx.Ctx, currency domain.Address) (*pricefeed.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	feed, ok := r.feeds[currency.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &feed, nil
}

func (r *memoryRepo) FindAll(c ctx.Ctx) ([]*pricefeed.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*pricefeed.Feed, 0, len(r.feeds))
	for _, feed := range r.feeds {
		feed := feed
		res = append(res, &feed)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Currency < res[j].Currency })
	return res, nil
}

func (r *memoryRepo) Upsert(c ctx.Ctx, feed *pricefeed.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed.Currency = feed.Currency.ToLower()
	feed.FeedAddress = feed.FeedAddress.ToLower()

	prev, existed := r.feeds[feed.Currency]
	r.feeds[feed.Currency] = *feed
	memtx.OnRollback(c, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if existed {
			r.feeds[feed.Currency] = prev
		} else {
			delete(r.feeds, feed.Currency)
		}
	})
	return nil
}
