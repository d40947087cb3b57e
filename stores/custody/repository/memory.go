package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/memtx"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/custody"
	"github.com/x-xyz/nftauction/domain/keys"
)

// memoryStore is a keyed map whose writes are undone when the surrounding
// memtx unit of work fails
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]interface{}{}}
}

func (s *memoryStore) get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *memoryStore) put(c ctx.Ctx, key string, val interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	s.data[key] = val
	memtx.OnRollback(c, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
	})
}

func (s *memoryStore) values() []interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]interface{}, 0, len(s.data))
	for _, v := range s.data {
		res = append(res, v)
	}
	return res
}

type nftMemoryRepo struct {
	s *memoryStore
}

func NewNftMemory() custody.NftRepo {
	return &nftMemoryRepo{s: newMemoryStore()}
}

func nftKey(contract domain.Address, tokenId domain.TokenId) string {
	return keys.RedisKey(contract.ToLowerStr(), tokenId.String())
}

func (r *nftMemoryRepo) FindOne(c ctx.Ctx, contract domain.Address, tokenId domain.TokenId) (*custody.NftOwnership, error) {
	v, ok := r.s.get(nftKey(contract, tokenId))
	if !ok {
		return nil, domain.ErrNotFound
	}
	o := v.(custody.NftOwnership)
	return &o, nil
}

func (r *nftMemoryRepo) FindAll(c ctx.Ctx, owner domain.Address) ([]*custody.NftOwnership, error) {
	res := []*custody.NftOwnership{}
	for _, v := range r.s.values() {
		o := v.(custody.NftOwnership)
		if o.Owner.Equals(owner) {
			res = append(res, &o)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Contract != res[j].Contract {
			return res[i].Contract < res[j].Contract
		}
		return res[i].TokenId < res[j].TokenId
	})
	return res, nil
}

func (r *nftMemoryRepo) Insert(c ctx.Ctx, o *custody.NftOwnership) error {
	normalizeNft(o)
	key := nftKey(o.Contract, o.TokenId)
	if _, ok := r.s.get(key); ok {
		return domain.ErrConflict
	}
	r.s.put(c, key, *o)
	return nil
}

func (r *nftMemoryRepo) Update(c ctx.Ctx, o *custody.NftOwnership) error {
	normalizeNft(o)
	key := nftKey(o.Contract, o.TokenId)
	if _, ok := r.s.get(key); !ok {
		return domain.ErrNotFound
	}
	r.s.put(c, key, *o)
	return nil
}

type balanceMemoryRepo struct {
	s *memoryStore
}

func NewBalanceMemory() custody.BalanceRepo {
	return &balanceMemoryRepo{s: newMemoryStore()}
}

func (r *balanceMemoryRepo) FindOne(c ctx.Ctx, currency, holder domain.Address) (*custody.Balance, error) {
	v, ok := r.s.get(keys.RedisKey(currency.ToLowerStr(), holder.ToLowerStr()))
	if !ok {
		return &custody.Balance{Currency: currency.ToLower(), Holder: holder.ToLower(), Amount: domain.ZeroWei}, nil
	}
	b := v.(custody.Balance)
	return &b, nil
}

func (r *balanceMemoryRepo) Upsert(c ctx.Ctx, b *custody.Balance) error {
	b.Currency, b.Holder = b.Currency.ToLower(), b.Holder.ToLower()
	r.s.put(c, keys.RedisKey(string(b.Currency), string(b.Holder)), *b)
	return nil
}

type allowanceMemoryRepo struct {
	s *memoryStore
}

func NewAllowanceMemory() custody.AllowanceRepo {
	return &allowanceMemoryRepo{s: newMemoryStore()}
}

func (r *allowanceMemoryRepo) FindOne(c ctx.Ctx, currency, owner, spender domain.Address) (*custody.Allowance, error) {
	v, ok := r.s.get(keys.RedisKey(currency.ToLowerStr(), owner.ToLowerStr(), spender.ToLowerStr()))
	if !ok {
		return &custody.Allowance{
			Currency: currency.ToLower(),
			Owner:    owner.ToLower(),
			Spender:  spender.ToLower(),
			Amount:   domain.ZeroWei,
		}, nil
	}
	a := v.(custody.Allowance)
	return &a, nil
}

func (r *allowanceMemoryRepo) Upsert(c ctx.Ctx, a *custody.Allowance) error {
	a.Currency, a.Owner, a.Spender = a.Currency.ToLower(), a.Owner.ToLower(), a.Spender.ToLower()
	r.s.put(c, keys.RedisKey(string(a.Currency), string(a.Owner), string(a.Spender)), *a)
	return nil
}
