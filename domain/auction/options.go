package auction

import (
	"github.com/x-xyz/nftauction/base/ptr"
	"github.com/x-xyz/nftauction/domain"
)

type findAllOptions struct {
	SortBy        *string
	SortDir       *domain.SortDir
	Offset        *int32
	Limit         *int32
	Seller        *domain.Address
	Ended         *bool
	EndTimeBefore *int64
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (findAllOptions, error) {
	res := findAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithSort(sortby string, sortdir domain.SortDir) FindAllOptions {
	return func(options *findAllOptions) error {
		options.SortBy = ptr.String(sortby)
		options.SortDir = &sortdir
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptions {
	return func(options *findAllOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = ptr.Int32(offset)
		options.Limit = ptr.Int32(limit)
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		seller = seller.ToLower()
		options.Seller = &seller
		return nil
	}
}

func WithEnded(ended bool) FindAllOptions {
	return func(options *findAllOptions) error {
		options.Ended = ptr.Bool(ended)
		return nil
	}
}

// WithEndTimeBefore keeps auctions whose startTime + duration <= ts
func WithEndTimeBefore(ts int64) FindAllOptions {
	return func(options *findAllOptions) error {
		options.EndTimeBefore = ptr.Int64(ts)
		return nil
	}
}
