package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	authMiddleware "github.com/x-xyz/nftauction/stores/auth/delivery/http/middleware"
)

const defaultLimit = 50

type handler struct {
	au auction.Usecase
}

func New(e *echo.Echo, au auction.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{au: au}

	g := e.Group("/auctions")
	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.Auth())
	g.GET("/:id", h.get)
	g.GET("/:id/bids", h.listBids)
	g.POST("/:id/bids", h.bid, authMiddleware.Auth())
	g.POST("/:id/end", h.end, authMiddleware.Auth())
}

func parseId(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.ErrBadParamInput
	}
	return id, nil
}

type listParams struct {
	Seller  domain.Address `query:"seller" validate:"omitempty,eth_addr"`
	Ended   string         `query:"ended" validate:"omitempty,oneof=true false"`
	SortDir string         `query:"sortDir" validate:"omitempty,oneof=asc desc"`
	Offset  int32          `query:"offset" validate:"gte=0"`
	Limit   int32          `query:"limit" validate:"gte=0,lte=200"`
}

func (p *listParams) options() []auction.FindAllOptions {
	limit := p.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	opts := []auction.FindAllOptions{auction.WithPagination(p.Offset, limit)}
	if p.SortDir == "desc" {
		opts = append(opts, auction.WithSort("id", domain.SortDirDesc))
	}
	if !p.Seller.IsEmpty() {
		opts = append(opts, auction.WithSeller(p.Seller))
	}
	if p.Ended != "" {
		opts = append(opts, auction.WithEnded(p.Ended == "true"))
	}
	return opts
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &listParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.au.FindAll(ctx, p.options()...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.au.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type payload struct {
		Duration      uint64         `json:"duration"`
		NftAddress    domain.Address `json:"nftAddress" validate:"required,eth_addr"`
		StartingPrice domain.Wei     `json:"startingPrice" validate:"required,wei"`
		TokenId       domain.TokenId `json:"tokenId" validate:"required,numeric"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.au.CreateAuction(ctx, caller, auction.CreateParams{
		Duration:      p.Duration,
		NftContract:   p.NftAddress,
		StartingPrice: p.StartingPrice,
		TokenId:       p.TokenId,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, a)
}

func (h *handler) bid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type payload struct {
		Amount   domain.Wei     `json:"amount" validate:"omitempty,wei"`
		Currency domain.Address `json:"currency" validate:"omitempty,eth_addr"`
		// Value is the native amount sent with the bid
		Value domain.Wei `json:"value" validate:"omitempty,wei"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.au.BidWith(ctx, caller, id, auction.BidParams{
		Amount:      p.Amount,
		Currency:    p.Currency,
		NativeValue: p.Value,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, a)
}

func (h *handler) listBids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p := &listParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	limit := p.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	opts := []auction.FindAllOptions{auction.WithPagination(p.Offset, limit)}
	if p.SortDir == "desc" {
		opts = append(opts, auction.WithSort("createdAt", domain.SortDirDesc))
	}

	res, err := h.au.ListBids(ctx, id, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) end(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	id, err := parseId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	s, err := h.au.EndAuction(ctx, caller, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, s)
}
