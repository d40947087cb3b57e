package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/pricefeed"
	"github.com/x-xyz/nftauction/middleware"
	authMiddleware "github.com/x-xyz/nftauction/stores/auth/delivery/http/middleware"
)

const latestCacheTtl = 5 * time.Second

type handler struct {
	pu pricefeed.Usecase
}

func New(e *echo.Echo, pu pricefeed.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{pu: pu}

	g := e.Group("/pricefeeds")
	g.GET("", h.list)
	g.GET("/:currency", h.get, middleware.IsValidAddress("currency"))
	g.GET("/:currency/latest", h.latest, middleware.IsValidAddress("currency"), middleware.CacheHttp(latestCacheTtl))
	g.PUT("/:currency", h.set, middleware.IsValidAddress("currency"), authMiddleware.Auth())
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	feeds, err := h.pu.FindAll(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, feeds)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	feed, err := h.pu.GetFeed(ctx, domain.Address(c.Param("currency")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, feed)
}

func (h *handler) latest(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	ans, err := h.pu.LatestAnswer(ctx, domain.Address(c.Param("currency")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Answer    string `json:"answer"`
		Decimals  uint8  `json:"decimals"`
		Price     string `json:"price"`
		UpdatedAt int64  `json:"updatedAt"`
	}{
		Answer:    ans.Answer.String(),
		Decimals:  ans.Decimals,
		Price:     ans.Price().String(),
		UpdatedAt: ans.UpdatedAt.Unix(),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) set(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type payload struct {
		FeedAddress   domain.Address `json:"feedAddress" validate:"required,eth_addr"`
		TokenDecimals *int32         `json:"tokenDecimals"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	feed, err := h.pu.SetPriceFeed(ctx, caller, domain.Address(c.Param("currency")), pricefeed.SetParams{
		FeedAddress:   p.FeedAddress,
		TokenDecimals: p.TokenDecimals,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, feed)
}
