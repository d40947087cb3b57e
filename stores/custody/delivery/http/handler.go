package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/delivery"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/custody"
	"github.com/x-xyz/nftauction/middleware"
	authMiddleware "github.com/x-xyz/nftauction/stores/auth/delivery/http/middleware"
)

type handler struct {
	cu custody.Usecase
}

func New(e *echo.Echo, cu custody.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{cu: cu}

	nfts := e.Group("/nfts")
	nfts.GET("/:contract/:tokenId/owner", h.ownerOf, middleware.IsValidAddress("contract"))
	nfts.POST("/:contract/:tokenId/approve", h.approve, middleware.IsValidAddress("contract"), authMiddleware.Auth())
	nfts.POST("/:contract/:tokenId/mint", h.mint, middleware.IsValidAddress("contract"), authMiddleware.Auth())

	balances := e.Group("/balances")
	balances.GET("/:currency/:holder", h.balanceOf, middleware.IsValidAddress("currency"), middleware.IsValidAddress("holder"))
	balances.GET("/:currency/:holder/allowance/:spender", h.allowance, middleware.IsValidAddress("currency"), middleware.IsValidAddress("holder"), middleware.IsValidAddress("spender"))
	balances.POST("/:currency/approve", h.approveSpend, middleware.IsValidAddress("currency"), authMiddleware.Auth())
	balances.POST("/:currency/credit", h.credit, middleware.IsValidAddress("currency"), authMiddleware.Auth())
	balances.POST("/:currency/transfer", h.transfer, middleware.IsValidAddress("currency"), authMiddleware.Auth())

	e.GET("/escrow", h.escrow)
	e.GET("/account/:owner/nfts", h.tokensOf, middleware.IsValidAddress("owner"))
}

func (h *handler) escrow(c echo.Context) error {
	return delivery.MakeJsonResp(c, http.StatusOK, h.cu.Escrow())
}

func (h *handler) ownerOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	o, err := h.cu.OwnerOf(ctx, domain.Address(c.Param("contract")), domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, o)
}

func (h *handler) tokensOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	res, err := h.cu.TokensOf(ctx, domain.Address(c.Param("owner")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type payload struct {
		Operator domain.Address `json:"operator" validate:"required,eth_addr"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.cu.Approve(ctx, caller, domain.Address(c.Param("contract")), domain.TokenId(c.Param("tokenId")), p.Operator); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, true)
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type payload struct {
		To domain.Address `json:"to" validate:"required,eth_addr"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.cu.Mint(ctx, caller, domain.Address(c.Param("contract")), domain.TokenId(c.Param("tokenId")), p.To); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, true)
}

func (h *handler) balanceOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	b, err := h.cu.BalanceOf(ctx, domain.Address(c.Param("currency")), domain.Address(c.Param("holder")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, b)
}

func (h *handler) allowance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	a, err := h.cu.Allowance(ctx, domain.Address(c.Param("currency")), domain.Address(c.Param("holder")), domain.Address(c.Param("spender")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, a)
}

type amountPayload struct {
	To      domain.Address `json:"to" validate:"omitempty,eth_addr"`
	Spender domain.Address `json:"spender" validate:"omitempty,eth_addr"`
	Amount  domain.Wei     `json:"amount" validate:"required,wei"`
}

func (h *handler) bindAmount(c echo.Context) (*amountPayload, error) {
	p := &amountPayload{}
	if err := c.Bind(p); err != nil {
		return nil, err
	}
	if err := c.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *handler) approveSpend(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p, err := h.bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.cu.ApproveSpend(ctx, caller, domain.Address(c.Param("currency")), p.Spender, p.Amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, true)
}

func (h *handler) credit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p, err := h.bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.cu.Credit(ctx, caller, domain.Address(c.Param("currency")), p.To, p.Amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, true)
}

func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p, err := h.bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.cu.Transfer(ctx, caller, domain.Address(c.Param("currency")), p.To, p.Amount); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, true)
}
