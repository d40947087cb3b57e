package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/nftauction/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// SignIn verifies a personal_sign signature over the login message and returns a token
	SignIn(c ctx.Ctx, address Address, signature string, timestamp int64) (string, error)
	SignToken(c ctx.Ctx, address Address) (string, error)
	ParseToken(c ctx.Ctx, token string) (Address, error)
	// Admin is the only identity allowed to create and end auctions and to configure feeds
	Admin() Address
	IsAdmin(address Address) bool
}
