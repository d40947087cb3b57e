package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/ethereum"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/domain"
)

const (
	defaultTokenTtl = 24 * time.Hour
	// maxClockSkew bounds how old or how far ahead a signed login may be
	maxClockSkew = 5 * time.Minute
)

var timeNow = time.Now

type AuthUseCaseCfg struct {
	JwtSecret string
	// SignatureMsg is the login message, %d is replaced by the unix timestamp
	SignatureMsg string
	Admin        domain.Address
	TokenTtl     time.Duration
}

type impl struct {
	jwtSecret    []byte
	signatureMsg string
	admin        domain.Address
	tokenTtl     time.Duration
}

func New(cfg *AuthUseCaseCfg) domain.AuthUsecase {
	ttl := cfg.TokenTtl
	if ttl <= 0 {
		ttl = defaultTokenTtl
	}
	return &impl{
		jwtSecret:    []byte(cfg.JwtSecret),
		signatureMsg: cfg.SignatureMsg,
		admin:        cfg.Admin.ToLower(),
		tokenTtl:     ttl,
	}
}

func (im *impl) Admin() domain.Address {
	return im.admin
}

func (im *impl) IsAdmin(address domain.Address) bool {
	return address.Equals(im.admin)
}

func (im *impl) SignIn(c ctx.Ctx, address domain.Address, signature string, timestamp int64) (string, error) {
	if !address.IsValid() {
		return "", domain.ErrInvalidAddress
	}

	skew := timeNow().Sub(time.Unix(timestamp, 0))
	if skew > maxClockSkew || skew < -maxClockSkew {
		return "", xerrors.Errorf("%w: timestamp %d out of range", domain.ErrInvalidSignature, timestamp)
	}

	msg := fmt.Sprintf(im.signatureMsg, timestamp)
	if ok, err := ethereum.ValidateMsgSignature([]byte(msg), signature, string(address)); err != nil {
		c.WithFields(log.Fields{"err": err, "address": address}).Warn("ethereum.ValidateMsgSignature failed")
		return "", xerrors.Errorf("%w: %s", domain.ErrInvalidSignature, err)
	} else if !ok {
		return "", domain.ErrInvalidSignature
	}

	return im.SignToken(c, address)
}

func (im *impl) SignToken(c ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  timeNow().Unix(),
			ExpiresAt: timeNow().Add(im.tokenTtl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(c ctx.Ctx, str string) (domain.Address, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if token != nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return domain.Address(claims.Address), nil
		}
	}

	if err == nil {
		err = domain.ErrInvalidSignature
	}
	return "", err
}
