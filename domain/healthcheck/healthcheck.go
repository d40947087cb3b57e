package healthcheck

import (
	"github.com/x-xyz/nftauction/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// HealthCheckRepo pings every backing store the service was started with
type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
}
