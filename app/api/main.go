package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/nftauction/app/bootstrap"
	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/settler"
	bValidator "github.com/x-xyz/nftauction/base/validator"
	mmiddleware "github.com/x-xyz/nftauction/middleware"
	auction_delivery "github.com/x-xyz/nftauction/stores/auction/delivery/http"
	auth_delivery "github.com/x-xyz/nftauction/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/nftauction/stores/auth/delivery/http/middleware"
	custody_delivery "github.com/x-xyz/nftauction/stores/custody/delivery/http"
	hc_delivery "github.com/x-xyz/nftauction/stores/healthcheck/delivery/http"
	pricefeed_delivery "github.com/x-xyz/nftauction/stores/pricefeed/delivery/http"
)

func main() {
	bootstrap.LoadConfig()

	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context, cancel := ctx.WithCancel(ctx.Background())
	defer cancel()

	deps := bootstrap.Build(context)
	mmiddleware.SetupCache(deps.HttpCache...)

	authMiddleware := auth_middleware.New(deps.Auth)

	hc_delivery.New(e, deps.HealthCheck)
	auth_delivery.New(e, deps.Auth, viper.GetString("auth.signatureMsg"))
	custody_delivery.New(e, deps.Custody, authMiddleware)
	pricefeed_delivery.New(e, deps.PriceFeed, authMiddleware)
	auction_delivery.New(e, deps.Auction, authMiddleware)

	// single instance deployments close auctions in process
	var s *settler.Settler
	if viper.GetBool("settler.embedded") {
		s = settler.New(&settler.SettlerCfg{
			Auction:  deps.Auction,
			Locker:   deps.Locker,
			Admin:    deps.Admin,
			Interval: viper.GetDuration("settler.interval"),
			Limit:    viper.GetInt32("settler.limit"),
			Workers:  viper.GetInt("settler.workers"),
		})
		s.Start(context)
	}

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	cancel()
	if s != nil {
		s.Wait()
	}

	shutdownCtx, shutdownCancel := ctx.WithTimeout(ctx.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	_ = log.Sync()
}
