package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/x-xyz/nftauction/app/bootstrap"
	bCtx "github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/settler"
)

func main() {
	bootstrap.LoadConfig()
	if viper.GetString("backend") == bootstrap.BackendMemory {
		log.Log().Panic("the settler needs a shared backend, memory stores belong to the api process")
	}

	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	deps := bootstrap.Build(ctx)

	s := settler.New(&settler.SettlerCfg{
		Auction:  deps.Auction,
		Locker:   deps.Locker,
		Admin:    deps.Admin,
		Interval: viper.GetDuration("settler.interval"),
		Limit:    viper.GetInt32("settler.limit"),
		Workers:  viper.GetInt("settler.workers"),
	})

	ctx.Info("starting settler")
	s.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	ctx.WithField("signal", sig).Info("received signal")

	cancel()
	s.Wait()
	ctx.Info("settler stopped")
	_ = log.Sync()
}
