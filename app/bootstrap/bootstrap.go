// Package bootstrap loads the config and builds the usecases shared by the
// api server and the settler.
package bootstrap

import (
	"math/big"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/nftauction/base/ctx"
	"github.com/x-xyz/nftauction/base/database/mongoclient"
	"github.com/x-xyz/nftauction/base/database/redisclient"
	"github.com/x-xyz/nftauction/base/env"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/memtx"
	"github.com/x-xyz/nftauction/base/metrics"
	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/domain/auction"
	"github.com/x-xyz/nftauction/domain/custody"
	hcdomain "github.com/x-xyz/nftauction/domain/healthcheck"
	"github.com/x-xyz/nftauction/domain/keys"
	"github.com/x-xyz/nftauction/domain/pricefeed"
	"github.com/x-xyz/nftauction/service/cache"
	"github.com/x-xyz/nftauction/service/cache/provider"
	"github.com/x-xyz/nftauction/service/cache/provider/compound"
	"github.com/x-xyz/nftauction/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/nftauction/service/cache/provider/redis"
	"github.com/x-xyz/nftauction/service/chain"
	"github.com/x-xyz/nftauction/service/chainlink"
	"github.com/x-xyz/nftauction/service/lock"
	"github.com/x-xyz/nftauction/service/query"
	"github.com/x-xyz/nftauction/service/redis"
	auction_repository "github.com/x-xyz/nftauction/stores/auction/repository"
	auction_usecase "github.com/x-xyz/nftauction/stores/auction/usecase"
	auth_usecase "github.com/x-xyz/nftauction/stores/auth/usecase"
	custody_repository "github.com/x-xyz/nftauction/stores/custody/repository"
	custody_usecase "github.com/x-xyz/nftauction/stores/custody/usecase"
	hc_repo "github.com/x-xyz/nftauction/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/nftauction/stores/healthcheck/usecase"
	pricefeed_repository "github.com/x-xyz/nftauction/stores/pricefeed/repository"
	pricefeed_usecase "github.com/x-xyz/nftauction/stores/pricefeed/usecase"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	defaultConfigPath = "infra/configs/config.yaml"
)

// Deps holds everything the binaries serve or run
type Deps struct {
	Admin       domain.Address
	Auth        domain.AuthUsecase
	Custody     custody.Usecase
	PriceFeed   pricefeed.Usecase
	Auction     auction.Usecase
	Locker      domain.Locker
	HealthCheck hcdomain.HealthCheckUsecase
	// HttpCache layers for the response cache middleware, fastest first
	HttpCache []provider.Provider
}

type fixedFeed struct {
	Feed     string `mapstructure:"feed"`
	Answer   string `mapstructure:"answer"`
	Decimals uint8  `mapstructure:"decimals"`
}

// LoadConfig reads the yaml config from --config, AUCTION_CONFIG or the
// default location, in that order.
func LoadConfig() {
	path := pflag.String("config", "", "path of the yaml config")
	pflag.Parse()

	file := defaultConfigPath
	if p := env.ConfigPath(); p != "" {
		file = p
	}
	if *path != "" {
		file = *path
	}

	viper.SetDefault("backend", BackendMemory)
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("chainlink.cacheSizeMB", 16)
	viper.SetDefault("http.cacheSizeMB", 64)
	viper.SetDefault("auth.tokenTtl", "24h")

	viper.SetConfigType("yaml")
	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	log.SetDebug(viper.GetBool("debug"))
	if viper.GetBool("debug") {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// Build connects the configured stores and wires every usecase
func Build(c ctx.Ctx) *Deps {
	admin := domain.Address(viper.GetString("admin.address")).ToLower()
	if !admin.IsValid() || admin.IsEmpty() {
		c.WithField("admin", admin).Panic("invalid admin.address")
	}
	escrow := domain.Address(viper.GetString("auction.escrow")).ToLower()
	if !escrow.IsValid() || escrow.IsNative() || escrow.Equals(admin) {
		c.WithField("escrow", escrow).Panic("invalid auction.escrow")
	}

	var redisCache redis.Service
	if viper.GetBool("redis.enabled") {
		c.Info("init redis")
		redisName := viper.GetString("redis.name")
		redisPool := redisclient.MustConnectRedis(redisclient.Config{
			URI:            viper.GetString("redis.uri"),
			Password:       viper.GetString("redis.password"),
			DB:             viper.GetInt("redis.db"),
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
			Retry:          true,
		})
		redisCache = redis.New(redisName, metrics.New(redisName), redisPool)
	}

	deps := &Deps{Admin: admin}

	if redisCache != nil {
		deps.Locker = lock.NewRedis(redisCache)
	} else {
		deps.Locker = lock.NewLocal()
	}

	// cache layers for oracle rounds and http responses
	priceLayers := []provider.Provider{primitive.NewPrimitive(keys.PfxPriceFeed, viper.GetInt("chainlink.cacheSizeMB"))}
	deps.HttpCache = []provider.Provider{primitive.NewPrimitive("httpCacheMiddleware", viper.GetInt("http.cacheSizeMB"))}
	if redisCache != nil {
		priceLayers = append(priceLayers, redisProvider.NewRedis(redisCache))
		deps.HttpCache = append(deps.HttpCache, redisProvider.NewRedis(redisCache))
	}

	var (
		mongoClient   *mongoclient.Client
		tx            domain.Transactor
		auctionRepo   auction.Repo
		bidRepo       auction.BidRepo
		nftRepo       custody.NftRepo
		balanceRepo   custody.BalanceRepo
		allowanceRepo custody.AllowanceRepo
		priceFeedRepo pricefeed.Repo
	)

	switch backend := viper.GetString("backend"); backend {
	case BackendMongo:
		c.Info("init mongo")
		mongoClient = mongoclient.MustConnectMongoClient(mongoclient.Config{
			URI:                viper.GetString("mongo.uri"),
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DBName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			PoolSizeMultiplier: viper.GetFloat64("mongo.poolSizeMultiplier"),
		})
		q := query.New(mongoClient, viper.GetBool("mongo.checkIndex"))
		if viper.GetBool("mongo.ensureIndexes") {
			for name, ensure := range map[string]func(ctx.Ctx, query.Mongo) error{
				"auction":   auction_repository.EnsureIndexes,
				"custody":   custody_repository.EnsureIndexes,
				"pricefeed": pricefeed_repository.EnsureIndexes,
			} {
				if err := ensure(c, q); err != nil {
					c.WithFields(log.Fields{"err": err, "store": name}).Panic("EnsureIndexes failed")
				}
			}
		}
		tx = q
		auctionRepo = auction_repository.NewMongo(q)
		bidRepo = auction_repository.NewBidMongo(q)
		nftRepo = custody_repository.NewNftMongo(q)
		balanceRepo = custody_repository.NewBalanceMongo(q)
		allowanceRepo = custody_repository.NewAllowanceMongo(q)
		priceFeedRepo = pricefeed_repository.NewMongo(q)
	case BackendMemory:
		c.Warn("using in-memory stores, state is lost on restart")
		tx = memtx.New()
		auctionRepo = auction_repository.NewMemory()
		bidRepo = auction_repository.NewBidMemory()
		nftRepo = custody_repository.NewNftMemory()
		balanceRepo = custody_repository.NewBalanceMemory()
		allowanceRepo = custody_repository.NewAllowanceMemory()
		priceFeedRepo = pricefeed_repository.NewMemory()
	default:
		c.WithField("backend", backend).Panic("unknown backend")
	}

	deps.HealthCheck = hc_usecase.New(hc_repo.New(mongoClient, redisCache))

	deps.Auth = auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		JwtSecret:    viper.GetString("auth.jwtSecret"),
		SignatureMsg: viper.GetString("auth.signatureMsg"),
		Admin:        admin,
		TokenTtl:     viper.GetDuration("auth.tokenTtl"),
	})

	deps.Custody = custody_usecase.New(&custody_usecase.CustodyUseCaseCfg{
		NftRepo:       nftRepo,
		BalanceRepo:   balanceRepo,
		AllowanceRepo: allowanceRepo,
		Transactor:    tx,
		Escrow:        escrow,
		Admin:         admin,
	})

	deps.PriceFeed = pricefeed_usecase.New(&pricefeed_usecase.PriceFeedUseCaseCfg{
		Repo:   priceFeedRepo,
		Reader: newReader(c, priceLayers),
		Admin:  admin,
	})

	deps.Auction = auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		Repo:       auctionRepo,
		BidRepo:    bidRepo,
		Custody:    deps.Custody,
		PriceFeed:  deps.PriceFeed,
		Transactor: tx,
		Locker:     deps.Locker,
		Admin:      admin,
		LockTtl:    viper.GetDuration("auction.lockTtl"),
	})

	return deps
}

// newReader reads aggregators over rpc, or serves the configured fixed
// answers when no rpc is set
func newReader(c ctx.Ctx, layers []provider.Provider) chainlink.Reader {
	if rpcUrl := viper.GetString("chain.rpcUrl"); rpcUrl != "" {
		client, err := chain.NewClient(c, &chain.ClientCfg{
			RpcUrl:         rpcUrl,
			MaxConcurrency: viper.GetInt("chain.maxConcurrency"),
		})
		if err != nil {
			c.WithField("err", err).Panic("chain.NewClient failed")
		}
		ttl := viper.GetDuration("chainlink.cacheTtl")
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		return chainlink.New(client, cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   keys.PfxPriceFeed,
			Cache: compound.NewCompound(layers),
		}))
	}

	feeds := []fixedFeed{}
	if err := viper.UnmarshalKey("chainlink.fixed", &feeds); err != nil {
		c.WithField("err", err).Panic("invalid chainlink.fixed")
	}
	reader := chainlink.NewFixed()
	for _, f := range feeds {
		answer, ok := new(big.Int).SetString(f.Answer, 10)
		if !ok {
			c.WithField("answer", f.Answer).Panic("invalid fixed answer")
		}
		reader.Set(domain.Address(f.Feed), answer, f.Decimals)
	}
	c.WithField("feeds", len(feeds)).Info("using fixed price feeds")
	return reader
}
