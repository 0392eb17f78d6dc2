package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/common-nighthawk/go-figure"
	"go.uber.org/zap"

	"github.com/qcbit/escrow-gateway/app/services/gateway/handlers"
	"github.com/qcbit/escrow-gateway/business/core/offer"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/nameservice"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
	"github.com/qcbit/escrow-gateway/foundation/logger"
	"github.com/qcbit/escrow-gateway/foundation/ratelimit"
)

// build is the git version of this program. It is set using -ldflags at build time.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("GATEWAY")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:40s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			APIHost         string        `conf:"default:0.0.0.0:3000"`
		}
		Proxy struct {
			URL     string        `conf:"default:https://devnet-gateway.multiversx.com"`
			Timeout time.Duration `conf:"default:30s"`
		}
		Network struct {
			ChainID       string `conf:"default:D"`
			GasLimit      uint64 `conf:"default:60000000"`
			GasPrice      uint64 `conf:"default:1000000000"`
			Version       uint32 `conf:"default:1"`
			VerifyChainID bool   `conf:"default:true"`
		}
		Contract struct {
			Address          string `conf:"default:erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0"`
			CreateFn         string `conf:"default:create"`
			CancelFn         string `conf:"default:cancelOffer"`
			AcceptFn         string `conf:"default:acceptOffer"`
			UserOffersFn     string `conf:"default:getUserActiveOffers"`
			IncomingOffersFn string `conf:"default:getUserIncomingActiveOffers"`
			ActiveOffersFn   string `conf:"default:getActiveOffers"`
			OfferFn          string `conf:"default:getOffer"`
		}
		Submit struct {
			SerializeSenders bool    `conf:"default:false"`
			RatePerSecond    float64 `conf:"default:5"`
			Burst            int     `conf:"default:10"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "© 2023 WTFPL",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "GATEWAY"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	escrowArt := figure.NewFigure("Escrow", "", true)
	escrowArt.Print()

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// ----------------------------------------------------------------
	// NameService Support
	// ----------------------------------------------------------------

	// The NameService package provides name resolution for the account addresses.
	// The names come from the key file names in the accounts folder.
	var ns *nameservice.NameService
	if _, err := os.Stat(cfg.NameService.Folder); err == nil {
		ns, err = nameservice.New(cfg.NameService.Folder)
		if err != nil {
			return fmt.Errorf("unable to create name service: %w", err)
		}

		for account, name := range ns.Copy() {
			log.Infow("startup", "status", "nameservice", "name", name, "account", account)
		}
	}

	// ----------------------------------------------------------------
	// Ledger Support
	// ----------------------------------------------------------------

	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
	}

	client, err := proxy.New(proxy.Config{
		URL:       cfg.Proxy.URL,
		Timeout:   cfg.Proxy.Timeout,
		EvHandler: ev,
	})
	if err != nil {
		return fmt.Errorf("unable to create proxy client: %w", err)
	}

	net := network.Config{
		ChainID:  cfg.Network.ChainID,
		GasLimit: cfg.Network.GasLimit,
		GasPrice: cfg.Network.GasPrice,
		Version:  cfg.Network.Version,
	}

	if cfg.Network.VerifyChainID {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Proxy.Timeout)
		defer cancel()

		nodeCfg, err := client.NetworkConfig(ctx)
		if err != nil {
			return fmt.Errorf("unable to fetch network config: %w", err)
		}
		if err := net.Check(nodeCfg); err != nil {
			return fmt.Errorf("network config mismatch: %w", err)
		}
		log.Infow("startup", "status", "network verified", "chainid", nodeCfg.ChainID)
	}

	contractAddr, err := address.Parse(cfg.Contract.Address)
	if err != nil {
		return fmt.Errorf("contract address: %w", err)
	}

	core, err := offer.NewCore(offer.Config{
		Log:     log,
		Node:    client,
		Network: net,
		Contract: offer.Contract{
			Address:          contractAddr,
			CreateFn:         cfg.Contract.CreateFn,
			CancelFn:         cfg.Contract.CancelFn,
			AcceptFn:         cfg.Contract.AcceptFn,
			UserOffersFn:     cfg.Contract.UserOffersFn,
			IncomingOffersFn: cfg.Contract.IncomingOffersFn,
			ActiveOffersFn:   cfg.Contract.ActiveOffersFn,
			OfferFn:          cfg.Contract.OfferFn,
		},
		SerializeSenders: cfg.Submit.SerializeSenders,
	})
	if err != nil {
		return fmt.Errorf("unable to create offer core: %w", err)
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.
	debugMux := handlers.DebugMux(build, log, client)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	// Construct the mux for the API calls.
	apiMux := handlers.APIMux(handlers.APIMuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Core:     core,
		NS:       ns,
		Limiter:  ratelimit.New(cfg.Submit.RatePerSecond, cfg.Submit.Burst, 0),
	})

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop api service gracefully: %w", err)
		}
	}

	return nil
}
