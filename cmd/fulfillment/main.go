package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/auth"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/handler/http"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/logger"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage/journal"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/telemetry"
	"github.com/MikeRez0/ypfulfillment/internal/core/service"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, conf.Telemetry, conf.App.Mode)
	if err != nil {
		log.Error("tracer setup error", zap.Error(err))
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown error", zap.Error(err))
		}
	}()

	repo, closeRepo, err := newRepository(ctx, conf, log)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	defer closeRepo()

	deps, closeDeps, err := newCollaborators(conf, log)
	if err != nil {
		log.Error("collaborators creating error", zap.Error(err))
		return
	}
	defer closeDeps()

	j, err := journal.Open(conf.Journal.Path)
	if err != nil {
		log.Error("reconciliation journal error", zap.Error(err))
		return
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Error("journal close error", zap.Error(err))
		}
	}()
	deps.Journal = j

	opts, err := newOptions(conf)
	if err != nil {
		log.Error("fulfillment options error", zap.Error(err))
		return
	}

	svc, err := service.NewService(repo, deps, opts, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}
	defer svc.Wait()

	tokenService, err := auth.New(conf.Auth)
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	actorHandler, err := http.NewActorHandler(tokenService, log.Named("Actor handler"))
	if err != nil {
		log.Error("actor handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, orderHandler, actorHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	log.Info("fulfillment started", zap.String("address", conf.HTTP.HostString), zap.String("mode", conf.App.Mode))
	err = r.Serve(ctx, conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
	log.Info("fulfillment stopped")
}

func newOptions(conf *config.Config) (service.Options, error) {
	fee, err := decimal.Parse(conf.Fulfillment.ShippingFee)
	if err != nil {
		return service.Options{}, fmt.Errorf("shipping fee: %w", err)
	}
	rate, err := decimal.Parse(conf.Fulfillment.TaxRate)
	if err != nil {
		return service.Options{}, fmt.Errorf("tax rate: %w", err)
	}
	if fee.IsNeg() || rate.IsNeg() {
		return service.Options{}, fmt.Errorf("shipping fee and tax rate must not be negative")
	}
	return service.Options{
		FanOut:        conf.Fulfillment.FanOut,
		ShippingFee:   fee,
		TaxRate:       rate,
		CallTimeout:   conf.Inventory.Timeout,
		NotifyTimeout: conf.Notify.Timeout,
	}, nil
}
