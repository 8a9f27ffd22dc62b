package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/cache"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/geography"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/inventory"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/pricing"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/routing"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/notify"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage/memory"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage/repository"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/MikeRez0/ypfulfillment/internal/core/service"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

var errMissingCollaborator = errors.New("collaborator address is required in PROD mode")

// newRepository uses Postgres when a DSN is configured and process memory otherwise.
func newRepository(ctx context.Context, conf *config.Config, log *zap.Logger) (port.Repository, func(), error) {
	if conf.Database.DSN == "" {
		if conf.App.Mode == config.AppModeProduction {
			return nil, nil, errors.New("database is required in PROD mode")
		}
		log.Warn("no database configured, orders are kept in memory")
		return memory.NewRepository(), func() {}, nil
	}

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database migration error: %w", err)
	}
	repo, err := repository.NewRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db.Close, nil
}

func newCollaborators(conf *config.Config, log *zap.Logger) (service.Collaborators, func(), error) {
	var deps service.Collaborators
	closers := make([]func() error, 0)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("collaborator close error", zap.Error(err))
			}
		}
	}

	if conf.Inventory.HostString != "" {
		client, err := inventory.NewClient(conf.Inventory, log.Named("Inventory"))
		if err != nil {
			return deps, nil, err
		}
		deps.Inventory = client
	} else {
		if conf.App.Mode == config.AppModeProduction {
			return deps, nil, fmt.Errorf("inventory: %w", errMissingCollaborator)
		}
		log.Warn("no inventory service configured, using demo stock")
		deps.Inventory = demoLedger()
	}

	var geo port.GeographyClient
	if conf.Geography.HostString != "" {
		client, err := geography.NewClient(conf.Geography, log.Named("Geography"))
		if err != nil {
			return deps, nil, err
		}
		geo = client
	} else {
		if conf.App.Mode == config.AppModeProduction {
			return deps, nil, fmt.Errorf("geography: %w", errMissingCollaborator)
		}
		log.Warn("no geography service configured, using demo branches")
		geo = demoBranches()
	}
	if conf.Cache.RedisAddr != "" {
		c, closeCache := cache.NewRedisCache(conf.Cache.RedisAddr, conf.Telemetry.ServiceName)
		closers = append(closers, closeCache)
		geo = geography.NewCached(geo, c, conf.Cache.GeocodeTTL, log.Named("Geocode cache"))
	}
	deps.Geography = geo

	if conf.Pricing.HostString != "" {
		client, err := pricing.NewClient(conf.Pricing, log.Named("Pricing"))
		if err != nil {
			return deps, nil, err
		}
		deps.Pricing = client
	}
	if conf.Routing.HostString != "" {
		client, err := routing.NewClient(conf.Routing, log.Named("Routing"))
		if err != nil {
			return deps, nil, err
		}
		deps.Routing = client
	}

	if len(conf.Notify.Brokers) > 0 {
		k := notify.NewKafka(conf.Notify, log.Named("Notify"))
		closers = append(closers, k.Close)
		deps.Notifier = k
	} else {
		log.Warn("no kafka brokers configured, notifications are dropped")
		deps.Notifier = notify.Nop{}
	}

	return deps, closeAll, nil
}

func demoLedger() *inventory.Ledger {
	l := inventory.NewLedger()
	l.AddProduct(domain.ProductInfo{ProductID: "tea", Name: "Green tea", SKU: "TEA-100", Price: decimal.MustParse("4.50")})
	l.AddProduct(domain.ProductInfo{ProductID: "mug", Name: "Ceramic mug", SKU: "MUG-001", Price: decimal.MustParse("12.00")})
	l.SetStock("north", "tea", 20)
	l.SetStock("north", "mug", 1)
	l.SetStock("south", "tea", 50)
	l.SetStock("south", "mug", 10)
	return l
}

func demoBranches() *geography.Static {
	return &geography.Static{
		Branches: []domain.Branch{
			{ID: "north", Name: "North", Address: "1 North Road", Coordinates: &domain.Coordinates{Lat: 52.52, Lng: 13.40}},
			{ID: "south", Name: "South", Address: "9 South Road", Coordinates: &domain.Coordinates{Lat: 52.45, Lng: 13.38}},
		},
		Addresses: map[string]domain.Coordinates{
			"10 main street": {Lat: 52.50, Lng: 13.39},
		},
	}
}
