package service

import (
	postgres "github.com/dkovalenko/railgo/internal/repository/postgres"
	redis "github.com/dkovalenko/railgo/internal/repository/redis"
	"github.com/dkovalenko/railgo/internal/service/audit"
	"github.com/dkovalenko/railgo/internal/service/catalog"
	"github.com/dkovalenko/railgo/internal/service/journeys"
	"github.com/dkovalenko/railgo/internal/service/orders"
)

type Services struct {
	Catalog  *catalog.Service
	Journeys *journeys.Service
	Orders   *orders.Service
	Audit    *audit.Service
}

type Config struct {
	Catalog  catalog.Config
	Journeys journeys.Config
	Orders   orders.Config
	Audit    audit.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.JourneysPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Catalog:  catalog.New(store, cfg.Catalog),
		Journeys: journeys.New(store, cache, pubsub, cfg.Journeys),
		Orders:   orders.New(store, cache, pubsub, limiter, cfg.Orders),
		Audit:    audit.New(store, cfg.Audit),
	}
}
