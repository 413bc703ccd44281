package journeys

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkovalenko/railgo/internal/domain"
	redisx "github.com/dkovalenko/railgo/internal/redis"
	"github.com/dkovalenko/railgo/internal/repository"
	postgresrepo "github.com/dkovalenko/railgo/internal/repository/postgres"
	redisrepo "github.com/dkovalenko/railgo/internal/repository/redis"
	"github.com/dkovalenko/railgo/internal/uow"
)

type Config struct {
	AvailabilityTTL time.Duration
	SummaryTTL      time.Duration
	DefaultPage     int
	MaxPage         int
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.JourneysPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.JourneysPubSub,
	cfg Config,
) *Service {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = 60 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 20
	}

	if cfg.MaxPage <= 0 || cfg.MaxPage < cfg.DefaultPage {
		cfg.MaxPage = 100
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// Create schedules a journey.
//
// Returns:
//   - int64: the created journey ID.
//   - error: journeys.ErrBadReference if the route, train or a crew
//     member does not exist.
func (s *Service) Create(ctx context.Context, j domain.Journey) (int64, error) {
	const op = "service.journeys.Create"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Journeys().With(tx).Create(ctx, j)
		if err != nil {
			if errors.Is(err, repository.ErrInvalidReference) {
				return fmt.Errorf("%s: %w", op, ErrBadReference)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})

	return id, err
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Journey, error) {
	const op = "service.journeys.Get"

	j, err := s.store.Journeys().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrJourneyNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return j, nil
}

// GetDetail retrieves the detail representation with embedded route,
// train, crew and taken places, served through the short-TTL cache.
func (s *Service) GetDetail(ctx context.Context, id int64) (*domain.JourneyDetail, error) {
	const op = "service.journeys.GetDetail"

	key := redisx.KeyJourneySummary(id)

	detail, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.SummaryTTL,
		func(ctx context.Context) (domain.JourneyDetail, error) {
			jd, err := s.store.Journeys().GetDetail(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.JourneyDetail{}, ErrJourneyNotFound
				}

				return domain.JourneyDetail{}, err
			}

			return *jd, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &detail, nil
}

// List returns journey summaries with derived available_places.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.JourneySummary, error) {
	const op = "service.journeys.List"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}

	out, err := s.store.Journeys().List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Availability computes the journey's current seat inventory:
// capacity minus booked tickets, cached for a few seconds. A read may
// be immediately stale; inventory is advisory until an order commits.
func (s *Service) Availability(ctx context.Context, journeyID int64) (*domain.JourneyAvailability, error) {
	const op = "service.journeys.Availability"

	key := redisx.KeyJourneyAvailability(journeyID)

	a, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.JourneyAvailability, error) {
			av, err := s.store.Journeys().Availability(ctx, journeyID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.JourneyAvailability{}, ErrJourneyNotFound
				}

				return domain.JourneyAvailability{}, err
			}

			return *av, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &a, nil
}

func (s *Service) Update(ctx context.Context, j domain.Journey) error {
	const op = "service.journeys.Update"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Journeys().With(tx).Update(ctx, j); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrJourneyNotFound)
			}
			if errors.Is(err, repository.ErrInvalidReference) {
				return fmt.Errorf("%s: %w", op, ErrBadReference)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateJourney(ctx, j.ID)
			_ = s.pubsub.PublishJourneyChanged(ctx, j.ID)
		})
		return nil
	})

	return err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "service.journeys.Delete"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Journeys().With(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrJourneyNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateJourney(ctx, id)
			_ = s.pubsub.PublishJourneyChanged(ctx, id)
		})
		return nil
	})

	return err
}
