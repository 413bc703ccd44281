// Package catalog holds the administrative CRUD surface: stations,
// routes, train types, trains and crew. Writes run inside the
// transactional unit of work, reads go straight to the store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/dkovalenko/railgo/internal/repository"
	postgresrepo "github.com/dkovalenko/railgo/internal/repository/postgres"
	"github.com/dkovalenko/railgo/internal/uow"
)

type Config struct {
	DefaultPage int
	MaxPage     int
}

type Service struct {
	store *postgresrepo.Store
	uow   *uow.UoW
	cfg   Config
}

func New(store *postgresrepo.Store, cfg Config) *Service {
	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 20
	}

	if cfg.MaxPage <= 0 || cfg.MaxPage < cfg.DefaultPage {
		cfg.MaxPage = 100
	}

	return &Service{
		store: store,
		uow:   uow.NewUoW(store),
		cfg:   cfg,
	}
}

func (s *Service) page(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		return s.cfg.MaxPage
	}

	return limit
}

// translate maps repository errors onto the catalog sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrNameTaken)
	case errors.Is(err, repository.ErrInvalidReference):
		return fmt.Errorf("%s: %w", op, ErrBadReference)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// --- stations ---

func (s *Service) CreateStation(ctx context.Context, st domain.Station) (int64, error) {
	const op = "service.catalog.CreateStation"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Catalog().With(tx).CreateStation(ctx, st)
		return translate(op, err)
	})

	return id, err
}

func (s *Service) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	const op = "service.catalog.GetStation"

	st, err := s.store.Catalog().GetStation(ctx, id)
	if err != nil {
		return nil, translate(op, err)
	}

	return st, nil
}

func (s *Service) ListStations(ctx context.Context, name string, limit, offset int) ([]domain.Station, error) {
	const op = "service.catalog.ListStations"

	out, err := s.store.Catalog().ListStations(ctx, name, s.page(limit), offset)
	if err != nil {
		return nil, translate(op, err)
	}

	return out, nil
}

func (s *Service) UpdateStation(ctx context.Context, st domain.Station) error {
	const op = "service.catalog.UpdateStation"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).UpdateStation(ctx, st))
	})
}

func (s *Service) DeleteStation(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteStation"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).DeleteStation(ctx, id))
	})
}

// --- routes ---

func (s *Service) CreateRoute(ctx context.Context, rt domain.Route) (int64, error) {
	const op = "service.catalog.CreateRoute"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Catalog().With(tx).CreateRoute(ctx, rt)
		return translate(op, err)
	})

	return id, err
}

func (s *Service) GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	const op = "service.catalog.GetRoute"

	rd, err := s.store.Catalog().GetRoute(ctx, id)
	if err != nil {
		return nil, translate(op, err)
	}

	return rd, nil
}

func (s *Service) ListRoutes(ctx context.Context, sourceID, destinationID int64, limit, offset int) ([]domain.Route, error) {
	const op = "service.catalog.ListRoutes"

	out, err := s.store.Catalog().ListRoutes(ctx, sourceID, destinationID, s.page(limit), offset)
	if err != nil {
		return nil, translate(op, err)
	}

	return out, nil
}

func (s *Service) UpdateRoute(ctx context.Context, rt domain.Route) error {
	const op = "service.catalog.UpdateRoute"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).UpdateRoute(ctx, rt))
	})
}

func (s *Service) DeleteRoute(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteRoute"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).DeleteRoute(ctx, id))
	})
}

// --- train types ---

func (s *Service) CreateTrainType(ctx context.Context, tt domain.TrainType) (int64, error) {
	const op = "service.catalog.CreateTrainType"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Catalog().With(tx).CreateTrainType(ctx, tt)
		return translate(op, err)
	})

	return id, err
}

func (s *Service) GetTrainType(ctx context.Context, id int64) (*domain.TrainType, error) {
	const op = "service.catalog.GetTrainType"

	tt, err := s.store.Catalog().GetTrainType(ctx, id)
	if err != nil {
		return nil, translate(op, err)
	}

	return tt, nil
}

func (s *Service) ListTrainTypes(ctx context.Context, name string, limit, offset int) ([]domain.TrainType, error) {
	const op = "service.catalog.ListTrainTypes"

	out, err := s.store.Catalog().ListTrainTypes(ctx, name, s.page(limit), offset)
	if err != nil {
		return nil, translate(op, err)
	}

	return out, nil
}

func (s *Service) UpdateTrainType(ctx context.Context, tt domain.TrainType) error {
	const op = "service.catalog.UpdateTrainType"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).UpdateTrainType(ctx, tt))
	})
}

func (s *Service) DeleteTrainType(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteTrainType"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).DeleteTrainType(ctx, id))
	})
}

// --- trains ---

func (s *Service) CreateTrain(ctx context.Context, t domain.Train) (int64, error) {
	const op = "service.catalog.CreateTrain"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Catalog().With(tx).CreateTrain(ctx, t)
		return translate(op, err)
	})

	return id, err
}

func (s *Service) GetTrain(ctx context.Context, id int64) (*domain.TrainDetail, error) {
	const op = "service.catalog.GetTrain"

	td, err := s.store.Catalog().GetTrain(ctx, id)
	if err != nil {
		return nil, translate(op, err)
	}

	return td, nil
}

func (s *Service) ListTrains(ctx context.Context, typeIDs []int64, name string, limit, offset int) ([]domain.TrainSummary, error) {
	const op = "service.catalog.ListTrains"

	out, err := s.store.Catalog().ListTrains(ctx, typeIDs, name, s.page(limit), offset)
	if err != nil {
		return nil, translate(op, err)
	}

	return out, nil
}

func (s *Service) UpdateTrain(ctx context.Context, t domain.Train) error {
	const op = "service.catalog.UpdateTrain"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).UpdateTrain(ctx, t))
	})
}

// SetTrainImage stores the uploaded photo's URL; the asset itself
// lives in external storage.
func (s *Service) SetTrainImage(ctx context.Context, id int64, imageURL string) error {
	const op = "service.catalog.SetTrainImage"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).SetTrainImage(ctx, id, imageURL))
	})
}

func (s *Service) DeleteTrain(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteTrain"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).DeleteTrain(ctx, id))
	})
}

// --- crew ---

func (s *Service) CreateCrew(ctx context.Context, c domain.Crew) (int64, error) {
	const op = "service.catalog.CreateCrew"

	if c.Position == "" {
		c.Position = "staff"
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Catalog().With(tx).CreateCrew(ctx, c)
		return translate(op, err)
	})

	return id, err
}

func (s *Service) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	const op = "service.catalog.GetCrew"

	c, err := s.store.Catalog().GetCrew(ctx, id)
	if err != nil {
		return nil, translate(op, err)
	}

	return c, nil
}

func (s *Service) ListCrew(ctx context.Context, name string, limit, offset int) ([]domain.Crew, error) {
	const op = "service.catalog.ListCrew"

	out, err := s.store.Catalog().ListCrew(ctx, name, s.page(limit), offset)
	if err != nil {
		return nil, translate(op, err)
	}

	return out, nil
}

func (s *Service) UpdateCrew(ctx context.Context, c domain.Crew) error {
	const op = "service.catalog.UpdateCrew"

	if c.Position == "" {
		c.Position = "staff"
	}

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).UpdateCrew(ctx, c))
	})
}

func (s *Service) DeleteCrew(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteCrew"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		return translate(op, s.store.Catalog().With(tx).DeleteCrew(ctx, id))
	})
}
