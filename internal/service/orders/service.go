package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/dkovalenko/railgo/internal/repository"
	postgresrepo "github.com/dkovalenko/railgo/internal/repository/postgres"
	redisrepo "github.com/dkovalenko/railgo/internal/repository/redis"
	"github.com/dkovalenko/railgo/internal/uow"
)

type Config struct {
	DefaultPage int
	MaxPage     int
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.JourneysPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.JourneysPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 20
	}

	if cfg.MaxPage <= 0 || cfg.MaxPage < cfg.DefaultPage {
		cfg.MaxPage = 100
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// CreateOrder atomically creates one order and all requested tickets,
// or nothing. Two passes inside a single serializable transaction:
// first every seat is validated against its train's layout, then
// availability is checked against committed tickets. The unique index
// on (journey, cargo, place) settles races between concurrent orders;
// conflicts are not retried because resubmitting the same seat always
// fails the same way.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: owner of the order, passed through from the auth layer.
//   - requests: requested seats, one per ticket.
//   - rlKey: rate-limit key for the caller; empty disables limiting.
//
// Returns:
//   - *domain.OrderWithTickets: the persisted order with its tickets.
//   - error: orders.ErrEmptyOrder if no tickets were requested.
//   - error: orders.ErrJourneyNotFound if a journey does not exist.
//   - error: *domain.SeatRangeError if a seat is outside the train layout.
//   - error: *orders.SeatTakenError if a seat is already booked, in this
//     request or by an earlier order.
func (s *Service) CreateOrder(
	ctx context.Context,
	userID int64,
	requests []domain.TicketRequest,
	rlKey string,
) (*domain.OrderWithTickets, error) {
	const op = "service.orders.CreateOrder"

	if len(requests) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrEmptyOrder)
	}

	if dup, ok := findDuplicate(requests); ok {
		return nil, fmt.Errorf("%s:%w", op, &SeatTakenError{
			JourneyID: dup.JourneyID,
			Cargo:     dup.Cargo,
			Place:     dup.Place,
		})
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	var out *domain.OrderWithTickets

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		layouts := make(map[int64]domain.TrainLayout)

		for _, req := range requests {
			layout, ok := layouts[req.JourneyID]
			if !ok {
				train, err := s.store.Journeys().With(tx).GetTrain(ctx, req.JourneyID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return fmt.Errorf("%s:%w", op, ErrJourneyNotFound)
					}

					return fmt.Errorf("%s:%w", op, err)
				}

				layout = train.Layout()
				layouts[req.JourneyID] = layout
			}

			if err := domain.ValidateSeat(req.Cargo, req.Place, layout); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		for _, req := range requests {
			taken, err := s.store.Orders().With(tx).SeatTaken(ctx, req.JourneyID, req.Cargo, req.Place)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
			if taken {
				return fmt.Errorf("%s:%w", op, &SeatTakenError{
					JourneyID: req.JourneyID,
					Cargo:     req.Cargo,
					Place:     req.Place,
				})
			}
		}

		created, err := s.store.Orders().With(tx).CreateWithTickets(ctx, userID, requests)
		if err != nil {
			// a constraint violation at commit time is the same seat
			// conflict, won by a concurrent order
			if errors.Is(err, repository.ErrSeatTaken) {
				return fmt.Errorf("%s:%w", op, ErrSeatTaken)
			}

			if errors.Is(err, repository.ErrInvalidReference) {
				return fmt.Errorf("%s:%w", op, ErrJourneyNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		out = created

		for journeyID := range layouts {
			id := journeyID
			after(func(ctx context.Context) {
				_ = s.cache.InvalidateJourney(ctx, id)
				_ = s.pubsub.PublishJourneyChanged(ctx, id)
			})
		}

		return nil
	})
	if err != nil {
		// A bare backstop conflict carries no seat; re-check the
		// requested seats against committed state to name the one the
		// concurrent order won.
		var detail *SeatTakenError
		if errors.Is(err, ErrSeatTaken) && !errors.As(err, &detail) {
			return nil, fmt.Errorf("%s:%w", op,
				locateSeatConflict(ctx, requests, s.store.Orders().SeatTaken))
		}

		return nil, err
	}

	return out, nil
}

// seatChecker reports whether a seat already has a committed ticket.
type seatChecker func(ctx context.Context, journeyID int64, cargo, place int) (bool, error)

// locateSeatConflict scans the requested seats for the first one that
// is booked and returns it as a SeatTakenError. When the scan cannot
// identify the seat, the bare sentinel is returned instead.
func locateSeatConflict(
	ctx context.Context,
	requests []domain.TicketRequest,
	taken seatChecker,
) error {
	for _, req := range requests {
		booked, err := taken(ctx, req.JourneyID, req.Cargo, req.Place)
		if err != nil {
			break
		}
		if booked {
			return &SeatTakenError{
				JourneyID: req.JourneyID,
				Cargo:     req.Cargo,
				Place:     req.Place,
			}
		}
	}

	return ErrSeatTaken
}

// GetOrder retrieves an order with its tickets. Orders are visible
// only to their owner; anyone else gets not-found.
func (s *Service) GetOrder(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.OrderWithTickets, error) {
	const op = "service.orders.GetOrder"

	o, err := s.store.Orders().Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if o.Order.UserID != userID {
		return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
	}

	return o, nil
}

// ListOrders lists the caller's orders newest first.
func (s *Service) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.OrderWithTickets, error) {
	const op = "service.orders.ListOrders"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}

	out, err := s.store.Orders().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// findDuplicate scans a request for two tickets naming the same
// (journey, cargo, place), which would collide with each other before
// ever reaching the store.
func findDuplicate(requests []domain.TicketRequest) (domain.TicketRequest, bool) {
	type seatKey struct {
		journeyID    int64
		cargo, place int
	}

	seen := make(map[seatKey]struct{}, len(requests))
	for _, req := range requests {
		k := seatKey{req.JourneyID, req.Cargo, req.Place}
		if _, ok := seen[k]; ok {
			return req, true
		}
		seen[k] = struct{}{}
	}

	return domain.TicketRequest{}, false
}
