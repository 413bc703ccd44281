package postgres

import (
	"context"

	"github.com/dkovalenko/railgo/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// CreateWithTickets inserts one order row and all its ticket rows.
// Callers run it inside a transaction; the unique index on
// (journey_id, cargo, place) is the backstop against concurrent
// bookings of the same seat.
//
// Returns:
//   - *domain.OrderWithTickets: the persisted order, created_at stamped by the DB.
//   - error: repository.ErrSeatTaken if a requested seat is already booked.
//   - error: repository.ErrInvalidReference if a journey does not exist.
func (r *OrderRepo) CreateWithTickets(
	ctx context.Context,
	userID int64,
	requests []domain.TicketRequest,
) (*domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.CreateWithTickets"

	db := r.handle()

	var out domain.OrderWithTickets

	orderID := uuid.New()
	if err := db.QueryRow(ctx,
		`INSERT INTO orders(id, user_id)
       	 VALUES ($1, $2)
     	 RETURNING id, user_id, created_at`,
		orderID, userID,
	).Scan(&out.Order.ID, &out.Order.UserID, &out.Order.CreatedAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	batch := &pgx.Batch{}
	for _, req := range requests {
		batch.Queue(
			`INSERT INTO ticket(cargo, place, journey_id, order_id)
         	 VALUES ($1, $2, $3, $4)
       		 RETURNING id`,
			req.Cargo, req.Place, req.JourneyID, orderID,
		)
	}

	br := db.SendBatch(ctx, batch)

	tickets := make([]domain.Ticket, 0, len(requests))
	for _, req := range requests {
		t := domain.Ticket{
			Cargo:     req.Cargo,
			Place:     req.Place,
			JourneyID: req.JourneyID,
			OrderID:   orderID,
		}
		if err := br.QueryRow().Scan(&t.ID); err != nil {
			_ = br.Close()
			return nil, wrapDBErr(op, err)
		}
		tickets = append(tickets, t)
	}
	if err := br.Close(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	out.Tickets = tickets

	return &out, nil
}

// Get retrieves an order with its tickets.
//
// Returns:
//   - *domain.OrderWithTickets: the order when found.
//   - error: repository.ErrNotFound if the order is not found.
func (r *OrderRepo) Get(ctx context.Context, orderID uuid.UUID) (*domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.Get"

	db := r.handle()

	var out domain.OrderWithTickets

	err := db.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM orders WHERE id = $1`,
		orderID,
	).Scan(&out.Order.ID, &out.Order.UserID, &out.Order.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT id, cargo, place, journey_id, order_id
         FROM ticket
      	 WHERE order_id = $1
       	 ORDER BY cargo, place`,
		orderID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.Cargo, &t.Place, &t.JourneyID, &t.OrderID); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out.Tickets = append(out.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

// ListByUser lists a user's orders newest first, each with its tickets.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, user_id, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.OrderWithTickets
	index := make(map[uuid.UUID]int)
	var ids []uuid.UUID

	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		index[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, domain.OrderWithTickets{Order: o})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	if len(ids) == 0 {
		return out, nil
	}

	ticketRows, err := db.Query(ctx,
		`SELECT id, cargo, place, journey_id, order_id
		 FROM ticket
		 WHERE order_id = ANY($1)
		 ORDER BY cargo, place`,
		ids,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer ticketRows.Close()

	for ticketRows.Next() {
		var t domain.Ticket
		if err := ticketRows.Scan(&t.ID, &t.Cargo, &t.Place, &t.JourneyID, &t.OrderID); err != nil {
			return nil, wrapDBErr(op, err)
		}

		if i, ok := index[t.OrderID]; ok {
			out[i].Tickets = append(out[i].Tickets, t)
		}
	}
	if err := ticketRows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CountTickets counts booked tickets for a journey.
func (r *OrderRepo) CountTickets(ctx context.Context, journeyID int64) (int, error) {
	const op = "postgres.OrderRepo.CountTickets"

	db := r.handle()

	var n int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM ticket WHERE journey_id = $1`,
		journeyID,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

// SeatTaken reports whether a ticket for (journey, cargo, place)
// already exists. The pre-check keeps error messages precise; the
// unique index still decides races at commit time.
func (r *OrderRepo) SeatTaken(ctx context.Context, journeyID int64, cargo, place int) (bool, error) {
	const op = "postgres.OrderRepo.SeatTaken"

	db := r.handle()

	var taken bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM ticket
		     WHERE journey_id = $1 AND cargo = $2 AND place = $3)`,
		journeyID, cargo, place,
	).Scan(&taken); err != nil {
		return false, wrapDBErr(op, err)
	}

	return taken, nil
}

func (r *OrderRepo) Delete(ctx context.Context, orderID uuid.UUID) error {
	const op = "postgres.OrderRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRowsAffected)
	}

	return nil
}
